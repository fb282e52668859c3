package metrics

import (
	"sync"
	"sync/atomic"

	"github.com/celsoprodesp/Antigravity/pkg/cache"
)

// Collector collects and aggregates metrics for the application.
type Collector struct {
	// API metrics
	apiRequests sync.Map // map[string]*uint64 - method -> count
	apiErrors   sync.Map // map[string]*uint64 - method -> error count
	apiDuration sync.Map // map[string]*durationValue - method -> total duration in seconds

	// Access-control metrics
	decisions sync.Map // map[string]*uint64 - reason -> count
	denials   sync.Map // map[string]*uint64 - page key -> count
	saves     uint64
	saveFails uint64

	// Cache reference (optional, for querying cache-specific metrics)
	cache cache.Cache
}

// durationValue holds duration with mutex for thread-safe updates.
type durationValue struct {
	mu           sync.Mutex
	totalSeconds float64
}

// CacheMetrics holds cache performance metrics.
type CacheMetrics struct {
	Hits        uint64
	Misses      uint64
	HitRate     float64
	KeysCurrent int64
	Evictions   uint64
}

// APIMetrics holds API request metrics.
type APIMetrics struct {
	RequestCounts        map[string]uint64
	ErrorCounts          map[string]uint64
	TotalDurationSeconds map[string]float64
}

// AccessMetrics holds permission evaluation metrics.
type AccessMetrics struct {
	Decisions   map[string]uint64 // by reason
	Denials     map[string]uint64 // by page key
	Saves       uint64
	FailedSaves uint64
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{}
}

// SetCache sets the cache instance for collecting cache metrics.
func (c *Collector) SetCache(cache cache.Cache) {
	c.cache = cache
}

// RecordRequest records an API request.
func (c *Collector) RecordRequest(method string) {
	atomic.AddUint64(c.getOrCreateCounter(&c.apiRequests, method), 1)
}

// RecordError records an API error.
func (c *Collector) RecordError(method string) {
	atomic.AddUint64(c.getOrCreateCounter(&c.apiErrors, method), 1)
}

// RecordDuration records the duration of an API call in seconds.
func (c *Collector) RecordDuration(method string, durationSeconds float64) {
	val, _ := c.apiDuration.LoadOrStore(method, &durationValue{})
	dv := val.(*durationValue)

	dv.mu.Lock()
	dv.totalSeconds += durationSeconds
	dv.mu.Unlock()
}

// RecordDecision counts a permission evaluation by reason.
func (c *Collector) RecordDecision(reason string) {
	atomic.AddUint64(c.getOrCreateCounter(&c.decisions, reason), 1)
}

// RecordDenial counts a blocked navigation or action.
func (c *Collector) RecordDenial(pageKey string) {
	atomic.AddUint64(c.getOrCreateCounter(&c.denials, pageKey), 1)
}

// RecordSave counts a permission batch save.
func (c *Collector) RecordSave(err error) {
	if err != nil {
		atomic.AddUint64(&c.saveFails, 1)
		return
	}
	atomic.AddUint64(&c.saves, 1)
}

// GetCacheMetrics returns current cache metrics.
func (c *Collector) GetCacheMetrics() *CacheMetrics {
	if c.cache == nil {
		return &CacheMetrics{}
	}

	metrics := c.cache.Metrics()
	if metrics == nil {
		return &CacheMetrics{}
	}

	result := &CacheMetrics{
		Hits:      metrics.Hits,
		Misses:    metrics.Misses,
		HitRate:   metrics.HitRate(),
		Evictions: metrics.KeysEvicted,
	}

	// Only the in-process backend knows its size
	if sized, ok := c.cache.(interface{ Len() int }); ok {
		result.KeysCurrent = int64(sized.Len())
	}

	return result
}

// GetAPIMetrics returns current API metrics.
func (c *Collector) GetAPIMetrics() *APIMetrics {
	result := &APIMetrics{
		RequestCounts:        snapshot(&c.apiRequests),
		ErrorCounts:          snapshot(&c.apiErrors),
		TotalDurationSeconds: make(map[string]float64),
	}

	c.apiDuration.Range(func(key, value interface{}) bool {
		dv := value.(*durationValue)
		dv.mu.Lock()
		result.TotalDurationSeconds[key.(string)] = dv.totalSeconds
		dv.mu.Unlock()
		return true
	})

	return result
}

// GetAccessMetrics returns current access-control metrics.
func (c *Collector) GetAccessMetrics() *AccessMetrics {
	return &AccessMetrics{
		Decisions:   snapshot(&c.decisions),
		Denials:     snapshot(&c.denials),
		Saves:       atomic.LoadUint64(&c.saves),
		FailedSaves: atomic.LoadUint64(&c.saveFails),
	}
}

func snapshot(m *sync.Map) map[string]uint64 {
	out := make(map[string]uint64)
	m.Range(func(key, value interface{}) bool {
		out[key.(string)] = atomic.LoadUint64(value.(*uint64))
		return true
	})
	return out
}

// getOrCreateCounter gets or creates a counter for the given key.
func (c *Collector) getOrCreateCounter(m *sync.Map, key string) *uint64 {
	val, _ := m.LoadOrStore(key, new(uint64))
	return val.(*uint64)
}
