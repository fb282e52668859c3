package lrucache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/celsoprodesp/Antigravity/pkg/cache"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// entry keeps the per-key deadline; the LRU itself only knows the default TTL.
type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Cache implements an LRU cache with TTL support on top of golang-lru's expirable LRU.
type Cache struct {
	lru *expirable.LRU[string, entry]

	hits        atomic.Uint64
	misses      atomic.Uint64
	keysAdded   atomic.Uint64
	keysEvicted atomic.Uint64
}

// Config holds configuration for the LRU cache.
type Config struct {
	// MaxEntries is the maximum number of cached permission sets.
	// When this limit is exceeded, least recently used entries are evicted.
	MaxEntries int

	// DefaultTTL bounds how long any entry may live.
	DefaultTTL time.Duration
}

// New creates a new LRU cache with the given configuration.
func New(config *Config) *Cache {
	c := &Cache{}
	c.lru = expirable.NewLRU[string, entry](config.MaxEntries, func(string, entry) {
		c.keysEvicted.Add(1)
	}, config.DefaultTTL)
	return c
}

// Get retrieves a value from cache.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	ent, ok := c.lru.Get(key)
	if !ok || ent.expired(time.Now()) {
		if ok {
			c.lru.Remove(key)
		}
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return ent.value, true
}

// Set stores a value in cache with the specified TTL.
// A non-positive ttl falls back to the cache's default TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if !c.lru.Contains(key) {
		c.keysAdded.Add(1)
	}
	ent := entry{value: value}
	if ttl > 0 {
		ent.expiresAt = time.Now().Add(ttl)
	}
	c.lru.Add(key, ent)
	return nil
}

// Delete removes a value from cache.
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// Clear removes all entries from cache.
func (c *Cache) Clear(ctx context.Context) error {
	c.lru.Purge()
	return nil
}

// Close releases resources (no-op for the in-process cache).
func (c *Cache) Close() error {
	return nil
}

// Metrics returns cache statistics.
func (c *Cache) Metrics() *cache.Metrics {
	return &cache.Metrics{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		KeysAdded:   c.keysAdded.Load(),
		KeysEvicted: c.keysEvicted.Load(),
	}
}

// Len returns the current number of items in cache.
func (c *Cache) Len() int {
	return c.lru.Len()
}
