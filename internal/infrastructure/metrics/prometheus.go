package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "erpr"

// PrometheusExporter exports metrics to Prometheus format.
type PrometheusExporter struct {
	collector *Collector

	cacheHitRate prometheus.Gauge
	cacheKeys    prometheus.Gauge
	decisions    *prometheus.CounterVec
	denials      *prometheus.CounterVec
	saves        *prometheus.CounterVec
	grpcRequests *prometheus.CounterVec
	grpcDuration *prometheus.HistogramVec
	grpcErrors   *prometheus.CounterVec
}

// NewPrometheusExporter creates a new Prometheus exporter registered on reg.
// A nil reg uses the default registerer.
func NewPrometheusExporter(collector *Collector, reg prometheus.Registerer) *PrometheusExporter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	cacheValue := func(pick func(*CacheMetrics) float64) func() float64 {
		return func() float64 { return pick(collector.GetCacheMetrics()) }
	}
	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_cache_hits_total",
		Help:      "Total number of permission cache hits",
	}, cacheValue(func(m *CacheMetrics) float64 { return float64(m.Hits) }))
	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_cache_misses_total",
		Help:      "Total number of permission cache misses",
	}, cacheValue(func(m *CacheMetrics) float64 { return float64(m.Misses) }))
	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_cache_evictions_total",
		Help:      "Total number of permission cache evictions",
	}, cacheValue(func(m *CacheMetrics) float64 { return float64(m.Evictions) }))

	return &PrometheusExporter{
		collector: collector,
		cacheHitRate: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "permission_cache_hit_rate",
			Help:      "Current cache hit rate (0.0 to 1.0)",
		}),
		cacheKeys: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "permission_cache_keys_current",
			Help:      "Current number of profiles in the in-process permission cache",
		}),
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "permission_decisions_total",
			Help:      "Total number of permission evaluations by reason",
		}, []string{"reason"}),
		denials: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_denials_total",
			Help:      "Total number of blocked navigations and actions",
		}, []string{"page_key"}),
		saves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "permission_saves_total",
			Help:      "Total number of permission batch saves by result",
		}, []string{"result"}),
		grpcRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grpc_requests_total",
			Help:      "Total number of gRPC requests",
		}, []string{"method"}),
		grpcDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "grpc_request_duration_seconds",
			Help:      "Duration of gRPC requests in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
		}, []string{"method"}),
		grpcErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grpc_errors_total",
			Help:      "Total number of gRPC errors",
		}, []string{"method"}),
	}
}

// Update updates Gauge metrics from the collector.
// This should be called periodically (e.g., every 10 seconds).
func (e *PrometheusExporter) Update() {
	cacheMetrics := e.collector.GetCacheMetrics()
	e.cacheHitRate.Set(cacheMetrics.HitRate)
	e.cacheKeys.Set(float64(cacheMetrics.KeysCurrent))
}

// RecordRequest records a request in Prometheus.
func (e *PrometheusExporter) RecordRequest(method string) {
	e.grpcRequests.WithLabelValues(method).Inc()
}

// RecordDuration records a duration in Prometheus.
func (e *PrometheusExporter) RecordDuration(method string, durationSeconds float64) {
	e.grpcDuration.WithLabelValues(method).Observe(durationSeconds)
}

// RecordError records an error in Prometheus.
func (e *PrometheusExporter) RecordError(method string) {
	e.grpcErrors.WithLabelValues(method).Inc()
}

// RecordDecision counts a permission evaluation by reason.
func (e *PrometheusExporter) RecordDecision(reason string) {
	e.decisions.WithLabelValues(reason).Inc()
}

// RecordDenial counts a blocked navigation or action.
func (e *PrometheusExporter) RecordDenial(pageKey string) {
	e.denials.WithLabelValues(pageKey).Inc()
}

// RecordSave counts a permission batch save.
func (e *PrometheusExporter) RecordSave(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	e.saves.WithLabelValues(result).Inc()
}
