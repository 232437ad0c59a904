package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ExtrasMetrics records resolution outcomes for the extras engine.
type ExtrasMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
	cache    *prometheus.CounterVec
}

// NewExtrasMetrics registers the extras resolution metrics on the provided registerer.
func NewExtrasMetrics(reg prometheus.Registerer) *ExtrasMetrics {
	if reg == nil {
		return &ExtrasMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "extras_resolution_duration_seconds",
		Help:    "Duration of extras group resolution in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "extras_resolutions_total",
		Help: "Extras resolutions by outcome.",
	}, []string{"outcome"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "extras_resolution_cache_total",
		Help: "Resolution cache lookups by result.",
	}, []string{"result"})
	reg.MustRegister(duration, outcomes, cache)
	return &ExtrasMetrics{
		duration: duration,
		outcomes: outcomes,
		cache:    cache,
	}
}

// ObserveResolution records one resolution with its outcome and duration.
func (m *ExtrasMetrics) ObserveResolution(outcome string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	label := normalizeLabel(outcome)
	m.duration.WithLabelValues(label).Observe(duration.Seconds())
	m.outcomes.WithLabelValues(label).Inc()
}

// IncCacheHit increments the cache hit counter.
func (m *ExtrasMetrics) IncCacheHit() {
	if m == nil || m.cache == nil {
		return
	}
	m.cache.WithLabelValues("hit").Inc()
}

// IncCacheMiss increments the cache miss counter.
func (m *ExtrasMetrics) IncCacheMiss() {
	if m == nil || m.cache == nil {
		return
	}
	m.cache.WithLabelValues("miss").Inc()
}

func normalizeLabel(outcome string) string {
	if outcome == "" {
		return "unknown"
	}
	return outcome
}
