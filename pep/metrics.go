package pep

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments of the authorization service.
type Metrics struct {
	decisions *prometheus.CounterVec
	latency   prometheus.Histogram
	cacheHits prometheus.Counter
	cacheMiss prometheus.Counter
}

// NewMetrics creates and registers the service metrics on the given
// registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pdp",
			Name:      "decisions_total",
			Help:      "Authorization decisions by outcome.",
		}, []string{"decision"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pdp",
			Name:      "evaluation_seconds",
			Help:      "Policy evaluation latency.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pdp",
			Name:      "decision_cache_hits_total",
			Help:      "Decision cache hits.",
		}),
		cacheMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pdp",
			Name:      "decision_cache_misses_total",
			Help:      "Decision cache misses.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.decisions, m.latency, m.cacheHits, m.cacheMiss)
	}
	return m
}

// ObserveDecision records one decision and its latency.
func (m *Metrics) ObserveDecision(decision string, elapsed time.Duration) {
	m.decisions.WithLabelValues(decision).Inc()
	m.latency.Observe(elapsed.Seconds())
}

// CacheHit records a decision cache hit.
func (m *Metrics) CacheHit() { m.cacheHits.Inc() }

// CacheMiss records a decision cache miss.
func (m *Metrics) CacheMiss() { m.cacheMiss.Inc() }
