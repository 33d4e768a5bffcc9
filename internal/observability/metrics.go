// Package observability exposes Prometheus counters for the search path.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the search collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	searches        *prometheus.CounterVec
	rateLimited     prometheus.Counter
	upstreamErrors  *prometheus.CounterVec
	upstreamLatency prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "partsgpt",
			Name:      "searches_total",
			Help:      "Part searches served, by result source.",
		}, []string{"source"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "partsgpt",
			Name:      "searches_rate_limited_total",
			Help:      "Part searches rejected by the per-user rate limit.",
		}),
		upstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "partsgpt",
			Name:      "upstream_errors_total",
			Help:      "Failed calls to the generative model, by error kind.",
		}, []string{"kind"}),
		upstreamLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "partsgpt",
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of calls to the generative model.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15},
		}),
	}
	reg.MustRegister(m.searches, m.rateLimited, m.upstreamErrors, m.upstreamLatency)
	return m
}

func (m *Metrics) SearchServed(source string) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(source).Inc()
}

func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

func (m *Metrics) UpstreamError(kind string) {
	if m == nil {
		return
	}
	m.upstreamErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveUpstream(d time.Duration) {
	if m == nil {
		return
	}
	m.upstreamLatency.Observe(d.Seconds())
}
