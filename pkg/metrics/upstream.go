package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes recorded per upstream lookup.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeNoData   = "no_data"
	OutcomeCacheHit = "cache_hit"
)

// UpstreamMetrics records latency and outcome of third-party API calls.
type UpstreamMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

// NewUpstreamMetrics registers the upstream metrics on the provided registerer.
func NewUpstreamMetrics(reg prometheus.Registerer) *UpstreamMetrics {
	if reg == nil {
		return &UpstreamMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Duration of upstream API requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"upstream"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_requests_total",
		Help: "Upstream lookups by outcome.",
	}, []string{"upstream", "outcome"})
	reg.MustRegister(duration, requests)
	return &UpstreamMetrics{
		duration: duration,
		requests: requests,
	}
}

// ObserveDuration records the duration of one request to upstream.
func (m *UpstreamMetrics) ObserveDuration(upstream string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(upstream)).Observe(duration.Seconds())
}

// IncOutcome counts one lookup against upstream with the given outcome.
func (m *UpstreamMetrics) IncOutcome(upstream, outcome string) {
	if m == nil || m.requests == nil {
		return
	}
	m.requests.WithLabelValues(normalizeLabel(upstream), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
