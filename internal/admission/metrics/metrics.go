// Package metrics provides observability for the admission module.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for admission evaluations.
type Metrics struct {
	// Pipeline stage latencies by stage name
	StageLatency *prometheus.HistogramVec

	// Gate decisions by action and reason
	Decisions *prometheus.CounterVec

	// Upstream Steam API failures by endpoint and classified status
	UpstreamErrors *prometheus.CounterVec

	// Membership cache lookups by result
	CacheLookups *prometheus.CounterVec

	// Overall pipeline latency
	EvaluateLatency prometheus.Histogram
}

// New creates a Metrics instance with all admission metrics registered.
func New() *Metrics {
	return &Metrics{
		StageLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "steamgate_admission_stage_duration_seconds",
			Help:    "Duration of pipeline stage lookups by stage",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"stage"}), // stage: "bans", "summary", "level", "playtime", "badges"

		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "steamgate_admission_decisions_total",
			Help: "Total gate decisions by action and reason",
		}, []string{"action", "reason"}),

		UpstreamErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "steamgate_admission_upstream_errors_total",
			Help: "Total classified Steam API failures by endpoint and status",
		}, []string{"endpoint", "status"}),

		CacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "steamgate_admission_cache_lookups_total",
			Help: "Total membership cache lookups by result",
		}, []string{"result"}), // result: "unknown", "passed", "failed"

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "steamgate_admission_evaluate_duration_seconds",
			Help:    "Duration of full pipeline evaluations including all lookups",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// ObserveStageLatency records the duration of one pipeline stage lookup.
func (m *Metrics) ObserveStageLatency(stage string, d time.Duration) {
	if m != nil {
		m.StageLatency.WithLabelValues(stage).Observe(d.Seconds())
	}
}

// IncrementDecision records a gate decision.
func (m *Metrics) IncrementDecision(action, reason string) {
	if m != nil {
		m.Decisions.WithLabelValues(action, reason).Inc()
	}
}

// IncrementUpstreamError records a classified Steam API failure.
func (m *Metrics) IncrementUpstreamError(endpoint, status string) {
	if m != nil {
		m.UpstreamErrors.WithLabelValues(endpoint, status).Inc()
	}
}

// IncrementCacheLookup records a membership cache lookup result.
func (m *Metrics) IncrementCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}

// ObserveEvaluateLatency records the total pipeline duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}
