package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initDecisionMetrics() {
	r.DecisionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_decisions_total",
			Help: "Total number of recommended actions by action name",
		},
		[]string{"action"},
	)

	r.OverallConfidence = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "sentinel_overall_confidence",
			Help: "Overall confidence of the most recent decision pass",
		},
	)

	r.DecisionDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentinel_decision_duration_seconds",
			Help:    "Decision engine pass duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
	)
}
