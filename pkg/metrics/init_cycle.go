package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCycleMetrics() {
	r.CyclesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_cycles_total",
			Help: "Total number of analysis cycles by terminal status",
		},
		[]string{"status"},
	)

	r.CycleDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentinel_cycle_duration_seconds",
			Help:    "End-to-end cycle duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0, 30.0},
		},
	)

	r.StageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentinel_stage_duration_seconds",
			Help:    "Per-stage execution duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"stage"},
	)

	r.StageFailures = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_stage_failures_total",
			Help: "Total number of structural stage failures",
		},
		[]string{"stage"},
	)

	r.CycleWarnings = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "sentinel_cycle_warnings_total",
			Help: "Total number of data-quality warnings attached to cycles",
		},
	)

	r.LastCycleSuccess = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "sentinel_last_cycle_success",
			Help: "Whether the most recent cycle finished with status success (1) or not (0)",
		},
	)
}
