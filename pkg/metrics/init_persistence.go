package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPersistenceMetrics() {
	r.PersistOperationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_persist_operations_total",
			Help: "Total number of history store operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	r.PersistDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentinel_persist_duration_seconds",
			Help:    "History store operation duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
	)

	r.HistoryCyclesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "sentinel_history_cycles_total",
			Help: "Number of cycle files currently held in the history store",
		},
	)
}
