package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSimulationMetrics() {
	r.ScenariosTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "sentinel_scenarios_total",
			Help: "Total number of disruption scenarios simulated",
		},
	)

	r.SimulationDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentinel_simulation_duration_seconds",
			Help:    "Monte Carlo simulation duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
		},
	)

	r.WorstCaseDelayDays = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "sentinel_worst_case_delay_days",
			Help: "Worst-case delivery delay in days from the latest simulation",
		},
	)

	r.WorstCaseNodeCount = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "sentinel_worst_case_affected_nodes",
			Help: "Supplier count affected by the latest worst-case scenario",
		},
	)

	r.SimulationTrialErrors = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "sentinel_simulation_trial_errors_total",
			Help: "Total number of simulation trials that raised warnings",
		},
	)
}
