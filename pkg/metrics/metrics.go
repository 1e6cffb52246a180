package metrics

import (
	"time"
)

// RecordCycle records a finished cycle with its terminal status and duration
func (r *Registry) RecordCycle(status string, duration time.Duration) {
	r.CyclesTotal.WithLabelValues(status).Inc()
	r.CycleDuration.Observe(duration.Seconds())
	if status == "success" {
		r.LastCycleSuccess.Set(1)
	} else {
		r.LastCycleSuccess.Set(0)
	}
}

// RecordStage records one stage execution
func (r *Registry) RecordStage(stage string, failed bool, duration time.Duration) {
	r.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
	if failed {
		r.StageFailures.WithLabelValues(stage).Inc()
	}
}

// AddWarnings bumps the warning counter by the number attached to a cycle
func (r *Registry) AddWarnings(count int) {
	if count > 0 {
		r.CycleWarnings.Add(float64(count))
	}
}

// UpdateGraphMetrics updates the dependency-graph gauges
func (r *Registry) UpdateGraphMetrics(nodes, edges, suppliers, criticalNodes int) {
	r.GraphNodesTotal.Set(float64(nodes))
	r.GraphEdgesTotal.Set(float64(edges))
	r.GraphSuppliersTotal.Set(float64(suppliers))
	r.GraphCriticalNodes.Set(float64(criticalNodes))
}

// RecordSimulation records one simulation pass
func (r *Registry) RecordSimulation(scenarios, worstDelayDays, worstAffected int, duration time.Duration) {
	r.ScenariosTotal.Add(float64(scenarios))
	r.SimulationDuration.Observe(duration.Seconds())
	r.WorstCaseDelayDays.Set(float64(worstDelayDays))
	r.WorstCaseNodeCount.Set(float64(worstAffected))
}

// RecordDecisions records one decision pass
func (r *Registry) RecordDecisions(actions []string, overallConfidence float64, duration time.Duration) {
	for _, action := range actions {
		r.DecisionsTotal.WithLabelValues(action).Inc()
	}
	r.OverallConfidence.Set(overallConfidence)
	r.DecisionDuration.Observe(duration.Seconds())
}

// RecordPersist records one history store operation
func (r *Registry) RecordPersist(operation, status string, duration time.Duration) {
	r.PersistOperationsTotal.WithLabelValues(operation, status).Inc()
	r.PersistDuration.Observe(duration.Seconds())
}
