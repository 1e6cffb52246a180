// Package simulation generates and scores Monte Carlo disruption scenarios
// against the supplier dependency graph.
package simulation

import (
	"github.com/dd0wney/cluso-sentinel/pkg/risk"
)

// Scenario is one Monte Carlo trial. Scenarios are ephemeral: generated and
// scored within one cycle, only aggregates are persisted. The json tags are
// the wire contract for the scenario list.
type Scenario struct {
	// ScenarioID is assigned by generation order, not completion order, so
	// the worst-case tie-break is stable under concurrent execution.
	ScenarioID        int     `json:"scenario_id"`
	DelayDays         int     `json:"delay_days"`
	AffectedNodeCount int     `json:"affected_nodes"`
	ServiceImpactPct  float64 `json:"service_impact_pct"`

	// TriggerRisks holds the risk(s) that seeded the trial.
	TriggerRisks []risk.Risk `json:"-"`
	// Impacts maps affected node names to their decayed impact in (0, 1].
	// Nodes below the impact floor are excluded.
	Impacts map[string]float64 `json:"-"`
	// Ambient marks baseline trials generated when no risk cleared the
	// severity floor.
	Ambient bool `json:"-"`

	// unknownOrigins lists affected-supplier names the graph didn't know.
	unknownOrigins []string
}

// Result aggregates all scenarios of one cycle.
//
// Invariant: WorstCaseDelayDays equals the maximum scenario delay; ties are
// broken by highest affected node count, then by generation order (first wins).
type Result struct {
	Scenarios              []Scenario `json:"scenarios"`
	WorstCaseDelayDays     int        `json:"worst_case_delay_days"`
	WorstCaseAffectedNodes int        `json:"worst_case_affected_nodes"`

	// WorstCase references the winning scenario, nil when no scenarios ran.
	WorstCase *Scenario `json:"-"`
	// Warnings records data-quality issues (e.g. risks naming unknown suppliers).
	Warnings []string `json:"-"`
}

// MaxImpact returns the highest decayed impact the named node received across
// all scenarios, zero if it was never affected.
func (r *Result) MaxImpact(node string) float64 {
	max := 0.0
	for i := range r.Scenarios {
		if imp, ok := r.Scenarios[i].Impacts[node]; ok && imp > max {
			max = imp
		}
	}
	return max
}

// aggregate applies the worst-case tie-break rule over the scenario list.
func (r *Result) aggregate() {
	for i := range r.Scenarios {
		s := &r.Scenarios[i]
		if r.WorstCase == nil {
			r.WorstCase = s
			continue
		}
		if s.DelayDays > r.WorstCase.DelayDays ||
			(s.DelayDays == r.WorstCase.DelayDays && s.AffectedNodeCount > r.WorstCase.AffectedNodeCount) {
			r.WorstCase = s
		}
	}
	if r.WorstCase != nil {
		r.WorstCaseDelayDays = r.WorstCase.DelayDays
		r.WorstCaseAffectedNodes = r.WorstCase.AffectedNodeCount
	}
}
