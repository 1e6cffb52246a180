// Package cycle orchestrates one analysis pass: graph build, simulation,
// decision, persistence. Stages communicate only through the shared cycle
// store, and the orchestrator is the sole component sequencing them.
package cycle

import (
	"time"

	"github.com/dd0wney/cluso-sentinel/pkg/decision"
	"github.com/dd0wney/cluso-sentinel/pkg/simulation"
)

// Status is the terminal disposition of a cycle.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// GraphSummary is the persisted slice of the graph stage output.
type GraphSummary struct {
	NodeCount     int      `json:"node_count"`
	EdgeCount     int      `json:"edge_count"`
	CriticalNodes []string `json:"critical_nodes"`
}

// Cycle is the unit of work handed to the persistence collaborator. It is
// populated by the stages in order and immutable once persisted; the engine
// never reads a Cycle back. The json tags are the wire contract.
type Cycle struct {
	ID               string             `json:"cycle_id"`
	Timestamp        string             `json:"timestamp"` // ISO-8601 UTC
	Status           Status             `json:"status"`
	GraphResult      *GraphSummary      `json:"graph_result"`
	SimulationResult *simulation.Result `json:"simulation_result"`
	DecisionResult   *decision.Result   `json:"decision_result"`
	Warnings         []string           `json:"warnings,omitempty"`
	DurationMS       int64              `json:"duration_ms,omitempty"`
}

// newCycle creates an empty cycle stamped with the current UTC time.
func newCycle(id string) *Cycle {
	return &Cycle{
		ID:        id,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		GraphResult: &GraphSummary{
			CriticalNodes: []string{},
		},
		SimulationResult: &simulation.Result{Scenarios: []simulation.Scenario{}},
		DecisionResult:   &decision.Result{RecommendedActions: []decision.Action{}},
	}
}

// OverallConfidence returns the cycle's overall confidence: the maximum over
// all emitted decision confidences, zero when none were emitted.
func (c *Cycle) OverallConfidence() float64 {
	if c.DecisionResult == nil {
		return 0
	}
	return c.DecisionResult.OverallConfidence
}

// DecisionCount returns the number of emitted decision records.
func (c *Cycle) DecisionCount() int {
	if c.DecisionResult == nil {
		return 0
	}
	return c.DecisionResult.DecisionCount
}
