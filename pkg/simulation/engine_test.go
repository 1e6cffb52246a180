package simulation

import (
	"context"
	"reflect"
	"testing"

	"github.com/dd0wney/cluso-sentinel/pkg/config"
	"github.com/dd0wney/cluso-sentinel/pkg/graph"
	"github.com/dd0wney/cluso-sentinel/pkg/risk"
)

func testSimConfig(seed int64) config.SimulationConfig {
	return config.SimulationConfig{
		ScenarioCount:      5,
		Seed:               seed,
		SeverityFloor:      0.3,
		DecayFactor:        0.5,
		ImpactFloor:        0.05,
		MaxPropagationHops: 3,
		DelayJitter:        0.25,
		Workers:            4,
	}
}

func singleSupplierGraph(t *testing.T) *graph.Graph {
	t.Helper()
	suppliers := []graph.Supplier{
		{Name: "Acme Semiconductors", Country: "Taiwan", Product: "Semiconductors", LeadTimeDays: 30, Reliability: 0.9},
	}
	cfg := config.GraphConfig{CriticalNodeCount: 5, DegreeWeight: 0.5, BetweennessWeight: 0.5}
	return graph.Build(suppliers, nil, cfg, nil)
}

// TestRun_EmptyGraph tests the degenerate no-supplier case
func TestRun_EmptyGraph(t *testing.T) {
	engine := NewEngine(testSimConfig(1), nil)
	g := graph.Build(nil, nil, config.GraphConfig{CriticalNodeCount: 5}, nil)

	result, err := engine.Run(context.Background(), g, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Scenarios) != 0 {
		t.Errorf("Expected no scenarios, got %d", len(result.Scenarios))
	}
	if result.WorstCaseDelayDays != 0 || result.WorstCaseAffectedNodes != 0 {
		t.Errorf("Expected zero worst case, got %+v", result)
	}
	if result.WorstCase != nil {
		t.Error("Expected nil WorstCase for empty graph")
	}
}

// TestRun_ScenarioCount tests that the configured count is honoured
func TestRun_ScenarioCount(t *testing.T) {
	engine := NewEngine(testSimConfig(1), nil)
	g := singleSupplierGraph(t)
	risks := []risk.Risk{
		{Title: "port strike", Severity: 0.8, Category: risk.Logistics, Confidence: 0.9,
			AffectedSuppliers: []string{"Acme Semiconductors"}},
	}

	result, err := engine.Run(context.Background(), g, risks)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Scenarios) != 5 {
		t.Fatalf("Expected 5 scenarios, got %d", len(result.Scenarios))
	}
	for i, s := range result.Scenarios {
		if s.ScenarioID != i {
			t.Errorf("Scenario %d has ID %d, IDs must follow generation order", i, s.ScenarioID)
		}
	}
}

// TestRun_SingleSupplierDisruption tests the smallest real scenario shape
func TestRun_SingleSupplierDisruption(t *testing.T) {
	engine := NewEngine(testSimConfig(7), nil)
	g := singleSupplierGraph(t)
	risks := []risk.Risk{
		{Title: "earthquake near fab", Severity: 0.8, Category: risk.NaturalDisaster, Confidence: 0.9,
			AffectedSuppliers: []string{"Acme Semiconductors"}},
	}

	result, err := engine.Run(context.Background(), g, risks)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, s := range result.Scenarios {
		if s.AffectedNodeCount != 1 {
			t.Errorf("Scenario %d affected %d nodes, want 1 (synthetic nodes excluded)",
				s.ScenarioID, s.AffectedNodeCount)
		}
		if s.DelayDays < 1 {
			t.Errorf("Scenario %d delay %d, a hit supplier always delays at least a day",
				s.ScenarioID, s.DelayDays)
		}
		if s.ServiceImpactPct != 100.0 {
			t.Errorf("Scenario %d service impact %f, want 100 with the only supplier down",
				s.ScenarioID, s.ServiceImpactPct)
		}
	}
	if result.WorstCaseDelayDays < 1 {
		t.Errorf("Worst case delay %d, want >= 1", result.WorstCaseDelayDays)
	}
}

// TestRun_FixedSeedIsDeterministic tests byte-for-byte reproducibility
func TestRun_FixedSeedIsDeterministic(t *testing.T) {
	g := chainGraph(t, "A", "B", "C", "D")
	risks := []risk.Risk{
		{Title: "strike", Severity: 0.7, Category: risk.Logistics, Confidence: 0.9, AffectedSuppliers: []string{"A"}},
		{Title: "flood", Severity: 0.5, Category: risk.NaturalDisaster, Confidence: 0.8, AffectedSuppliers: []string{"C"}},
	}

	run := func(workers int) *Result {
		cfg := testSimConfig(42)
		cfg.Workers = workers
		result, err := NewEngine(cfg, nil).Run(context.Background(), g, risks)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		return result
	}

	a := run(1)
	b := run(8)

	if !reflect.DeepEqual(a.Scenarios, b.Scenarios) {
		t.Errorf("Scenario lists differ across worker counts:\n%+v\n%+v", a.Scenarios, b.Scenarios)
	}
	if a.WorstCaseDelayDays != b.WorstCaseDelayDays {
		t.Errorf("Worst case differs: %d vs %d", a.WorstCaseDelayDays, b.WorstCaseDelayDays)
	}
}

// TestRun_DifferentSeedsDiverge tests that the seed actually matters
func TestRun_DifferentSeedsDiverge(t *testing.T) {
	g := chainGraph(t, "A", "B", "C", "D")
	risks := []risk.Risk{
		{Title: "strike", Severity: 0.7, Category: risk.Logistics, Confidence: 0.9, AffectedSuppliers: []string{"A"}},
		{Title: "flood", Severity: 0.5, Category: risk.NaturalDisaster, Confidence: 0.8, AffectedSuppliers: []string{"C"}},
	}

	a, err := NewEngine(testSimConfig(1), nil).Run(context.Background(), g, risks)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	b, err := NewEngine(testSimConfig(2), nil).Run(context.Background(), g, risks)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if reflect.DeepEqual(a.Scenarios, b.Scenarios) {
		t.Error("Different seeds produced identical scenario lists")
	}
}

// TestRun_AmbientFallback tests synthetic trials when no risk clears the floor
func TestRun_AmbientFallback(t *testing.T) {
	engine := NewEngine(testSimConfig(3), nil)
	g := singleSupplierGraph(t)
	risks := []risk.Risk{
		{Title: "minor delay", Severity: 0.1, Category: risk.Logistics, Confidence: 0.5,
			AffectedSuppliers: []string{"Acme Semiconductors"}},
	}

	result, err := engine.Run(context.Background(), g, risks)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Scenarios) != 5 {
		t.Fatalf("Expected 5 ambient scenarios, got %d", len(result.Scenarios))
	}
	for _, s := range result.Scenarios {
		if !s.Ambient {
			t.Errorf("Scenario %d not marked ambient", s.ScenarioID)
		}
		if s.TriggerRisks[0].Severity >= 0.3 {
			t.Errorf("Ambient severity %f should stay below the floor", s.TriggerRisks[0].Severity)
		}
	}
}

// TestRun_UnknownSupplierWarns tests degraded handling of bad risk references
func TestRun_UnknownSupplierWarns(t *testing.T) {
	engine := NewEngine(testSimConfig(5), nil)
	g := singleSupplierGraph(t)
	risks := []risk.Risk{
		{Title: "strike", Severity: 0.9, Category: risk.Logistics, Confidence: 0.9,
			AffectedSuppliers: []string{"Ghost Corp"}},
	}

	result, err := engine.Run(context.Background(), g, risks)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Warnings) == 0 {
		t.Error("Expected unknown supplier warnings")
	}
	for _, s := range result.Scenarios {
		if s.AffectedNodeCount != 0 {
			t.Errorf("Scenario %d affected %d nodes from an unknown origin", s.ScenarioID, s.AffectedNodeCount)
		}
	}
}

// TestRun_WorstCaseInvariant tests the aggregation rule over many seeds
func TestRun_WorstCaseInvariant(t *testing.T) {
	g := chainGraph(t, "A", "B", "C", "D", "E")
	risks := []risk.Risk{
		{Title: "strike", Severity: 0.9, Category: risk.Logistics, Confidence: 0.9, AffectedSuppliers: []string{"A"}},
		{Title: "shortage", Severity: 0.4, Category: risk.MaterialShortage, Confidence: 0.7, AffectedSuppliers: []string{"D"}},
	}

	for seed := int64(1); seed <= 20; seed++ {
		cfg := testSimConfig(seed)
		cfg.ScenarioCount = 10
		result, err := NewEngine(cfg, nil).Run(context.Background(), g, risks)
		if err != nil {
			t.Fatalf("seed %d: Run failed: %v", seed, err)
		}

		maxDelay := 0
		for _, s := range result.Scenarios {
			if s.DelayDays > maxDelay {
				maxDelay = s.DelayDays
			}
		}
		if result.WorstCaseDelayDays != maxDelay {
			t.Errorf("seed %d: worst case %d, max scenario delay %d", seed, result.WorstCaseDelayDays, maxDelay)
		}
		if result.WorstCase == nil {
			t.Fatalf("seed %d: nil WorstCase with %d scenarios", seed, len(result.Scenarios))
		}
		if result.WorstCase.DelayDays != result.WorstCaseDelayDays {
			t.Errorf("seed %d: WorstCase pointer disagrees with aggregate", seed)
		}
	}
}

// TestRun_CancelledContext tests the pre-run cancellation check
func TestRun_CancelledContext(t *testing.T) {
	engine := NewEngine(testSimConfig(1), nil)
	g := singleSupplierGraph(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := engine.Run(ctx, g, nil); err == nil {
		t.Error("Expected error from cancelled context")
	}
}

// TestAggregate_TieBreakByAffectedCount tests the explicit tie rule
func TestAggregate_TieBreakByAffectedCount(t *testing.T) {
	result := &Result{Scenarios: []Scenario{
		{ScenarioID: 0, DelayDays: 10, AffectedNodeCount: 2},
		{ScenarioID: 1, DelayDays: 10, AffectedNodeCount: 5},
		{ScenarioID: 2, DelayDays: 10, AffectedNodeCount: 5},
	}}

	result.aggregate()

	if result.WorstCase.ScenarioID != 1 {
		t.Errorf("Worst case ID = %d, want 1 (higher count wins, first wins on full tie)",
			result.WorstCase.ScenarioID)
	}
	if result.WorstCaseAffectedNodes != 5 {
		t.Errorf("WorstCaseAffectedNodes = %d, want 5", result.WorstCaseAffectedNodes)
	}
}
