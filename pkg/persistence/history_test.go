package persistence

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dd0wney/cluso-sentinel/pkg/cycle"
	"github.com/dd0wney/cluso-sentinel/pkg/decision"
	"github.com/dd0wney/cluso-sentinel/pkg/simulation"
)

func testCycle(id string) *cycle.Cycle {
	return &cycle.Cycle{
		ID:        id,
		Timestamp: "2026-08-29T10:00:00Z",
		Status:    cycle.StatusSuccess,
		GraphResult: &cycle.GraphSummary{
			NodeCount:     6,
			EdgeCount:     5,
			CriticalNodes: []string{"Acme Semiconductors"},
		},
		SimulationResult: &simulation.Result{
			Scenarios:          []simulation.Scenario{{ScenarioID: 0, DelayDays: 12, AffectedNodeCount: 1, ServiceImpactPct: 100}},
			WorstCaseDelayDays: 12,
		},
		DecisionResult: &decision.Result{
			RecommendedActions: []decision.Action{{
				Action: decision.ActionExpediteShipment, Confidence: 0.9,
				AffectedSupplier: "Acme Semiconductors", Urgency: 5,
			}},
			OverallConfidence: 0.9,
			DecisionCount:     1,
		},
	}
}

// TestHistoryStore_SaveLoadRoundTrip tests the plain JSON path
func TestHistoryStore_SaveLoadRoundTrip(t *testing.T) {
	store, err := NewHistoryStore(t.TempDir(), false, 0, nil)
	if err != nil {
		t.Fatalf("NewHistoryStore failed: %v", err)
	}

	id, err := store.Save(testCycle("cycle-aaaa-bbbb"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ID != "cycle-aaaa-bbbb" {
		t.Errorf("Loaded ID = %q", loaded.ID)
	}
	if loaded.SimulationResult.WorstCaseDelayDays != 12 {
		t.Errorf("Simulation result lost: %+v", loaded.SimulationResult)
	}
	if loaded.DecisionResult.RecommendedActions[0].Action != decision.ActionExpediteShipment {
		t.Errorf("Decision result lost: %+v", loaded.DecisionResult)
	}
}

// TestHistoryStore_CompressedRoundTrip tests the snappy path
func TestHistoryStore_CompressedRoundTrip(t *testing.T) {
	store, err := NewHistoryStore(t.TempDir(), true, 0, nil)
	if err != nil {
		t.Fatalf("NewHistoryStore failed: %v", err)
	}

	id, err := store.Save(testCycle("compressed-cycle"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ID != "compressed-cycle" {
		t.Errorf("Loaded ID = %q", loaded.ID)
	}
}

// TestHistoryStore_MixedCompressionRead tests extension-based detection
func TestHistoryStore_MixedCompressionRead(t *testing.T) {
	dir := t.TempDir()

	compressed, err := NewHistoryStore(dir, true, 0, nil)
	if err != nil {
		t.Fatalf("NewHistoryStore failed: %v", err)
	}
	id, err := compressed.Save(testCycle("old-compressed"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// A store reconfigured without compression still reads the old file
	plain, err := NewHistoryStore(dir, false, 0, nil)
	if err != nil {
		t.Fatalf("NewHistoryStore failed: %v", err)
	}
	loaded, err := plain.Load(id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ID != "old-compressed" {
		t.Errorf("Loaded ID = %q", loaded.ID)
	}
}

// TestHistoryStore_ListChronological tests that the timestamp prefix orders entries
func TestHistoryStore_ListChronological(t *testing.T) {
	store, err := NewHistoryStore(t.TempDir(), false, 0, nil)
	if err != nil {
		t.Fatalf("NewHistoryStore failed: %v", err)
	}
	// Fixed clock stepping one second per save
	base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	n := 0
	store.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := store.Save(testCycle(fmt.Sprintf("cycle-%d", i)))
		if err != nil {
			t.Fatalf("Save %d failed: %v", i, err)
		}
		ids = append(ids, id)
	}

	listed, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("List returned %d entries, want 3", len(listed))
	}
	for i, id := range ids {
		if listed[i] != id {
			t.Errorf("List[%d] = %q, want %q", i, listed[i], id)
		}
	}
}

// TestHistoryStore_Latest tests the newest-entry helper
func TestHistoryStore_Latest(t *testing.T) {
	store, err := NewHistoryStore(t.TempDir(), false, 0, nil)
	if err != nil {
		t.Fatalf("NewHistoryStore failed: %v", err)
	}

	if _, err := store.Latest(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest on empty history = %v, want ErrNotFound", err)
	}

	base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	n := 0
	store.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	for i := 0; i < 3; i++ {
		if _, err := store.Save(testCycle(fmt.Sprintf("cycle-%d", i))); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	latest, err := store.Latest()
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest.ID != "cycle-2" {
		t.Errorf("Latest = %q, want cycle-2", latest.ID)
	}
}

// TestHistoryStore_Prune tests the retention bound
func TestHistoryStore_Prune(t *testing.T) {
	store, err := NewHistoryStore(t.TempDir(), false, 2, nil)
	if err != nil {
		t.Fatalf("NewHistoryStore failed: %v", err)
	}
	base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	n := 0
	store.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}

	for i := 0; i < 5; i++ {
		if _, err := store.Save(testCycle(fmt.Sprintf("cycle-%d", i))); err != nil {
			t.Fatalf("Save %d failed: %v", i, err)
		}
	}

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Count = %d after pruning, want 2", count)
	}

	latest, err := store.Latest()
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest.ID != "cycle-4" {
		t.Errorf("Pruning removed the wrong end: latest = %q", latest.ID)
	}
}

// TestHistoryStore_LoadMissing tests the not-found error
func TestHistoryStore_LoadMissing(t *testing.T) {
	store, err := NewHistoryStore(t.TempDir(), false, 0, nil)
	if err != nil {
		t.Fatalf("NewHistoryStore failed: %v", err)
	}

	if _, err := store.Load("20990101_000000_nothing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load missing = %v, want ErrNotFound", err)
	}
}

// TestHistoryStore_NilCycle tests the guard
func TestHistoryStore_NilCycle(t *testing.T) {
	store, err := NewHistoryStore(t.TempDir(), false, 0, nil)
	if err != nil {
		t.Fatalf("NewHistoryStore failed: %v", err)
	}

	if _, err := store.Save(nil); err == nil {
		t.Error("Expected error persisting nil cycle")
	}
}

// TestMemoryStore_RoundTrip tests the in-memory implementation
func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()

	id, err := store.Save(testCycle("mem-cycle"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ID != "mem-cycle" {
		t.Errorf("Loaded ID = %q", loaded.ID)
	}

	if _, err := store.Load("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load missing = %v, want ErrNotFound", err)
	}
}

// TestMemoryStore_ListOrder tests sequence ordering
func TestMemoryStore_ListOrder(t *testing.T) {
	store := NewMemoryStore()

	for i := 0; i < 3; i++ {
		if _, err := store.Save(testCycle(fmt.Sprintf("c-%d", i))); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	ids, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("List returned %d, want 3", len(ids))
	}
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Errorf("IDs not ordered: %v", ids)
		}
	}
}
