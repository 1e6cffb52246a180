package graph

import (
	"errors"
	"testing"
)

// TestReachableWithin_SingleHop tests the one-hop neighbourhood
func TestReachableWithin_SingleHop(t *testing.T) {
	g := pathGraph("A", "B", "C", "D")

	reached, err := g.ReachableWithin("A", 1)
	if err != nil {
		t.Fatalf("ReachableWithin failed: %v", err)
	}

	if len(reached) != 2 {
		t.Fatalf("Expected {A, B}, got %v", reached)
	}
	if reached["A"] != 0 {
		t.Errorf("Start distance = %d, want 0", reached["A"])
	}
	if reached["B"] != 1 {
		t.Errorf("distance[B] = %d, want 1", reached["B"])
	}
}

// TestReachableWithin_MultiHop tests bounded expansion along a chain
func TestReachableWithin_MultiHop(t *testing.T) {
	g := pathGraph("A", "B", "C", "D", "E")

	reached, err := g.ReachableWithin("A", 3)
	if err != nil {
		t.Fatalf("ReachableWithin failed: %v", err)
	}

	want := map[string]int{"A": 0, "B": 1, "C": 2, "D": 3}
	if len(reached) != len(want) {
		t.Fatalf("Expected %v, got %v", want, reached)
	}
	for name, hop := range want {
		if reached[name] != hop {
			t.Errorf("distance[%s] = %d, want %d", name, reached[name], hop)
		}
	}
}

// TestReachableWithin_ShortestHopWins tests that a node keeps its shortest distance
func TestReachableWithin_ShortestHopWins(t *testing.T) {
	g := newGraph()
	for _, name := range []string{"A", "B", "C"} {
		g.addNode(&Node{Name: name, Kind: KindSupplier})
	}
	// Direct edge A->C plus a longer detour A->B->C
	g.addEdge("A", "B", 1.0)
	g.addEdge("B", "C", 1.0)
	g.addEdge("A", "C", 1.0)

	reached, err := g.ReachableWithin("A", 3)
	if err != nil {
		t.Fatalf("ReachableWithin failed: %v", err)
	}

	if reached["C"] != 1 {
		t.Errorf("distance[C] = %d, want 1 via direct edge", reached["C"])
	}
}

// TestReachableWithin_DirectionMatters tests that incoming edges are not followed
func TestReachableWithin_DirectionMatters(t *testing.T) {
	g := pathGraph("A", "B", "C")

	reached, err := g.ReachableWithin("C", 2)
	if err != nil {
		t.Fatalf("ReachableWithin failed: %v", err)
	}

	if len(reached) != 1 {
		t.Errorf("Expected only the start node, got %v", reached)
	}
}

// TestReachableWithin_UnknownStart tests the unknown node error
func TestReachableWithin_UnknownStart(t *testing.T) {
	g := pathGraph("A", "B")

	_, err := g.ReachableWithin("Ghost", 1)
	if !errors.Is(err, ErrUnknownNode) {
		t.Errorf("Expected ErrUnknownNode, got %v", err)
	}
}

// TestReachableWithin_InvalidHops tests the hop bound guard
func TestReachableWithin_InvalidHops(t *testing.T) {
	g := pathGraph("A", "B")

	if _, err := g.ReachableWithin("A", 0); err == nil {
		t.Error("Expected error for maxHops 0")
	}
	if _, err := g.ReachableWithin("A", -1); err == nil {
		t.Error("Expected error for negative maxHops")
	}
}

// TestReachableWithin_Cycle tests termination on cyclic graphs
func TestReachableWithin_Cycle(t *testing.T) {
	g := newGraph()
	for _, name := range []string{"A", "B", "C"} {
		g.addNode(&Node{Name: name, Kind: KindSupplier})
	}
	g.addEdge("A", "B", 1.0)
	g.addEdge("B", "C", 1.0)
	g.addEdge("C", "A", 1.0)

	reached, err := g.ReachableWithin("A", 10)
	if err != nil {
		t.Fatalf("ReachableWithin failed: %v", err)
	}

	if len(reached) != 3 {
		t.Errorf("Expected 3 nodes in cycle, got %v", reached)
	}
	if reached["A"] != 0 {
		t.Errorf("Start revisited with distance %d", reached["A"])
	}
}
