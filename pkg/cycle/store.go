package cycle

import (
	"fmt"
	"sync"

	"github.com/dd0wney/cluso-sentinel/pkg/decision"
	"github.com/dd0wney/cluso-sentinel/pkg/graph"
	"github.com/dd0wney/cluso-sentinel/pkg/risk"
	"github.com/dd0wney/cluso-sentinel/pkg/simulation"
)

// Store keys. Intermediate results of a cycle live under these; the keys are
// implicitly namespaced by cycle because Reset clears everything at cycle
// start, making cross-cycle reads impossible.
const (
	KeySuppliers     = "input.suppliers"
	KeyRelationships = "input.relationships"
	KeyRisks         = "input.risks"
	KeyGraph         = "graph_result"
	KeySimulation    = "simulation_result"
	KeyDecision      = "decision_result"
)

// Store is the shared keyed state for one pipeline cycle. Every stage reads
// its inputs from the store and writes its output back before the next stage
// starts. Writers are serialized by the orchestrator; concurrent readers
// (e.g. a presentation layer polling the last completed cycle) are safe: the
// completed-cycle snapshot is swapped atomically under the lock, so readers
// see either the previous complete cycle or the new one, never a half-written
// value.
type Store struct {
	mu            sync.RWMutex
	cycleID       string
	entries       map[string]any
	lastCompleted *Cycle
}

// NewStore creates an empty cycle store.
func NewStore() *Store {
	return &Store{entries: make(map[string]any)}
}

// Reset clears all intermediate state and rebinds the store to a new cycle.
// Called by the orchestrator at cycle start so no stale data from a prior
// cycle is ever visible.
func (s *Store) Reset(cycleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycleID = cycleID
	s.entries = make(map[string]any)
}

// CycleID returns the cycle the store is currently bound to.
func (s *Store) CycleID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cycleID
}

// Put stores a value under a key.
func (s *Store) Put(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
}

// Get retrieves a raw value by key.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok
}

// Keys returns the number of populated entries.
func (s *Store) Keys() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Suppliers returns the cycle's supplier input; missing input is an empty
// slice, not an error (the graph stage degrades to an empty graph).
func (s *Store) Suppliers() ([]graph.Supplier, error) {
	v, ok := s.Get(KeySuppliers)
	if !ok {
		return nil, nil
	}
	suppliers, ok := v.([]graph.Supplier)
	if !ok {
		return nil, corruptionError(KeySuppliers, v)
	}
	return suppliers, nil
}

// Relationships returns the cycle's explicit relationship input, if any.
func (s *Store) Relationships() ([]graph.Relationship, error) {
	v, ok := s.Get(KeyRelationships)
	if !ok {
		return nil, nil
	}
	relationships, ok := v.([]graph.Relationship)
	if !ok {
		return nil, corruptionError(KeyRelationships, v)
	}
	return relationships, nil
}

// Risks returns the cycle's risk input.
func (s *Store) Risks() ([]risk.Risk, error) {
	v, ok := s.Get(KeyRisks)
	if !ok {
		return nil, nil
	}
	risks, ok := v.([]risk.Risk)
	if !ok {
		return nil, corruptionError(KeyRisks, v)
	}
	return risks, nil
}

// Graph returns the graph stage output. A missing entry is structural: the
// stage order guarantees it should be there.
func (s *Store) Graph() (*graph.Graph, error) {
	v, ok := s.Get(KeyGraph)
	if !ok {
		return nil, fmt.Errorf("key %q: %w", KeyGraph, ErrNotPopulated)
	}
	g, ok := v.(*graph.Graph)
	if !ok {
		return nil, corruptionError(KeyGraph, v)
	}
	return g, nil
}

// Simulation returns the simulation stage output.
func (s *Store) Simulation() (*simulation.Result, error) {
	v, ok := s.Get(KeySimulation)
	if !ok {
		return nil, fmt.Errorf("key %q: %w", KeySimulation, ErrNotPopulated)
	}
	result, ok := v.(*simulation.Result)
	if !ok {
		return nil, corruptionError(KeySimulation, v)
	}
	return result, nil
}

// Decision returns the decision stage output.
func (s *Store) Decision() (*decision.Result, error) {
	v, ok := s.Get(KeyDecision)
	if !ok {
		return nil, fmt.Errorf("key %q: %w", KeyDecision, ErrNotPopulated)
	}
	result, ok := v.(*decision.Result)
	if !ok {
		return nil, corruptionError(KeyDecision, v)
	}
	return result, nil
}

// PublishCompleted atomically swaps in the finished cycle for readers.
func (s *Store) PublishCompleted(c *Cycle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCompleted = c
}

// LastCompleted returns the most recently finished cycle, nil before the
// first one completes. The returned cycle is immutable.
func (s *Store) LastCompleted() *Cycle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastCompleted
}
