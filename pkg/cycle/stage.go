package cycle

import (
	"context"

	"github.com/dd0wney/cluso-sentinel/pkg/config"
	"github.com/dd0wney/cluso-sentinel/pkg/decision"
	"github.com/dd0wney/cluso-sentinel/pkg/graph"
	"github.com/dd0wney/cluso-sentinel/pkg/logging"
	"github.com/dd0wney/cluso-sentinel/pkg/simulation"
)

// Stage is one pipeline step. A stage reads only from the store and writes
// its result to the store before returning, which keeps every stage
// independently testable against store contents. A returned error is always
// structural; data-quality conditions degrade into warnings on the outputs.
type Stage interface {
	Name() string
	Execute(ctx context.Context, store *Store) error
}

// BuildGraphStage constructs the cycle's supplier dependency graph.
type BuildGraphStage struct {
	cfg config.GraphConfig
	log logging.Logger
}

// NewBuildGraphStage creates the graph stage.
func NewBuildGraphStage(cfg config.GraphConfig, log logging.Logger) *BuildGraphStage {
	return &BuildGraphStage{cfg: cfg, log: log}
}

func (s *BuildGraphStage) Name() string { return "build_graph" }

func (s *BuildGraphStage) Execute(ctx context.Context, store *Store) error {
	suppliers, err := store.Suppliers()
	if err != nil {
		return err
	}
	relationships, err := store.Relationships()
	if err != nil {
		return err
	}
	g := graph.Build(suppliers, relationships, s.cfg, s.log)
	store.Put(KeyGraph, g)
	return nil
}

// SimulateStage runs the Monte Carlo disruption simulation.
type SimulateStage struct {
	engine *simulation.Engine
}

// NewSimulateStage creates the simulation stage.
func NewSimulateStage(engine *simulation.Engine) *SimulateStage {
	return &SimulateStage{engine: engine}
}

func (s *SimulateStage) Name() string { return "simulate" }

func (s *SimulateStage) Execute(ctx context.Context, store *Store) error {
	g, err := store.Graph()
	if err != nil {
		return err
	}
	risks, err := store.Risks()
	if err != nil {
		return err
	}
	result, err := s.engine.Run(ctx, g, risks)
	if err != nil {
		return err
	}
	store.Put(KeySimulation, result)
	return nil
}

// DecideStage computes the cycle's recommended actions.
type DecideStage struct {
	engine *decision.Engine
}

// NewDecideStage creates the decision stage.
func NewDecideStage(engine *decision.Engine) *DecideStage {
	return &DecideStage{engine: engine}
}

func (s *DecideStage) Name() string { return "decide" }

func (s *DecideStage) Execute(ctx context.Context, store *Store) error {
	g, err := store.Graph()
	if err != nil {
		return err
	}
	sim, err := store.Simulation()
	if err != nil {
		return err
	}
	risks, err := store.Risks()
	if err != nil {
		return err
	}
	result, err := s.engine.Decide(risks, g, sim)
	if err != nil {
		return err
	}
	store.Put(KeyDecision, result)
	return nil
}
