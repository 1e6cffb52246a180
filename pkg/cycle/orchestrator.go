package cycle

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-sentinel/pkg/config"
	"github.com/dd0wney/cluso-sentinel/pkg/decision"
	"github.com/dd0wney/cluso-sentinel/pkg/graph"
	"github.com/dd0wney/cluso-sentinel/pkg/logging"
	"github.com/dd0wney/cluso-sentinel/pkg/metrics"
	"github.com/dd0wney/cluso-sentinel/pkg/pubsub"
	"github.com/dd0wney/cluso-sentinel/pkg/risk"
	"github.com/dd0wney/cluso-sentinel/pkg/simulation"
)

// State is the orchestrator's position in the pipeline.
type State string

const (
	StateIdle          State = "idle"
	StateBuildingGraph State = "building_graph"
	StateSimulating    State = "simulating"
	StateDeciding      State = "deciding"
	StatePersisting    State = "persisting"
	StateDone          State = "done"
	StateFailed        State = "failed"
)

// Persister is the persistence collaborator contract. Implemented by
// persistence.HistoryStore and persistence.MemoryStore.
type Persister interface {
	Save(c *Cycle) (string, error)
}

// Input is one cycle's worth of raw data. Risks are validated at seed time;
// malformed records are dropped and surface as cycle warnings.
type Input struct {
	Suppliers     []graph.Supplier
	Relationships []graph.Relationship
	Risks         []risk.Risk
}

// Orchestrator sequences the pipeline stages over the shared store and hands
// every finished cycle, whatever its status, to the persister. One
// orchestrator runs one cycle at a time; RunCycle is not safe for concurrent
// calls on the same instance.
type Orchestrator struct {
	cfg       *config.Config
	store     *Store
	stages    []Stage
	persister Persister
	bus       *pubsub.Bus
	registry  *metrics.Registry
	log       logging.Logger
	state     State
}

// NewOrchestrator wires the standard three-stage pipeline. The bus and
// registry may be nil when events or metrics are not wanted (tests mostly).
func NewOrchestrator(cfg *config.Config, persister Persister, bus *pubsub.Bus, registry *metrics.Registry, log logging.Logger) *Orchestrator {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Orchestrator{
		cfg:   cfg,
		store: NewStore(),
		stages: []Stage{
			NewBuildGraphStage(cfg.Graph, log),
			NewSimulateStage(simulation.NewEngine(cfg.Simulation, log)),
			NewDecideStage(decision.NewEngine(cfg.Decision, log)),
		},
		persister: persister,
		bus:       bus,
		registry:  registry,
		log:       log,
		state:     StateIdle,
	}
}

// Store exposes the shared cycle store for readers polling the last
// completed cycle.
func (o *Orchestrator) Store() *Store {
	return o.store
}

// State returns the orchestrator's current pipeline position.
func (o *Orchestrator) State() State {
	return o.state
}

// stageStates maps each stage to the orchestrator state it runs under.
var stageStates = map[string]State{
	"build_graph": StateBuildingGraph,
	"simulate":    StateSimulating,
	"decide":      StateDeciding,
}

// RunCycle executes one full analysis pass. The returned cycle always has a
// terminal status: success when every stage ran, partial when ctx was
// cancelled between stages, failed on a structural stage error. The error
// return carries the structural cause; a non-nil error still comes with the
// persisted failed cycle.
func (o *Orchestrator) RunCycle(ctx context.Context, input Input) (*Cycle, error) {
	start := time.Now()
	id := uuid.NewString()
	c := newCycle(id)
	log := o.log.With(logging.CycleID(id))

	o.store.Reset(id)
	o.seed(c, input)
	log.Info("cycle started",
		logging.Count(len(input.Suppliers)),
		logging.Int("risks", len(input.Risks)))

	var stageErr error
	cancelled := false
	for _, stage := range o.stages {
		if err := ctx.Err(); err != nil {
			cancelled = true
			c.Warnings = append(c.Warnings, ErrCycleCancelled.Error()+" before stage "+stage.Name())
			break
		}

		o.state = stageStates[stage.Name()]
		stageStart := time.Now()
		err := stage.Execute(ctx, o.store)
		if o.registry != nil {
			o.registry.RecordStage(stage.Name(), err != nil, time.Since(stageStart))
		}
		if err != nil {
			stageErr = &StageError{Stage: stage.Name(), Cause: err}
			log.Error("stage failed", logging.Stage(stage.Name()), logging.Error(err))
			break
		}
		log.Debug("stage complete",
			logging.Stage(stage.Name()),
			logging.Latency(time.Since(stageStart)))
	}

	o.assemble(c)
	switch {
	case stageErr != nil:
		c.Status = StatusFailed
		o.state = StateFailed
	case cancelled:
		c.Status = StatusPartial
	default:
		c.Status = StatusSuccess
	}
	c.DurationMS = time.Since(start).Milliseconds()

	o.persist(c, log)
	o.store.PublishCompleted(c)
	o.record(c, time.Since(start))
	o.publish(c)

	if stageErr == nil {
		o.state = StateDone
	}
	log.Info("cycle finished",
		logging.String("status", string(c.Status)),
		logging.Int("decisions", c.DecisionCount()),
		logging.Int("warnings", len(c.Warnings)),
		logging.Latency(time.Since(start)))
	return c, stageErr
}

// seed writes the cycle inputs into the store. Risk validation happens once
// here so every stage downstream sees only well-formed records.
func (o *Orchestrator) seed(c *Cycle, input Input) {
	o.store.Put(KeySuppliers, input.Suppliers)
	o.store.Put(KeyRelationships, input.Relationships)

	valid, rejected := risk.Filter(input.Risks)
	o.store.Put(KeyRisks, valid)
	for _, err := range rejected {
		c.Warnings = append(c.Warnings, "rejected "+err.Error())
	}
}

// assemble copies whatever stage outputs exist into the cycle. Missing
// outputs are normal for partial and failed cycles; the empty sections from
// newCycle stand in for them.
func (o *Orchestrator) assemble(c *Cycle) {
	if g, err := o.store.Graph(); err == nil && g != nil {
		c.GraphResult = &GraphSummary{
			NodeCount:     g.NodeCount(),
			EdgeCount:     g.EdgeCount(),
			CriticalNodes: append([]string{}, g.CriticalNodes...),
		}
		c.Warnings = append(c.Warnings, g.Warnings...)
		if o.registry != nil {
			o.registry.UpdateGraphMetrics(g.NodeCount(), g.EdgeCount(), g.SupplierCount(), len(g.CriticalNodes))
		}
	}
	if sim, err := o.store.Simulation(); err == nil && sim != nil {
		c.SimulationResult = sim
		c.Warnings = append(c.Warnings, sim.Warnings...)
	}
	if dec, err := o.store.Decision(); err == nil && dec != nil {
		c.DecisionResult = dec
		c.Warnings = append(c.Warnings, dec.Warnings...)
	}
}

// persist hands the cycle to the collaborator. Persistence failures never
// change the cycle's status; they degrade into a warning so the serving loop
// keeps running without a writable history.
func (o *Orchestrator) persist(c *Cycle, log logging.Logger) {
	if o.persister == nil {
		return
	}
	o.state = StatePersisting
	persistStart := time.Now()
	historyID, err := o.persister.Save(c)
	if o.registry != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.registry.RecordPersist("save", status, time.Since(persistStart))
	}
	if err != nil {
		c.Warnings = append(c.Warnings, "persist failed: "+err.Error())
		log.Warn("cycle persistence failed", logging.Error(err))
		return
	}
	log.Debug("cycle persisted", logging.String("history_id", historyID))
}

func (o *Orchestrator) record(c *Cycle, elapsed time.Duration) {
	if o.registry == nil {
		return
	}
	o.registry.RecordCycle(string(c.Status), elapsed)
	o.registry.AddWarnings(len(c.Warnings))
	if sim := c.SimulationResult; sim != nil {
		o.registry.RecordSimulation(
			len(sim.Scenarios), sim.WorstCaseDelayDays, sim.WorstCaseAffectedNodes, elapsed)
	}
	if dec := c.DecisionResult; dec != nil {
		actions := make([]string, 0, len(dec.RecommendedActions))
		for _, a := range dec.RecommendedActions {
			actions = append(actions, a.Action)
		}
		o.registry.RecordDecisions(actions, dec.OverallConfidence, elapsed)
	}
}

func (o *Orchestrator) publish(c *Cycle) {
	if o.bus == nil {
		return
	}
	topic := pubsub.TopicCycleCompleted
	if c.Status == StatusFailed {
		topic = pubsub.TopicCycleFailed
	}
	ev := pubsub.Event{
		CycleID:           c.ID,
		Status:            string(c.Status),
		OverallConfidence: c.OverallConfidence(),
		DecisionCount:     c.DecisionCount(),
		WarningCount:      len(c.Warnings),
	}
	if c.SimulationResult != nil {
		ev.WorstCaseDelay = c.SimulationResult.WorstCaseDelayDays
	}
	o.bus.Publish(topic, ev)
}
