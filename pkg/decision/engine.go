package decision

import (
	"fmt"
	"sort"

	"github.com/dd0wney/cluso-sentinel/pkg/config"
	"github.com/dd0wney/cluso-sentinel/pkg/graph"
	"github.com/dd0wney/cluso-sentinel/pkg/logging"
	"github.com/dd0wney/cluso-sentinel/pkg/risk"
	"github.com/dd0wney/cluso-sentinel/pkg/simulation"
)

// Action is one emitted recommendation. The json tags are the wire contract.
type Action struct {
	Action           string  `json:"action"`
	Confidence       float64 `json:"confidence"`
	AffectedSupplier string  `json:"affected_supplier"`
	MaterialType     string  `json:"material_type"`
	SupplierCountry  string  `json:"supplier_country"`
	Urgency          int     `json:"urgency"`
	LeadTimeDays     int     `json:"lead_time_days"`
}

// Result is the decision set for one cycle.
type Result struct {
	RecommendedActions []Action `json:"recommended_actions"`
	OverallConfidence  float64  `json:"overall_confidence"`
	DecisionCount      int      `json:"decision_count"`

	// Warnings records data-quality issues (e.g. risks naming unknown suppliers).
	Warnings []string `json:"-"`
}

// dedupKey identifies the (action, affected_supplier) pair: the engine never
// emits two records sharing one.
type dedupKey struct {
	action   string
	supplier string
}

// Engine computes the decision set from risks, graph criticality and
// simulation results.
type Engine struct {
	cfg config.DecisionConfig
	log logging.Logger
}

// NewEngine creates a decision engine.
func NewEngine(cfg config.DecisionConfig, log logging.Logger) *Engine {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Engine{cfg: cfg, log: log}
}

// Decide evaluates every (supplier, driving-risk) pair, scores it, selects the
// tier action and deduplicates. Risks and their declared suppliers are walked
// in input order, so equal-confidence dedup keeps the first instance.
func (e *Engine) Decide(risks []risk.Risk, g *graph.Graph, sim *simulation.Result) (*Result, error) {
	result := &Result{RecommendedActions: []Action{}}

	best := make(map[dedupKey]Action)
	order := make([]dedupKey, 0)

	for _, r := range risks {
		for _, supplierName := range r.AffectedSuppliers {
			candidate := e.evaluate(r, supplierName, g, sim, result)

			key := dedupKey{action: candidate.Action, supplier: candidate.AffectedSupplier}
			existing, seen := best[key]
			if !seen {
				best[key] = candidate
				order = append(order, key)
				continue
			}
			// Multiple risks driving the same pair: highest confidence wins.
			if candidate.Confidence > existing.Confidence {
				best[key] = candidate
			}
		}
	}

	actions := make([]Action, 0, len(order))
	for _, key := range order {
		actions = append(actions, best[key])
	}
	sort.SliceStable(actions, func(i, j int) bool {
		if actions[i].Confidence != actions[j].Confidence {
			return actions[i].Confidence > actions[j].Confidence
		}
		if actions[i].AffectedSupplier != actions[j].AffectedSupplier {
			return actions[i].AffectedSupplier < actions[j].AffectedSupplier
		}
		return actions[i].Action < actions[j].Action
	})

	result.RecommendedActions = actions
	result.DecisionCount = len(actions)
	for _, a := range actions {
		if a.Confidence > result.OverallConfidence {
			result.OverallConfidence = a.Confidence
		}
	}

	e.log.Info("decision process complete",
		logging.Int("decisions", result.DecisionCount),
		logging.Float64("overall_confidence", result.OverallConfidence),
	)
	return result, nil
}

// evaluate scores one (risk, supplier) pair and selects its action.
func (e *Engine) evaluate(r risk.Risk, supplierName string, g *graph.Graph, sim *simulation.Result, result *Result) Action {
	inputs := confidenceInputs{severity: r.Severity}
	material := "unknown"
	country := "unknown"

	if node, ok := lookupSupplier(g, supplierName); ok {
		inputs.known = true
		inputs.material = node.Product
		inputs.country = node.Country
		material = node.Product
		country = node.Country
		if sim != nil {
			inputs.simImpact = sim.MaxImpact(supplierName)
		}
	} else {
		// Risk references a supplier the graph doesn't know: still eligible
		// for a decision on risk-derived weights alone.
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("risk %q references unknown supplier %q", r.Title, supplierName))
		e.log.Warn("risk references unknown supplier",
			logging.String("risk", r.Title), logging.Supplier(supplierName))
	}

	confidence := score(&e.cfg, inputs)
	entry := selectAction(TierFor(confidence), e.cfg.HorizonDays)

	return Action{
		Action:           entry.Name,
		Confidence:       confidence,
		AffectedSupplier: supplierName,
		MaterialType:     material,
		SupplierCountry:  country,
		Urgency:          entry.Urgency,
		LeadTimeDays:     entry.LeadTimeDays,
	}
}

// lookupSupplier resolves a supplier node, ignoring synthetic topology nodes.
func lookupSupplier(g *graph.Graph, name string) (*graph.Node, bool) {
	if g == nil {
		return nil, false
	}
	node, ok := g.Node(name)
	if !ok || node.Kind != graph.KindSupplier {
		return nil, false
	}
	return node, true
}
