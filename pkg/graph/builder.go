package graph

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-sentinel/pkg/config"
	"github.com/dd0wney/cluso-sentinel/pkg/logging"
	"github.com/dd0wney/cluso-sentinel/pkg/validation"
)

// RootNode is the synthetic sink representing the network as a whole.
const RootNode = "network:root"

// minReliability floors the reliability used for derived edge weights so a
// fully unreliable supplier doesn't produce an infinite weight.
const minReliability = 0.1

// Build constructs the dependency graph for one cycle.
//
// Malformed supplier records are excluded with a warning, never fatal. When no
// usable explicit relationships exist, suppliers are clustered under synthetic
// per-product hubs feeding a single root, which yields a connected, analyzable
// graph even from flat tabular input. An empty supplier set produces an empty
// graph (NodeCount 0), not an error.
func Build(suppliers []Supplier, relationships []Relationship, cfg config.GraphConfig, log logging.Logger) *Graph {
	if log == nil {
		log = logging.NewNopLogger()
	}
	g := newGraph()

	for i := range suppliers {
		s := &suppliers[i]
		if err := validation.Struct(s); err != nil {
			g.Warnings = append(g.Warnings, fmt.Sprintf("supplier %d (%s) rejected: %v", i, s.Name, err))
			log.Warn("rejected supplier record", logging.Int("index", i), logging.Supplier(s.Name), logging.Error(err))
			continue
		}
		if g.HasNode(s.Name) {
			g.Warnings = append(g.Warnings, fmt.Sprintf("duplicate supplier %q rejected", s.Name))
			log.Warn("duplicate supplier record", logging.Supplier(s.Name))
			continue
		}
		g.addNode(&Node{
			Name:         s.Name,
			Kind:         KindSupplier,
			Country:      s.Country,
			Product:      s.Product,
			LeadTimeDays: s.LeadTimeDays,
			Reliability:  s.Reliability,
		})
	}

	if g.NodeCount() == 0 {
		log.Warn("no valid suppliers, graph is empty")
		return g
	}

	if !g.wireExplicit(relationships, log) {
		g.wireCategoryHubs()
	}

	computeCentrality(g, cfg)
	g.CriticalNodes = rankCritical(g, cfg)

	log.Info("graph built",
		logging.Int("nodes", g.NodeCount()),
		logging.Int("edges", g.EdgeCount()),
		logging.Int("suppliers", g.SupplierCount()),
		logging.Int("critical", len(g.CriticalNodes)),
	)
	return g
}

// wireExplicit applies explicit relationship edges. Returns false when no
// usable relationship survived validation, signalling the hub fallback.
func (g *Graph) wireExplicit(relationships []Relationship, log logging.Logger) bool {
	wired := false
	for i := range relationships {
		r := &relationships[i]
		if r.From == "" || r.To == "" || r.From == r.To {
			g.Warnings = append(g.Warnings, fmt.Sprintf("relationship %d rejected: malformed endpoints", i))
			continue
		}
		from, okFrom := g.Node(r.From)
		if !okFrom || !g.HasNode(r.To) {
			g.Warnings = append(g.Warnings, fmt.Sprintf("relationship %d (%s -> %s) rejected: unknown endpoint", i, r.From, r.To))
			log.Warn("relationship references unknown supplier",
				logging.String("from", r.From), logging.String("to", r.To))
			continue
		}
		weight := r.Weight
		if weight <= 0 {
			weight = derivedWeight(from.Reliability)
		}
		g.addEdge(r.From, r.To, weight)
		wired = true
	}
	return wired
}

// wireCategoryHubs links each supplier to a synthetic hub for its product
// category, and every hub to the network root. Hub order follows supplier
// insertion order, keeping the topology deterministic.
func (g *Graph) wireCategoryHubs() {
	root := &Node{Name: RootNode, Kind: KindRoot}
	suppliers := g.Suppliers()
	for _, s := range suppliers {
		hubName := hubNameFor(s.Product)
		if !g.HasNode(hubName) {
			g.addNode(&Node{Name: hubName, Kind: KindHub, Product: s.Product})
			if !g.HasNode(RootNode) {
				g.addNode(root)
			}
			g.addEdge(hubName, RootNode, 1.0)
		}
		g.addEdge(s.Name, hubName, derivedWeight(s.Reliability))
	}
}

// derivedWeight turns reliability into dependency strength: the less reliable
// the source, the heavier the dependency edge.
func derivedWeight(reliability float64) float64 {
	if reliability < minReliability {
		reliability = minReliability
	}
	return 1.0 / reliability
}

func hubNameFor(product string) string {
	p := strings.ToLower(strings.TrimSpace(product))
	if p == "" {
		p = "general"
	}
	return "hub:" + p
}
