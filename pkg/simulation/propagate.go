package simulation

import (
	"math"

	"github.com/dd0wney/cluso-sentinel/pkg/graph"
)

// propagate computes the decayed impact map for a set of origin suppliers.
// Each origin seeds a bounded-depth reachability search; a node's impact is
// decay^hops from its nearest origin, and nodes below the floor are dropped.
// Origins absent from the graph are skipped and reported back to the caller.
func propagate(g *graph.Graph, origins []string, decay float64, maxHops int, floor float64) (impacts map[string]float64, unknown []string) {
	impacts = make(map[string]float64)

	for _, origin := range origins {
		distances, err := g.ReachableWithin(origin, maxHops)
		if err != nil {
			unknown = append(unknown, origin)
			continue
		}
		for node, hops := range distances {
			impact := math.Pow(decay, float64(hops))
			if impact < floor {
				continue
			}
			if impact > impacts[node] {
				impacts[node] = impact
			}
		}
	}

	return impacts, unknown
}

// supplierImpacts reduces an impact map to supplier nodes only: synthetic hub
// and root nodes carry no lead time and no capacity share.
func supplierImpacts(g *graph.Graph, impacts map[string]float64) (count int, weightedLeadTime, impactSum float64) {
	for node, impact := range impacts {
		n, ok := g.Node(node)
		if !ok || n.Kind != graph.KindSupplier {
			continue
		}
		count++
		weightedLeadTime += float64(n.LeadTimeDays) * impact
		impactSum += impact
	}
	return count, weightedLeadTime, impactSum
}
