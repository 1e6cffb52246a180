package graph

import (
	"sort"

	"github.com/dd0wney/cluso-sentinel/pkg/config"
)

// rankCritical returns the top-K suppliers by composite importance. Ties are
// broken by lower lead time first (more fragile suppliers outrank), then by
// name for a stable ordering. Synthetic hub and root nodes never rank.
func rankCritical(g *Graph, cfg config.GraphConfig) []string {
	suppliers := g.Suppliers()
	if len(suppliers) == 0 {
		return []string{}
	}

	ranked := make([]*Node, len(suppliers))
	copy(ranked, suppliers)

	sort.SliceStable(ranked, func(i, j int) bool {
		si := g.Centrality[ranked[i].Name].Composite
		sj := g.Centrality[ranked[j].Name].Composite
		if si != sj {
			return si > sj
		}
		if ranked[i].LeadTimeDays != ranked[j].LeadTimeDays {
			return ranked[i].LeadTimeDays < ranked[j].LeadTimeDays
		}
		return ranked[i].Name < ranked[j].Name
	})

	k := cfg.CriticalNodeCount
	if k <= 0 || k > len(ranked) {
		k = len(ranked)
	}

	names := make([]string, k)
	for i := 0; i < k; i++ {
		names[i] = ranked[i].Name
	}
	return names
}
