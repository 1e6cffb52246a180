package graph

import (
	"github.com/dd0wney/cluso-sentinel/pkg/config"
)

// computeCentrality fills g.Centrality with degree and betweenness scores and
// the composite importance used for critical ranking.
func computeCentrality(g *Graph, cfg config.GraphConfig) {
	degree := degreeCentrality(g)
	betweenness := betweennessCentrality(g)

	for _, name := range g.order {
		deg := degree[name]
		btw := betweenness[name]
		g.Centrality[name] = Scores{
			Degree:      deg,
			Betweenness: btw,
			Composite:   cfg.DegreeWeight*deg + cfg.BetweennessWeight*btw,
		}
	}
}

// degreeCentrality computes normalised degree centrality for all nodes:
// (in-degree + out-degree) / (n - 1).
func degreeCentrality(g *Graph) map[string]float64 {
	n := len(g.order)
	degree := make(map[string]float64, n)
	for _, name := range g.order {
		total := len(g.in[name]) + len(g.out[name])
		if n > 1 {
			degree[name] = float64(total) / float64(n-1)
		} else {
			degree[name] = 0.0
		}
	}
	return degree
}

// betweennessCentrality runs a single O(VE) Brandes pass over the graph and
// returns normalised node betweenness. Measures how often a node appears on
// shortest paths between other nodes.
func betweennessCentrality(g *Graph) map[string]float64 {
	n := len(g.order)
	betweenness := make(map[string]float64, n)
	for _, name := range g.order {
		betweenness[name] = 0.0
	}

	for _, source := range g.order {
		stack := make([]string, 0, n)
		predecessors := make(map[string][]string, n)
		sigma := make(map[string]float64, n)
		distance := make(map[string]int, n)

		for _, name := range g.order {
			sigma[name] = 0.0
			distance[name] = -1
		}
		sigma[source] = 1.0
		distance[source] = 0

		queue := []string{source}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)

			for _, edge := range g.out[v] {
				w := edge.To

				if distance[w] < 0 {
					queue = append(queue, w)
					distance[w] = distance[v] + 1
				}

				if distance[w] == distance[v]+1 {
					sigma[w] += sigma[v]
					predecessors[w] = append(predecessors[w], v)
				}
			}
		}

		// Back-propagation: accumulate dependency onto predecessors
		delta := make(map[string]float64, n)
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, pred := range predecessors[w] {
				delta[pred] += (sigma[pred] / sigma[w]) * (1.0 + delta[w])
			}
			if w != source {
				betweenness[w] += delta[w]
			}
		}
	}

	if n > 2 {
		normFactor := 1.0 / float64((n-1)*(n-2))
		for name := range betweenness {
			betweenness[name] *= normFactor
		}
	}

	return betweenness
}
