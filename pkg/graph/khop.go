package graph

import (
	"fmt"
)

type hopEntry struct {
	name string
	hop  int
}

// ReachableWithin performs a BFS from start following outgoing edges up to
// maxHops levels, returning each reached node's shortest hop distance. The
// start node is included at distance 0. Runs in O(V+E).
func (g *Graph) ReachableWithin(start string, maxHops int) (map[string]int, error) {
	if maxHops < 1 {
		return nil, fmt.Errorf("maxHops must be >= 1, got %d", maxHops)
	}
	if !g.HasNode(start) {
		return nil, fmt.Errorf("reachability from %q: %w", start, ErrUnknownNode)
	}

	distances := map[string]int{start: 0}
	queue := []hopEntry{{name: start, hop: 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.hop >= maxHops {
			continue
		}
		nextHop := current.hop + 1

		for _, edge := range g.out[current.name] {
			if _, seen := distances[edge.To]; seen {
				continue
			}
			distances[edge.To] = nextHop
			queue = append(queue, hopEntry{name: edge.To, hop: nextHop})
		}
	}

	return distances, nil
}
