// Package graph builds the supplier dependency graph for one analysis cycle
// and derives its criticality metrics. A graph is rebuilt fresh every cycle
// and is read-only once published.
package graph

import (
	"errors"
)

// Common sentinel errors
var (
	ErrUnknownNode = errors.New("node not found")
)

// NodeKind distinguishes real suppliers from synthetic topology nodes.
type NodeKind string

const (
	KindSupplier NodeKind = "supplier"
	KindHub      NodeKind = "hub"
	KindRoot     NodeKind = "root"
)

// Supplier is one validated supplier master record.
type Supplier struct {
	Name         string  `json:"name" validate:"required"`
	Country      string  `json:"country"`
	Product      string  `json:"product"`
	LeadTimeDays int     `json:"lead_time_days" validate:"gte=0"`
	Reliability  float64 `json:"reliability" validate:"gte=0,lte=1"`
}

// Relationship is an explicit directed dependency between two suppliers
// (source supplies the dependent). Weight is optional; zero means derived.
type Relationship struct {
	From   string  `json:"from" validate:"required"`
	To     string  `json:"to" validate:"required"`
	Weight float64 `json:"weight" validate:"gte=0"`
}

// Node is one vertex in the dependency graph.
type Node struct {
	Name         string
	Kind         NodeKind
	Country      string
	Product      string
	LeadTimeDays int
	Reliability  float64
}

// Edge is a directed weighted dependency edge.
type Edge struct {
	From   string
	To     string
	Weight float64
}

// Scores holds the per-node centrality measures.
type Scores struct {
	Degree      float64
	Betweenness float64
	Composite   float64
}

// Graph is the full node/edge set for one cycle plus derived metrics.
// Never mutated after Build returns it.
type Graph struct {
	nodes     map[string]*Node
	order     []string // insertion order, fixes all iteration for determinism
	out       map[string][]Edge
	in        map[string][]Edge
	edgeCount int

	// Centrality maps node name to its scores; populated by Build.
	Centrality map[string]Scores
	// CriticalNodes is the ordered top-K supplier ranking by composite importance.
	CriticalNodes []string
	// Warnings records data-quality issues encountered during the build.
	Warnings []string
}

func newGraph() *Graph {
	return &Graph{
		nodes:      make(map[string]*Node),
		out:        make(map[string][]Edge),
		in:         make(map[string][]Edge),
		Centrality: make(map[string]Scores),
	}
}

func (g *Graph) addNode(n *Node) {
	if _, exists := g.nodes[n.Name]; exists {
		return
	}
	g.nodes[n.Name] = n
	g.order = append(g.order, n.Name)
}

func (g *Graph) addEdge(from, to string, weight float64) {
	e := Edge{From: from, To: to, Weight: weight}
	g.out[from] = append(g.out[from], e)
	g.in[to] = append(g.in[to], e)
	g.edgeCount++
}

// Node returns the named node, or false if absent.
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// HasNode reports whether the named node exists.
func (g *Graph) HasNode(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// NodeCount returns the number of nodes, synthetic nodes included.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of directed edges.
func (g *Graph) EdgeCount() int {
	return g.edgeCount
}

// SupplierCount returns the number of real supplier nodes.
func (g *Graph) SupplierCount() int {
	count := 0
	for _, name := range g.order {
		if g.nodes[name].Kind == KindSupplier {
			count++
		}
	}
	return count
}

// Nodes returns all node names in insertion order.
func (g *Graph) Nodes() []string {
	return g.order
}

// Suppliers returns the supplier nodes in insertion order.
func (g *Graph) Suppliers() []*Node {
	suppliers := make([]*Node, 0, len(g.order))
	for _, name := range g.order {
		if n := g.nodes[name]; n.Kind == KindSupplier {
			suppliers = append(suppliers, n)
		}
	}
	return suppliers
}

// Outgoing returns the outgoing edges of a node.
func (g *Graph) Outgoing(name string) []Edge {
	return g.out[name]
}

// Incoming returns the incoming edges of a node.
func (g *Graph) Incoming(name string) []Edge {
	return g.in[name]
}
