// Package graph provides the directed prerequisite graph: an edge P→C means
// P is a prerequisite of C. The graph is owned by a single analysis
// invocation and never shared or mutated across calls.
package graph

// Graph is an adjacency-list digraph keyed by course id, with a side table
// for display names. Node and edge iteration follow insertion order, which
// keeps downstream output deterministic.
type Graph struct {
	names   map[string]string
	succ    map[string][]string // id → direct dependents
	pred    map[string][]string // id → direct prerequisites
	order   []string            // node ids, first-seen order
	edgeSet map[string]struct{} // "from->to", collapses duplicate edges
}

// New allocates an empty Graph.
func New() *Graph {
	return &Graph{
		names:   make(map[string]string),
		succ:    make(map[string][]string),
		pred:    make(map[string][]string),
		edgeSet: make(map[string]struct{}),
	}
}

// AddNode upserts a node. A later AddNode for the same id overwrites the
// name (last-wins fold over duplicate records).
func (g *Graph) AddNode(id, name string) {
	g.ensure(id)
	g.names[id] = name
}

// AddEdge records "from is a prerequisite of to", creating either endpoint
// if it does not exist yet. Duplicate edges are collapsed.
func (g *Graph) AddEdge(from, to string) {
	g.ensure(from)
	g.ensure(to)
	key := from + "->" + to
	if _, ok := g.edgeSet[key]; ok {
		return
	}
	g.edgeSet[key] = struct{}{}
	g.succ[from] = append(g.succ[from], to)
	g.pred[to] = append(g.pred[to], from)
}

func (g *Graph) ensure(id string) {
	if _, ok := g.names[id]; !ok {
		g.names[id] = ""
		g.order = append(g.order, id)
	}
}

// Has reports whether id is a node in the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.names[id]
	return ok
}

// Name returns the display name of id ("" for nodes that were only ever
// referenced as a prerequisite).
func (g *Graph) Name(id string) string {
	return g.names[id]
}

// Nodes returns all node ids in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Successors returns the direct dependents of id.
func (g *Graph) Successors(id string) []string {
	return g.succ[id]
}

// Predecessors returns the direct prerequisites of id.
func (g *Graph) Predecessors(id string) []string {
	return g.pred[id]
}

// OutDegree returns the number of courses that directly require id.
func (g *Graph) OutDegree(id string) int {
	return len(g.succ[id])
}

// InDegree returns the number of direct prerequisites of id.
func (g *Graph) InDegree(id string) int {
	return len(g.pred[id])
}

// NodeCount returns the total number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.order)
}

// EdgeCount returns the total number of distinct edges.
func (g *Graph) EdgeCount() int {
	return len(g.edgeSet)
}
