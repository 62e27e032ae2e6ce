// Package traverse answers curriculum-planning queries against a built
// prerequisite graph: the full ancestor chain of a course and the unlocked
// frontier for a set of completed courses.
package traverse

import "github.com/coursewise/prereqscope/internal/graph"

// Chain returns every transitive prerequisite of target exactly once,
// prerequisites before dependents, ending with target itself. An unknown
// target yields an empty chain, not an error.
//
// The walk is an explicit-stack DFS with gray/black marking shared across
// the whole descent, so it terminates on cyclic input and never re-expands a
// node reached via multiple paths. On a cyclic graph the order is only
// approximately topological.
func Chain(g *graph.Graph, target string) []string {
	if !g.Has(target) {
		return nil
	}

	const (
		gray  = 1 // on the stack, prerequisites being expanded
		black = 2 // emitted
	)
	type frame struct {
		id   string
		next int // index of the next predecessor to expand
	}

	color := make(map[string]uint8)
	stack := []frame{{id: target}}
	color[target] = gray

	var chain []string
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		preds := g.Predecessors(top.id)
		if top.next < len(preds) {
			p := preds[top.next]
			top.next++
			if color[p] == 0 {
				color[p] = gray
				stack = append(stack, frame{id: p})
			}
			continue
		}
		color[top.id] = black
		chain = append(chain, top.id)
		stack = stack[:len(stack)-1]
	}
	return chain
}

// Unlocked returns every declared course outside completed whose direct
// prerequisites are all in completed, in graph insertion order.
//
// This is a one-step frontier: a course two levels beyond what is completed
// is not unlocked even if finishing intermediate courses from this same
// result would eventually satisfy it. Undeclared prerequisite nodes are
// excluded; they are reported as missing_prereq defects, not takeable
// courses.
func Unlocked(g *graph.Graph, realIDs, completed map[string]struct{}) []string {
	var out []string
	for _, id := range g.Nodes() {
		if _, ok := realIDs[id]; !ok {
			continue
		}
		if _, done := completed[id]; done {
			continue
		}
		satisfied := true
		for _, pre := range g.Predecessors(id) {
			if _, done := completed[pre]; !done {
				satisfied = false
				break
			}
		}
		if satisfied {
			out = append(out, id)
		}
	}
	return out
}
