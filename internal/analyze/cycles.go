package analyze

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coursewise/prereqscope/internal/graph"
)

// SimpleCycles enumerates every elementary cycle in g. Each cycle is
// discovered exactly once, rooted at its first-inserted node, and returned
// rotated so the lexicographically smallest id comes first.
//
// Enumeration is exponential in the worst case on dense graphs; callers on a
// latency-sensitive path must bound invocations externally.
func SimpleCycles(g *graph.Graph) [][]string {
	nodes := g.Nodes()
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n] = i
	}

	var cycles [][]string
	var path []string
	onPath := make(map[string]bool)

	// DFS restricted to nodes at or after the root's insertion index, so a
	// cycle is only ever emitted from its minimal-index node.
	var walk func(root, cur string)
	walk = func(root, cur string) {
		path = append(path, cur)
		onPath[cur] = true
		for _, next := range g.Successors(cur) {
			if next == root {
				cycles = append(cycles, canonicalCycle(path))
				continue
			}
			if index[next] < index[root] || onPath[next] {
				continue
			}
			walk(root, next)
		}
		onPath[cur] = false
		path = path[:len(path)-1]
	}

	for _, root := range nodes {
		walk(root, root)
	}
	return cycles
}

// canonicalCycle copies c rotated so its smallest id is first.
func canonicalCycle(c []string) []string {
	if len(c) == 0 {
		return nil
	}
	min := 0
	for i, v := range c {
		if v < c[min] {
			min = i
		}
	}
	out := make([]string, 0, len(c))
	out = append(out, c[min:]...)
	out = append(out, c[:min]...)
	return out
}

// CheckCycles emits one high-severity issue per elementary cycle. A graph
// with zero issues here is a DAG.
func CheckCycles(g *graph.Graph) []Issue {
	var issues []Issue
	for _, cycle := range SimpleCycles(g) {
		courses := make([]string, len(cycle))
		copy(courses, cycle)
		sort.Strings(courses)
		issues = append(issues, Issue{
			Code:     CodeCycle,
			Severity: SeverityHigh,
			Courses:  courses,
			Message:  fmt.Sprintf("Cycle detected involving %d courses: %s", len(cycle), strings.Join(cycle, ", ")),
			Meta:     Evidence{Cycle: cycle},
		})
	}
	return issues
}
