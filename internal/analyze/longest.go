package analyze

import (
	"fmt"
	"sort"

	"github.com/coursewise/prereqscope/internal/graph"
)

// ChainResult is the outcome of the longest-chain computation. Blocked means
// the graph contains cycles, in which case no longest simple path is
// computed; the cycles themselves are flagged by CheckCycles.
type ChainResult struct {
	Length  int
	Path    []string
	Blocked bool
}

// topoOrder runs Kahn's algorithm in lexicographic waves. ok is false when
// the graph is cyclic.
func topoOrder(g *graph.Graph) (order []string, ok bool) {
	nodes := g.Nodes()
	inDeg := make(map[string]int, len(nodes))
	for _, n := range nodes {
		inDeg[n] = g.InDegree(n)
	}

	var queue []string
	for _, n := range nodes {
		if inDeg[n] == 0 {
			queue = append(queue, n)
		}
	}
	sort.Strings(queue)

	for len(queue) > 0 {
		var next []string
		for _, n := range queue {
			order = append(order, n)
			for _, succ := range g.Successors(n) {
				inDeg[succ]--
				if inDeg[succ] == 0 {
					next = append(next, succ)
				}
			}
		}
		sort.Strings(next)
		queue = next
	}
	return order, len(order) == len(nodes)
}

// LongestChain computes the longest directed path by node count. When
// several maximum-length paths exist the result is deterministic: the
// lexicographically smallest end node wins, and each step back prefers the
// lexicographically smallest predecessor.
func LongestChain(g *graph.Graph) ChainResult {
	order, ok := topoOrder(g)
	if !ok {
		return ChainResult{Blocked: true}
	}
	if len(order) == 0 {
		return ChainResult{}
	}

	dist := make(map[string]int, len(order))
	pred := make(map[string]string, len(order))
	for _, n := range order {
		dist[n] = 1
	}
	for _, n := range order {
		for _, succ := range g.Successors(n) {
			cand := dist[n] + 1
			if cand > dist[succ] || (cand == dist[succ] && n < pred[succ]) {
				dist[succ] = cand
				pred[succ] = n
			}
		}
	}

	end, best := "", 0
	for _, n := range order {
		if dist[n] > best || (dist[n] == best && n < end) {
			end, best = n, dist[n]
		}
	}

	path := make([]string, 0, best)
	for cur := end; cur != ""; {
		if len(path) > len(order) {
			// Reconstruction ran past the node count on a graph that topo
			// sort accepted; treat as no result rather than failing the run.
			return ChainResult{}
		}
		path = append(path, cur)
		cur = pred[cur]
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return ChainResult{Length: best, Path: path}
}

// CheckLongChain emits a long_chain issue when the longest prerequisite
// chain exceeds warnLen. Chains longer than 8 are medium severity, the rest
// low. Cyclic graphs yield no issue here: the result just reports Blocked.
func CheckLongChain(g *graph.Graph, warnLen int) ([]Issue, ChainResult) {
	res := LongestChain(g)
	if res.Blocked || res.Length <= warnLen {
		return nil, res
	}
	severity := SeverityLow
	if res.Length > 8 {
		severity = SeverityMedium
	}
	end := res.Path[len(res.Path)-1]
	issue := Issue{
		Code:     CodeLongChain,
		Severity: severity,
		Courses:  []string{end},
		Message:  fmt.Sprintf("Long prerequisite chain of length %d detected ending at %s", res.Length, end),
		Meta:     Evidence{Length: res.Length, Path: res.Path},
	}
	return []Issue{issue}, res
}
