package analyze

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coursewise/prereqscope/internal/graph"
)

// CheckMissingPrereqs reports every node that appears in the graph without a
// declaring record. The builder guarantees such nodes exist precisely
// because some course listed them as a prerequisite.
func CheckMissingPrereqs(g *graph.Graph, realIDs map[string]struct{}) []Issue {
	var issues []Issue
	for _, node := range g.Nodes() {
		if _, ok := realIDs[node]; ok {
			continue
		}
		refs := g.Successors(node)
		referencedBy := make([]string, len(refs))
		copy(referencedBy, refs)
		issues = append(issues, Issue{
			Code:     CodeMissingPrereq,
			Severity: SeverityHigh,
			Courses:  []string{node},
			Message:  fmt.Sprintf("Course %q is required by %s but not defined in catalog", node, strings.Join(referencedBy, ", ")),
			Meta:     Evidence{ReferencedBy: referencedBy},
		})
	}
	return issues
}

// CheckIsolated reports declared courses with no edges in either direction.
func CheckIsolated(g *graph.Graph, realIDs map[string]struct{}) []Issue {
	var issues []Issue
	for _, node := range g.Nodes() {
		if _, ok := realIDs[node]; !ok {
			continue
		}
		if g.InDegree(node) == 0 && g.OutDegree(node) == 0 {
			issues = append(issues, Issue{
				Code:     CodeIsolatedCourse,
				Severity: SeverityLow,
				Courses:  []string{node},
				Message:  fmt.Sprintf("Course %q has no prerequisites and is not a prerequisite for any other course", node),
			})
		}
	}
	return issues
}

// BottleneckCandidate is one entry in the ranked bottleneck list.
type BottleneckCandidate struct {
	ID        string `json:"id"`
	OutDegree int    `json:"out_degree"`
}

// CheckBottlenecks ranks declared courses by out-degree (how many courses
// directly require them). Candidates at or above minOutDegree are ranked
// descending, ties broken by discovery order; the top topK become issues.
// The full ranking is returned alongside for the report metrics.
func CheckBottlenecks(g *graph.Graph, realIDs map[string]struct{}, topK, minOutDegree int) ([]Issue, []BottleneckCandidate) {
	var candidates []BottleneckCandidate
	for _, node := range g.Nodes() {
		if _, ok := realIDs[node]; !ok {
			continue
		}
		if d := g.OutDegree(node); d >= minOutDegree {
			candidates = append(candidates, BottleneckCandidate{ID: node, OutDegree: d})
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].OutDegree > candidates[b].OutDegree
	})

	top := candidates
	if topK >= 0 && len(top) > topK {
		top = top[:topK]
	}
	var issues []Issue
	for _, c := range top {
		issues = append(issues, Issue{
			Code:     CodeBottleneck,
			Severity: SeverityMedium,
			Courses:  []string{c.ID},
			Message:  fmt.Sprintf("Course %q is a prerequisite for %d courses", c.ID, c.OutDegree),
			Meta:     Evidence{OutDegree: c.OutDegree},
		})
	}
	return issues, candidates
}
