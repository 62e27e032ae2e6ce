package graph

import "github.com/coursewise/prereqscope/internal/catalog"

// Build folds normalized records into a Graph. Every record becomes a node;
// every prerequisite id becomes a node too, even when no record declares it.
// That invariant is what lets the missing-prerequisite check work
// structurally: a node absent from the returned real-id set is by
// construction a dangling reference.
//
// No validity checking happens here. Duplicate record ids accumulate edges
// and the last record's name wins.
func Build(records []catalog.CourseRecord) (*Graph, map[string]struct{}) {
	g := New()
	real := make(map[string]struct{}, len(records))
	for _, rec := range records {
		g.AddNode(rec.ID, rec.Name)
		real[rec.ID] = struct{}{}
		for _, pre := range rec.Prerequisites {
			g.AddEdge(pre, rec.ID)
		}
	}
	return g, real
}
