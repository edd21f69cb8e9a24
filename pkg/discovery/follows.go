package discovery

import (
	"sort"

	"github.com/procflow/procflow/internal/model"
)

// Edge is an ordered pair of activity labels.
type Edge struct {
	From string
	To   string
}

// DirectlyFollowsRelation maps each observed ordered pair to its
// case-weighted succession count, including synthetic start/end edges.
type DirectlyFollowsRelation map[Edge]int

// DirectlyFollows builds the weighted adjacency counts for the
// dictionary. Each trace contributes its count to the edge from start to
// its first activity (when that activity is a recognized initial
// activity), to every consecutive pair, and from its last activity to end
// (when it is a recognized final activity).
func DirectlyFollows(td *TraceDictionary, initial, final ActivitySet) (DirectlyFollowsRelation, error) {
	df := make(DirectlyFollowsRelation)
	for _, t := range td.Traces {
		if t.Count <= 0 {
			return nil, &ValidationError{Trace: t.Activities, Count: t.Count}
		}
		if len(t.Activities) == 0 {
			continue
		}
		first := t.Activities[0]
		last := t.Activities[len(t.Activities)-1]
		if initial.Has(first) {
			df[Edge{model.StartLabel, first}] += t.Count
		}
		for i := 0; i+1 < len(t.Activities); i++ {
			df[Edge{t.Activities[i], t.Activities[i+1]}] += t.Count
		}
		if final.Has(last) {
			df[Edge{last, model.EndLabel}] += t.Count
		}
	}
	return df, nil
}

// Activities returns the sorted real (non-sentinel) activities observed
// anywhere in the relation.
func (df DirectlyFollowsRelation) Activities() []string {
	seen := make(map[string]bool)
	for e := range df {
		if !model.Reserved(e.From) {
			seen[e.From] = true
		}
		if !model.Reserved(e.To) {
			seen[e.To] = true
		}
	}
	out := make([]string, 0, len(seen))
	for a := range seen {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Filtered returns only the edges with at least min observations,
// preserving counts. Used by the weighted-graph view.
func (df DirectlyFollowsRelation) Filtered(min int) DirectlyFollowsRelation {
	if min <= 1 {
		return df
	}
	out := make(DirectlyFollowsRelation)
	for e, n := range df {
		if n >= min {
			out[e] = n
		}
	}
	return out
}

// SortedEdges returns the edges in deterministic order.
func (df DirectlyFollowsRelation) SortedEdges() []Edge {
	edges := make([]Edge, 0, len(df))
	for e := range df {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges
}
