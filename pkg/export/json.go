// Package export serializes discovery artifacts for external consumers.
package export

import (
	"encoding/json"
	"io"

	"github.com/procflow/procflow/pkg/discovery"
)

// TraceRow is one trace dictionary entry.
type TraceRow struct {
	Activities []string `json:"activities"`
	Count      int      `json:"count"`
	Frequency  float64  `json:"frequency"`
}

// EdgeRow is one weighted directly-follows edge.
type EdgeRow struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Count int    `json:"count"`
}

// RelationRow is one footprint matrix cell.
type RelationRow struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Relation string `json:"relation"`
}

// TransitionRow is one discovered transition.
type TransitionRow struct {
	Inputs   []string `json:"inputs"`
	Outputs  []string `json:"outputs"`
	Relation string   `json:"relation"`
}

// Bundle is the complete JSON artifact set of a discovery run. All
// slices are in deterministic order, so identical inputs produce
// byte-identical bundles.
type Bundle struct {
	TotalCases        int             `json:"total_cases"`
	Traces            []TraceRow      `json:"traces"`
	InitialActivities []string        `json:"initial_activities"`
	FinalActivities   []string        `json:"final_activities"`
	DirectlyFollows   []EdgeRow       `json:"directly_follows"`
	Footprint         []RelationRow   `json:"footprint"`
	IndependentSets   [][]string      `json:"independent_sets"`
	Transitions       []TransitionRow `json:"transitions"`
	Maximal           []TransitionRow `json:"maximal_transitions"`
}

// NewBundle flattens a discovery result into its exportable form.
func NewBundle(res *discovery.Result) *Bundle {
	b := &Bundle{
		TotalCases:        res.Traces.TotalCases,
		InitialActivities: res.Initial.Sorted(),
		FinalActivities:   res.Final.Sorted(),
		IndependentSets:   res.IndependentSets,
	}

	for _, t := range res.Traces.Traces {
		b.Traces = append(b.Traces, TraceRow{
			Activities: t.Activities,
			Count:      t.Count,
			Frequency:  t.Frequency,
		})
	}

	for _, e := range res.DirectlyFollows.SortedEdges() {
		b.DirectlyFollows = append(b.DirectlyFollows, EdgeRow{
			From:  e.From,
			To:    e.To,
			Count: res.DirectlyFollows[e],
		})
	}

	for _, a := range res.Footprint.Activities {
		for _, o := range res.Footprint.Activities {
			b.Footprint = append(b.Footprint, RelationRow{
				From:     a,
				To:       o,
				Relation: res.Footprint.Relation(a, o).String(),
			})
		}
	}

	b.Transitions = transitionRows(res.Transitions)
	b.Maximal = transitionRows(res.Maximal)
	return b
}

func transitionRows(ts []discovery.Transition) []TransitionRow {
	var out []TransitionRow
	for _, t := range ts {
		out = append(out, TransitionRow{
			Inputs:   t.Inputs,
			Outputs:  t.Outputs,
			Relation: t.Relation.String(),
		})
	}
	return out
}

// WriteJSON writes the bundle as indented JSON.
func WriteJSON(w io.Writer, res *discovery.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewBundle(res))
}
