// Package render turns discovery artifacts into Graphviz DOT text and
// plain-text tables for external rendering.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/procflow/procflow/internal/model"
	"github.com/procflow/procflow/pkg/discovery"
)

// ProcessDiagram renders the discovered model as a Petri-net-style DOT
// graph: activity rectangles, circle nodes for transitions ("x" for
// causal, "+" for parallel gateways), and start/end boundary circles.
func ProcessDiagram(res *discovery.Result) string {
	var b strings.Builder
	b.WriteString("digraph ProcessModel {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=rect, style=filled, color=black, fillcolor=white];\n")

	for _, a := range res.Footprint.Activities {
		fmt.Fprintf(&b, "  %s;\n", quoteID(a))
	}

	for i, t := range res.Maximal {
		gateway := fmt.Sprintf("t%d", i)
		switch t.Relation {
		case discovery.RelationParallel:
			fmt.Fprintf(&b, "  %s [shape=circle, label=\"+\", fillcolor=lightgrey];\n", gateway)
			for _, a := range t.Inputs {
				fmt.Fprintf(&b, "  %s -> %s [dir=none];\n", quoteID(a), gateway)
			}
			for _, a := range t.Outputs {
				fmt.Fprintf(&b, "  %s -> %s [dir=none];\n", gateway, quoteID(a))
			}
		default:
			fmt.Fprintf(&b, "  %s [shape=circle, label=\"x\", fillcolor=lightgrey];\n", gateway)
			for _, a := range t.Inputs {
				fmt.Fprintf(&b, "  %s -> %s;\n", quoteID(a), gateway)
			}
			for _, a := range t.Outputs {
				fmt.Fprintf(&b, "  %s -> %s;\n", gateway, quoteID(a))
			}
		}
	}

	fmt.Fprintf(&b, "  %s [shape=circle, fillcolor=white];\n", quoteID(model.StartLabel))
	for _, a := range res.Initial.Sorted() {
		fmt.Fprintf(&b, "  %s -> %s;\n", quoteID(model.StartLabel), quoteID(a))
	}
	fmt.Fprintf(&b, "  %s [shape=circle, fillcolor=white, penwidth=3];\n", quoteID(model.EndLabel))
	for _, a := range res.Final.Sorted() {
		fmt.Fprintf(&b, "  %s -> %s;\n", quoteID(a), quoteID(model.EndLabel))
	}

	b.WriteString("}\n")
	return b.String()
}

// DirectlyFollowsGraph renders the weighted directly-follows relation as
// DOT, keeping only edges observed at least minCount times.
func DirectlyFollowsGraph(df discovery.DirectlyFollowsRelation, minCount int) string {
	df = df.Filtered(minCount)

	nodes := make(map[string]bool)
	for _, e := range df.SortedEdges() {
		nodes[e.From] = true
		nodes[e.To] = true
	}
	names := make([]string, 0, len(nodes))
	for n := range nodes {
		names = append(names, n)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("digraph DirectlyFollows {\n")
	b.WriteString("  node [shape=ellipse, style=filled, fillcolor=lightblue];\n")
	for _, n := range names {
		fmt.Fprintf(&b, "  %s;\n", quoteID(n))
	}
	for _, e := range df.SortedEdges() {
		fmt.Fprintf(&b, "  %s -> %s [label=\"%d\"];\n", quoteID(e.From), quoteID(e.To), df[e])
	}
	b.WriteString("}\n")
	return b.String()
}

// quoteID makes a label safe as a DOT node identifier.
func quoteID(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
