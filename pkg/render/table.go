package render

import (
	"fmt"
	"strings"

	"github.com/procflow/procflow/pkg/discovery"
)

// FootprintTable renders the footprint matrix as an aligned text table
// with the conventional symbols.
func FootprintTable(m *discovery.FootprintMatrix) string {
	acts := m.Activities
	if len(acts) == 0 {
		return "(empty footprint)\n"
	}

	width := 3
	for _, a := range acts {
		if len(a) > width {
			width = len(a)
		}
	}
	cell := func(s string) string {
		return fmt.Sprintf(" %-*s", width, s)
	}

	var b strings.Builder
	b.WriteString(cell(""))
	for _, a := range acts {
		b.WriteString(cell(a))
	}
	b.WriteByte('\n')
	for _, a := range acts {
		b.WriteString(cell(a))
		for _, o := range acts {
			b.WriteString(cell(m.Relation(a, o).String()))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// TransitionLabel formats a transition as "{a,b} --> {c}".
func TransitionLabel(t discovery.Transition) string {
	return fmt.Sprintf("{%s} %s {%s}",
		strings.Join(t.Inputs, ","), t.Relation, strings.Join(t.Outputs, ","))
}
