// Package tui provides styled terminal output for discovery runs.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"

	"github.com/procflow/procflow/pkg/discovery"
	"github.com/procflow/procflow/pkg/render"
)

// Styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00CC66")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
)

// Title prints a bold section heading.
func Title(s string) {
	fmt.Println(titleStyle.Render(s))
}

// Muted prints secondary information.
func Muted(s string) {
	fmt.Println(mutedStyle.Render(s))
}

// Success prints a completion line.
func Success(s string) {
	fmt.Println(successStyle.Render(s))
}

// Error prints an error line.
func Error(s string) {
	fmt.Println(errorStyle.Render(s))
}

// Spinner returns an indeterminate progress spinner for long stages.
func Spinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
}

// PrintSummary prints the headline numbers of a run.
func PrintSummary(res *discovery.Result) {
	Title("Discovery summary")
	fmt.Printf("  cases:            %d\n", res.Traces.TotalCases)
	fmt.Printf("  distinct traces:  %d\n", len(res.Traces.Traces))
	fmt.Printf("  activities:       %d\n", len(res.Footprint.Activities))
	fmt.Printf("  df edges:         %d\n", len(res.DirectlyFollows))
	fmt.Printf("  independent sets: %d\n", len(res.IndependentSets))
	fmt.Printf("  transitions:      %d (%d maximal)\n", len(res.Transitions), len(res.Maximal))
}

// PrintTraces prints the trace dictionary as a table.
func PrintTraces(td *discovery.TraceDictionary) {
	Title("Traces")
	for _, t := range td.Traces {
		fmt.Printf("  %-40s  count=%-4d freq=%.3f\n",
			strings.Join(t.Activities, " "), t.Count, t.Frequency)
	}
}

// PrintFootprint prints the footprint matrix.
func PrintFootprint(m *discovery.FootprintMatrix) {
	Title("Footprint matrix")
	fmt.Print(render.FootprintTable(m))
}

// PrintTransitions prints the maximal transitions.
func PrintTransitions(ts []discovery.Transition) {
	Title("Maximal transitions")
	if len(ts) == 0 {
		Muted("  (none)")
		return
	}
	for _, t := range ts {
		fmt.Printf("  %s\n", render.TransitionLabel(t))
	}
}
