package render

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/procflow/procflow/pkg/discovery"
	"github.com/procflow/procflow/pkg/loggen"
)

func sampleResult(t *testing.T) *discovery.Result {
	t.Helper()
	events := loggen.Events(loggen.Canned()["simplest"], time.Date(2023, 1, 1, 8, 0, 0, 0, time.UTC))
	res, err := discovery.DiscoverEvents(context.Background(), events, discovery.Options{})
	if err != nil {
		t.Fatalf("discovery failed: %v", err)
	}
	return res
}

func TestProcessDiagram(t *testing.T) {
	dot := ProcessDiagram(sampleResult(t))

	if !strings.HasPrefix(dot, "digraph ProcessModel {") {
		t.Fatalf("unexpected prefix: %q", dot[:40])
	}
	for _, want := range []string{
		`"a";`,
		`"start" -> "a";`,
		`"d" -> "end";`,
		`label="x"`,
		`label="+"`,
		"rankdir=LR;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("diagram missing %q", want)
		}
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("diagram not closed")
	}
}

func TestProcessDiagramDeterministic(t *testing.T) {
	res := sampleResult(t)
	if ProcessDiagram(res) != ProcessDiagram(res) {
		t.Error("diagram output not stable")
	}
}

func TestDirectlyFollowsGraph(t *testing.T) {
	res := sampleResult(t)
	dot := DirectlyFollowsGraph(res.DirectlyFollows, 1)

	if !strings.Contains(dot, `"start" -> "a" [label="6"];`) {
		t.Errorf("missing start edge:\n%s", dot)
	}
	if !strings.Contains(dot, `"a" -> "e" [label="1"];`) {
		t.Errorf("missing rare edge:\n%s", dot)
	}

	// Filtering drops the rare path entirely.
	heavy := DirectlyFollowsGraph(res.DirectlyFollows, 2)
	if strings.Contains(heavy, `"e"`) {
		t.Errorf("filtered graph still mentions e:\n%s", heavy)
	}
}

func TestQuoteID(t *testing.T) {
	if got := quoteID(`check "x"`); got != `"check \"x\""` {
		t.Errorf("quoteID = %s", got)
	}
}

func TestFootprintTable(t *testing.T) {
	res := sampleResult(t)
	table := FootprintTable(res.Footprint)

	lines := strings.Split(strings.TrimRight(table, "\n"), "\n")
	if len(lines) != len(res.Footprint.Activities)+1 {
		t.Fatalf("expected %d lines, got %d", len(res.Footprint.Activities)+1, len(lines))
	}
	if !strings.Contains(table, "||") || !strings.Contains(table, "-->") || !strings.Contains(table, "#") {
		t.Errorf("table missing symbols:\n%s", table)
	}
}

func TestFootprintTableEmpty(t *testing.T) {
	table := FootprintTable(&discovery.FootprintMatrix{})
	if table != "(empty footprint)\n" {
		t.Errorf("unexpected empty table: %q", table)
	}
}

func TestTransitionLabel(t *testing.T) {
	tr := discovery.Transition{
		Inputs:   []string{"b", "e"},
		Outputs:  []string{"d"},
		Relation: discovery.RelationCausal,
	}
	if got := TransitionLabel(tr); got != "{b,e} --> {d}" {
		t.Errorf("TransitionLabel = %q", got)
	}
}
