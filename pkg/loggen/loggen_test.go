package loggen

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestParsePatterns(t *testing.T) {
	patterns, err := ParsePatterns("a,b,c,d:3; a,c,b,d:2 ;a,e,d")
	if err != nil {
		t.Fatalf("ParsePatterns failed: %v", err)
	}
	if len(patterns) != 3 {
		t.Fatalf("expected 3 patterns, got %d", len(patterns))
	}
	if patterns[0].Count != 3 || len(patterns[0].Activities) != 4 {
		t.Errorf("unexpected first pattern: %+v", patterns[0])
	}
	// A missing count defaults to one.
	if patterns[2].Count != 1 {
		t.Errorf("default count = %d, want 1", patterns[2].Count)
	}
}

func TestParsePatternsRejectsBadInput(t *testing.T) {
	for _, spec := range []string{
		"",
		"a,b:0",
		"a,b:x",
		"a,,b:1",
		"a,start,b:1",
		"end:2",
	} {
		if _, err := ParsePatterns(spec); err == nil {
			t.Errorf("ParsePatterns(%q) succeeded, want error", spec)
		}
	}
}

func TestEventsExpansion(t *testing.T) {
	patterns := []Pattern{
		{Activities: []string{"a", "b"}, Count: 2},
		{Activities: []string{"c"}, Count: 1},
	}
	start := time.Date(2023, 1, 1, 8, 0, 0, 0, time.UTC)
	events := Events(patterns, start)

	if len(events) != 5 {
		t.Fatalf("expected 5 events, got %d", len(events))
	}
	if events[0].CaseID != "0001" || events[2].CaseID != "0002" || events[4].CaseID != "0003" {
		t.Errorf("unexpected case ids: %q %q %q", events[0].CaseID, events[2].CaseID, events[4].CaseID)
	}
	// One second between events of a case, one day between cases.
	if events[1].Timestamp-events[0].Timestamp != int64(time.Second) {
		t.Errorf("intra-case step = %d", events[1].Timestamp-events[0].Timestamp)
	}
	if events[2].Timestamp-events[0].Timestamp != int64(24*time.Hour) {
		t.Errorf("inter-case step = %d", events[2].Timestamp-events[0].Timestamp)
	}
}

func TestWriteCSVRoundTripsHeader(t *testing.T) {
	patterns, err := ParsePatterns("a,b:1")
	if err != nil {
		t.Fatalf("ParsePatterns failed: %v", err)
	}
	var buf bytes.Buffer
	start := time.Date(2023, 1, 1, 8, 0, 0, 0, time.UTC)
	if err := WriteCSV(&buf, patterns, start); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "case_id,activity_name,timestamp" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "0001,a,2023-01-01 08:00:00.000000") {
		t.Errorf("unexpected first row: %q", lines[1])
	}
}

func TestCannedNames(t *testing.T) {
	names := CannedNames()
	want := []string{"choice", "loop", "parallel", "simplest"}
	if len(names) != len(want) {
		t.Fatalf("expected %d canned logs, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
