package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/procflow/procflow/pkg/parser"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAggregateCSV(t *testing.T) {
	path := writeLog(t, `case_id,activity_name,timestamp
c1,a,2023-01-01 10:00:00
c1,b,2023-01-01 10:00:01
c2,a,2023-01-02 10:00:00
c2,b,2023-01-02 10:00:01
c3,a,2023-01-03 10:00:00
c3,c,2023-01-03 10:00:01
`)

	td, err := AggregateCSV(context.Background(), path, parser.DefaultConfig())
	if err != nil {
		t.Fatalf("AggregateCSV failed: %v", err)
	}

	if td.TotalCases != 3 {
		t.Errorf("total cases = %d, want 3", td.TotalCases)
	}
	if len(td.Traces) != 2 {
		t.Fatalf("distinct traces = %d, want 2", len(td.Traces))
	}
	// Descending count, then lexicographic.
	if td.Traces[0].Count != 2 || td.Traces[0].Activities[1] != "b" {
		t.Errorf("unexpected first trace: %+v", td.Traces[0])
	}
	if td.Traces[1].Count != 1 || td.Traces[1].Activities[1] != "c" {
		t.Errorf("unexpected second trace: %+v", td.Traces[1])
	}
	if td.Traces[0].Frequency != 2.0/3.0 {
		t.Errorf("frequency = %v", td.Traces[0].Frequency)
	}
}

func TestAggregateCSVOrdersByTimestamp(t *testing.T) {
	path := writeLog(t, `case_id,activity_name,timestamp
c1,b,2023-01-01 10:00:05
c1,a,2023-01-01 10:00:00
c1,c,2023-01-01 10:00:09
`)

	td, err := AggregateCSV(context.Background(), path, parser.DefaultConfig())
	if err != nil {
		t.Fatalf("AggregateCSV failed: %v", err)
	}
	if len(td.Traces) != 1 {
		t.Fatalf("distinct traces = %d, want 1", len(td.Traces))
	}
	got := td.Traces[0].Activities
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("trace = %v, want %v", got, want)
		}
	}
}

func TestAggregateCSVRejectsReservedLabels(t *testing.T) {
	path := writeLog(t, `case_id,activity_name,timestamp
c1,start,2023-01-01 10:00:00
`)
	if _, err := AggregateCSV(context.Background(), path, parser.DefaultConfig()); err == nil {
		t.Fatal("expected error for reserved activity label")
	}
}

func TestAggregateCSVMissingColumn(t *testing.T) {
	path := writeLog(t, `case_id,timestamp
c1,2023-01-01 10:00:00
`)
	_, err := AggregateCSV(context.Background(), path, parser.DefaultConfig())
	var se *parser.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.Column != "activity_name" {
		t.Errorf("column = %q, want activity_name", se.Column)
	}
}

func TestAggregateCSVMissingFile(t *testing.T) {
	cfg := parser.DefaultConfig()
	if _, err := AggregateCSV(context.Background(), "/nonexistent/events.csv", cfg); err == nil {
		t.Fatal("expected error for missing file")
	}
}
