package parser

import (
	"errors"
	"testing"
	"time"
)

func TestJSONLParseBasic(t *testing.T) {
	input := `{"case_id":"c1","activity_name":"register","timestamp":"2023-01-01 10:00:00","resource":"alice"}
{"case_id":"c1","activity_name":"approve","timestamp":"2023-01-01 10:05:00"}
`
	events, err := collectString(t, NewJSONLParser(DefaultConfig()), input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].CaseID != "c1" || events[0].Activity != "register" || events[0].Resource != "alice" {
		t.Errorf("unexpected first event: %+v", events[0])
	}
}

func TestJSONLNumericEpoch(t *testing.T) {
	input := `{"case_id":"c1","activity_name":"a","timestamp":1672567200}` + "\n"
	events, err := collectString(t, NewJSONLParser(DefaultConfig()), input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := int64(1672567200) * int64(time.Second)
	if events[0].Timestamp != want {
		t.Errorf("timestamp = %d, want %d", events[0].Timestamp, want)
	}
}

func TestJSONLMissingField(t *testing.T) {
	input := `{"case_id":"c1","timestamp":"2023-01-01 10:00:00"}` + "\n"
	_, err := collectString(t, NewJSONLParser(DefaultConfig()), input)
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.Column != "activity_name" {
		t.Errorf("column = %q, want activity_name", se.Column)
	}
}

func TestJSONLMalformedLine(t *testing.T) {
	input := `{"case_id":"c1","activity_name":"a","timestamp":"2023-01-01 10:00:00"}
{not json}
`
	_, err := collectString(t, NewJSONLParser(DefaultConfig()), input)
	if !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
}

func TestJSONLBadTimestamp(t *testing.T) {
	input := `{"case_id":"c1","activity_name":"a","timestamp":true}` + "\n"
	_, err := collectString(t, NewJSONLParser(DefaultConfig()), input)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Line != 1 {
		t.Errorf("line = %d, want 1", pe.Line)
	}
}

func TestJSONLEmptyInput(t *testing.T) {
	for _, input := range []string{"", "\n\n"} {
		_, err := collectString(t, NewJSONLParser(DefaultConfig()), input)
		if !errors.Is(err, ErrEmptyInput) {
			t.Fatalf("input %q: expected ErrEmptyInput, got %v", input, err)
		}
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"csv":     FormatCSV,
		"CSV":     FormatCSV,
		"xes":     FormatXES,
		"jsonl":   FormatJSONL,
		"ndjson":  FormatJSONL,
		"xlsx":    FormatXLSX,
		"excel":   FormatXLSX,
		"parquet": FormatUnknown,
		"":        FormatUnknown,
	}
	for in, want := range cases {
		if got := ParseFormat(in); got != want {
			t.Errorf("ParseFormat(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewUnsupportedFormat(t *testing.T) {
	if _, err := New(FormatUnknown, DefaultConfig()); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
