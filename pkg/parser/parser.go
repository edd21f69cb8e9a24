// Package parser provides streaming parsers for process mining event
// logs (CSV, XES, JSONL, XLSX).
package parser

import (
	"context"
	"io"

	"github.com/procflow/procflow/internal/model"
)

// Parser reads event records from r and sends them to out. Parsers
// respect context cancellation and never retain references to the output
// channel after returning. The caller closes out.
type Parser interface {
	Parse(ctx context.Context, r io.Reader, out chan<- *model.Event) error
}

// Format represents a supported input format.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatXES
	FormatJSONL
	FormatXLSX
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatXES:
		return "xes"
	case FormatJSONL:
		return "jsonl"
	case FormatXLSX:
		return "xlsx"
	default:
		return "unknown"
	}
}

// ParseFormat parses a format string.
func ParseFormat(s string) Format {
	switch s {
	case "csv", "CSV":
		return FormatCSV
	case "xes", "XES":
		return FormatXES
	case "jsonl", "JSONL", "json", "ndjson":
		return FormatJSONL
	case "xlsx", "XLSX", "excel":
		return FormatXLSX
	default:
		return FormatUnknown
	}
}

// Config holds common parser configuration.
type Config struct {
	// CaseColumn is the name of the case identifier column.
	CaseColumn string

	// ActivityColumn is the name of the activity label column.
	ActivityColumn string

	// TimestampColumn is the name of the timestamp column.
	TimestampColumn string

	// ResourceColumn is the name of the resource column (optional).
	ResourceColumn string

	// TimestampFormat is a Go time layout tried after the built-in ones.
	TimestampFormat string

	// Delimiter is the CSV field delimiter.
	Delimiter byte

	// BufferSize is the read buffer size in bytes.
	BufferSize int
}

// DefaultConfig returns a Config matching the conventional event log
// header: case_id, activity_name, timestamp.
func DefaultConfig() Config {
	return Config{
		CaseColumn:      "case_id",
		ActivityColumn:  "activity_name",
		TimestampColumn: "timestamp",
		ResourceColumn:  "resource",
		TimestampFormat: "2006-01-02 15:04:05.000000",
		Delimiter:       ',',
		BufferSize:      64 * 1024,
	}
}

// New creates a parser for the given format.
func New(format Format, cfg Config) (Parser, error) {
	switch format {
	case FormatCSV:
		return NewCSVParser(cfg), nil
	case FormatXES:
		return NewXESParser(cfg), nil
	case FormatJSONL:
		return NewJSONLParser(cfg), nil
	case FormatXLSX:
		return NewXLSXParser(cfg), nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// Collect drains a parser into a slice. Convenience for callers that need
// the whole log in memory before aggregation.
func Collect(ctx context.Context, p Parser, r io.Reader) ([]model.Event, error) {
	out := make(chan *model.Event, 256)
	errc := make(chan error, 1)
	go func() {
		errc <- p.Parse(ctx, r, out)
		close(out)
	}()

	var events []model.Event
	for ev := range out {
		events = append(events, *ev)
	}
	if err := <-errc; err != nil {
		return nil, err
	}
	return events, nil
}
