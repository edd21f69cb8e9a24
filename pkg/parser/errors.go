package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned when the input format is not supported.
	ErrUnsupportedFormat = errors.New("parser: unsupported format")

	// ErrEmptyInput is returned when the input has no header line.
	ErrEmptyInput = errors.New("parser: empty input")

	// ErrContextCanceled is returned when the context is canceled mid-parse.
	ErrContextCanceled = errors.New("parser: context canceled")

	// ErrMalformedRecord is returned when a data row is missing required fields.
	ErrMalformedRecord = errors.New("parser: malformed record")
)

// SchemaError reports a required input field that is absent. Fatal: the
// run aborts before any discovery stage executes.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("parser: required column %q missing", e.Column)
}

// ParseError reports an unorderable timestamp. Fatal: rows are never
// silently dropped, since a missing row would corrupt the discovered
// ordering.
type ParseError struct {
	Line  int
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parser: line %d: cannot order timestamp %q", e.Line, e.Value)
}
