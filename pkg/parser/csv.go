package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/procflow/procflow/internal/model"
	"github.com/procflow/procflow/internal/pool"
)

// CSVParser parses comma-separated event logs with a header line. Field
// scanning is byte-level and handles quoted fields with embedded
// delimiters and doubled quotes.
type CSVParser struct {
	cfg       Config
	eventPool *pool.EventPool
}

// NewCSVParser creates a new CSV parser.
func NewCSVParser(cfg Config) *CSVParser {
	return &CSVParser{
		cfg:       cfg,
		eventPool: pool.NewEventPool(),
	}
}

// Parse implements the Parser interface. A missing required column is a
// SchemaError; an unparseable timestamp is a ParseError naming the line.
func (p *CSVParser) Parse(ctx context.Context, r io.Reader, out chan<- *model.Event) error {
	reader := bufio.NewReaderSize(r, p.cfg.BufferSize)

	headerLine, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		return err
	}
	if len(trimLineEnding(headerLine)) == 0 {
		return ErrEmptyInput
	}

	columns := p.scanLine(trimLineEnding(headerLine))
	colIdx := make(map[string]int, len(columns))
	for i, col := range columns {
		colIdx[string(col)] = i
	}

	caseIdx, ok := colIdx[p.cfg.CaseColumn]
	if !ok {
		return &SchemaError{Column: p.cfg.CaseColumn}
	}
	actIdx, ok := colIdx[p.cfg.ActivityColumn]
	if !ok {
		return &SchemaError{Column: p.cfg.ActivityColumn}
	}
	tsIdx, ok := colIdx[p.cfg.TimestampColumn]
	if !ok {
		return &SchemaError{Column: p.cfg.TimestampColumn}
	}
	resIdx, hasRes := colIdx[p.cfg.ResourceColumn]

	lineNum := 1
	for {
		select {
		case <-ctx.Done():
			return ErrContextCanceled
		default:
		}

		line, err := reader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return err
		}
		if len(line) == 0 && err == io.EOF {
			break
		}
		lineNum++

		line = trimLineEnding(line)
		if len(line) == 0 {
			if err == io.EOF {
				break
			}
			continue
		}

		fields := p.scanLine(line)
		if len(fields) <= caseIdx || len(fields) <= actIdx || len(fields) <= tsIdx {
			return fmt.Errorf("%w: line %d has %d fields", ErrMalformedRecord, lineNum, len(fields))
		}

		event := p.eventPool.Get()
		event.CaseID = string(fields[caseIdx])
		event.Activity = string(fields[actIdx])

		ts, terr := p.parseTimestamp(fields[tsIdx])
		if terr != nil {
			p.eventPool.Put(event)
			return &ParseError{Line: lineNum, Value: string(fields[tsIdx])}
		}
		event.Timestamp = ts

		if hasRes && resIdx < len(fields) {
			event.Resource = string(fields[resIdx])
		}

		for i, col := range columns {
			if i == caseIdx || i == actIdx || i == tsIdx || (hasRes && i == resIdx) {
				continue
			}
			if i < len(fields) && len(fields[i]) > 0 {
				event.Attributes = append(event.Attributes, model.Attribute{
					Key:   string(col),
					Value: string(fields[i]),
				})
			}
		}

		select {
		case out <- event:
		case <-ctx.Done():
			p.eventPool.Put(event)
			return ErrContextCanceled
		}

		if err == io.EOF {
			break
		}
	}

	return nil
}

// scanLine splits a CSV line into fields, honoring quoting.
func (p *CSVParser) scanLine(line []byte) [][]byte {
	if len(line) == 0 {
		return nil
	}

	fields := make([][]byte, 0, 8)
	delim := p.cfg.Delimiter
	start := 0
	inQuotes := false

	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case c == '"':
			if !inQuotes {
				inQuotes = true
			} else if i+1 < len(line) && line[i+1] == '"' {
				i++ // doubled quote inside a quoted field
			} else {
				inQuotes = false
			}
		case c == delim && !inQuotes:
			fields = append(fields, unquoteField(line[start:i]))
			start = i + 1
		}
	}
	return append(fields, unquoteField(line[start:]))
}

// unquoteField strips surrounding quotes and collapses doubled quotes.
func unquoteField(field []byte) []byte {
	if len(field) < 2 || field[0] != '"' || field[len(field)-1] != '"' {
		return field
	}
	field = field[1 : len(field)-1]
	out := make([]byte, 0, len(field))
	for i := 0; i < len(field); i++ {
		out = append(out, field[i])
		if field[i] == '"' && i+1 < len(field) && field[i+1] == '"' {
			i++
		}
	}
	return out
}

func (p *CSVParser) parseTimestamp(ts []byte) (int64, error) {
	if nanos, err := pool.ParseTimestampNanos(ts); err == nil {
		return nanos, nil
	}
	if p.cfg.TimestampFormat != "" {
		if t, err := time.Parse(p.cfg.TimestampFormat, string(ts)); err == nil {
			return t.UnixNano(), nil
		}
	}
	return 0, pool.ErrInvalidTimestamp
}

// trimLineEnding removes trailing \n and \r characters.
func trimLineEnding(line []byte) []byte {
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line
}
