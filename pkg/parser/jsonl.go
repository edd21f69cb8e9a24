package parser

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/procflow/procflow/internal/model"
	"github.com/procflow/procflow/internal/pool"
)

// JSONLParser parses newline-delimited JSON event records. Field names
// follow the configured column names; unknown fields become attributes.
type JSONLParser struct {
	cfg       Config
	eventPool *pool.EventPool
}

// NewJSONLParser creates a new JSONL parser.
func NewJSONLParser(cfg Config) *JSONLParser {
	return &JSONLParser{
		cfg:       cfg,
		eventPool: pool.NewEventPool(),
	}
}

// Parse implements the Parser interface.
func (p *JSONLParser) Parse(ctx context.Context, r io.Reader, out chan<- *model.Event) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, p.cfg.BufferSize), p.cfg.BufferSize)

	lineNum := 0
	sawRecord := false
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ErrContextCanceled
		default:
		}

		lineNum++
		line := scanner.Bytes()
		if len(trimLineEnding(line)) == 0 {
			continue
		}
		sawRecord = true

		var record map[string]interface{}
		if err := json.Unmarshal(line, &record); err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrMalformedRecord, lineNum, err)
		}

		event := p.eventPool.Get()
		caseID, ok := jsonString(record[p.cfg.CaseColumn])
		if !ok {
			p.eventPool.Put(event)
			return &SchemaError{Column: p.cfg.CaseColumn}
		}
		activity, ok := jsonString(record[p.cfg.ActivityColumn])
		if !ok {
			p.eventPool.Put(event)
			return &SchemaError{Column: p.cfg.ActivityColumn}
		}
		rawTS, present := record[p.cfg.TimestampColumn]
		if !present {
			p.eventPool.Put(event)
			return &SchemaError{Column: p.cfg.TimestampColumn}
		}

		event.CaseID = caseID
		event.Activity = activity

		ts, err := jsonTimestamp(rawTS)
		if err != nil {
			p.eventPool.Put(event)
			return &ParseError{Line: lineNum, Value: fmt.Sprint(rawTS)}
		}
		event.Timestamp = ts

		if res, ok := jsonString(record[p.cfg.ResourceColumn]); ok {
			event.Resource = res
		}

		select {
		case out <- event:
		case <-ctx.Done():
			p.eventPool.Put(event)
			return ErrContextCanceled
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if !sawRecord {
		return ErrEmptyInput
	}
	return nil
}

func jsonString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok && s != ""
}

// jsonTimestamp accepts either a string timestamp or a numeric epoch.
func jsonTimestamp(v interface{}) (int64, error) {
	switch t := v.(type) {
	case string:
		return pool.ParseTimestampNanos([]byte(t))
	case float64:
		return pool.ParseTimestampNanos([]byte(fmt.Sprintf("%.0f", t)))
	default:
		return 0, pool.ErrInvalidTimestamp
	}
}
