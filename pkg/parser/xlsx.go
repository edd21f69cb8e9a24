package parser

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/procflow/procflow/internal/model"
	"github.com/procflow/procflow/internal/pool"
)

// XLSXParser parses Excel workbooks: first sheet, header row, one event
// per data row.
type XLSXParser struct {
	cfg       Config
	eventPool *pool.EventPool
}

// NewXLSXParser creates a new XLSX parser.
func NewXLSXParser(cfg Config) *XLSXParser {
	return &XLSXParser{
		cfg:       cfg,
		eventPool: pool.NewEventPool(),
	}
}

// Parse implements the Parser interface.
func (p *XLSXParser) Parse(ctx context.Context, r io.Reader, out chan<- *model.Event) error {
	xl, err := excelize.OpenReader(r)
	if err != nil {
		return fmt.Errorf("parser: open xlsx: %w", err)
	}
	defer xl.Close()

	sheet := xl.GetSheetName(0)
	if sheet == "" {
		sheets := xl.GetSheetList()
		if len(sheets) == 0 {
			return ErrEmptyInput
		}
		sheet = sheets[0]
	}

	rows, err := xl.Rows(sheet)
	if err != nil {
		return fmt.Errorf("parser: read sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return ErrEmptyInput
	}
	header, err := rows.Columns()
	if err != nil {
		return err
	}
	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		colIdx[col] = i
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
	for rows.Next() {
		select {
		case <-ctx.Done():
			return ErrContextCanceled
		default:
		}

		lineNum++
		cells, err := rows.Columns()
		if err != nil {
			return err
		}
		if len(cells) == 0 {
			continue
		}
		if len(cells) <= caseIdx || len(cells) <= actIdx || len(cells) <= tsIdx {
			return fmt.Errorf("%w: row %d has %d cells", ErrMalformedRecord, lineNum, len(cells))
		}

		event := p.eventPool.Get()
		event.CaseID = cells[caseIdx]
		event.Activity = cells[actIdx]

		ts, terr := pool.ParseTimestampNanos([]byte(cells[tsIdx]))
		if terr != nil {
			p.eventPool.Put(event)
			return &ParseError{Line: lineNum, Value: cells[tsIdx]}
		}
		event.Timestamp = ts

		if hasRes && resIdx < len(cells) {
			event.Resource = cells[resIdx]
		}

		select {
		case out <- event:
		case <-ctx.Done():
			p.eventPool.Put(event)
			return ErrContextCanceled
		}
	}

	return nil
}
