// Package engine provides a DuckDB-backed trace aggregation path for
// large CSV logs: grouping and ordering happen in SQL, and only the
// collapsed trace dictionary crosses back into Go.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/procflow/procflow/internal/model"
	"github.com/procflow/procflow/pkg/discovery"
	"github.com/procflow/procflow/pkg/parser"
)

// traceSep joins activities inside SQL aggregation; chr(31) is the unit
// separator, matching the in-process aggregator's key separator.
const traceSep = "\x1f"

// AggregateCSV reads an event log CSV with DuckDB and returns the same
// trace dictionary the in-process aggregator produces. Events with equal
// timestamps within a case keep an arbitrary but stable order (SQL has
// no record order to fall back on).
func AggregateCSV(ctx context.Context, path string, cfg parser.Config) (*discovery.TraceDictionary, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("engine: open duckdb: %w", err)
	}
	defer db.Close()

	if err := checkColumns(ctx, db, path, cfg); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT trace, COUNT(*) AS cnt FROM (
			SELECT string_agg(%s, chr(31) ORDER BY %s) AS trace
			FROM read_csv_auto('%s', header=true)
			GROUP BY %s
		) GROUP BY trace
		ORDER BY cnt DESC, trace`,
		quoteIdent(cfg.ActivityColumn),
		quoteIdent(cfg.TimestampColumn),
		escapeLiteral(path),
		quoteIdent(cfg.CaseColumn),
	)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("engine: aggregate %s: %w", path, err)
	}
	defer rows.Close()

	td := &discovery.TraceDictionary{}
	for rows.Next() {
		var trace string
		var count int
		if err := rows.Scan(&trace, &count); err != nil {
			return nil, fmt.Errorf("engine: scan trace: %w", err)
		}
		activities := strings.Split(trace, traceSep)
		for _, a := range activities {
			if model.Reserved(a) {
				return nil, &discovery.ReservedLabelError{Activity: a}
			}
		}
		td.Traces = append(td.Traces, discovery.Trace{
			Activities: activities,
			Count:      count,
		})
		td.TotalCases += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("engine: read traces: %w", err)
	}

	for i := range td.Traces {
		td.Traces[i].Frequency = float64(td.Traces[i].Count) / float64(td.TotalCases)
	}
	return td, nil
}

// checkColumns verifies the CSV header carries the required columns, so a
// missing field surfaces as the same SchemaError the in-process parsers
// raise instead of a SQL binder error.
func checkColumns(ctx context.Context, db *sql.DB, path string, cfg parser.Config) error {
	query := fmt.Sprintf(`SELECT * FROM read_csv_auto('%s', header=true) LIMIT 0`, escapeLiteral(path))
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("engine: read header of %s: %w", path, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("engine: read header of %s: %w", path, err)
	}
	present := make(map[string]bool, len(cols))
	for _, c := range cols {
		present[c] = true
	}
	for _, required := range []string{cfg.CaseColumn, cfg.ActivityColumn, cfg.TimestampColumn} {
		if !present[required] {
			return &parser.SchemaError{Column: required}
		}
	}
	return nil
}

// quoteIdent quotes a SQL identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// escapeLiteral escapes a SQL string literal body.
func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
