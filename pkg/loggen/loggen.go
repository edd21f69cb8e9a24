// Package loggen generates synthetic event logs from weighted trace
// patterns, for demos and regression fixtures.
package loggen

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/procflow/procflow/internal/model"
)

// Pattern is a trace shape to emit Count times.
type Pattern struct {
	Activities []string
	Count      int
}

// ParsePatterns parses a pattern spec of the form
// "a,b,c,d:3;a,c,b,d:2;a,e,d:1".
func ParsePatterns(spec string) ([]Pattern, error) {
	var out []Pattern
	for _, part := range strings.Split(spec, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		seq, countStr, found := strings.Cut(part, ":")
		count := 1
		if found {
			n, err := strconv.Atoi(strings.TrimSpace(countStr))
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("loggen: invalid count in pattern %q", part)
			}
			count = n
		}
		var acts []string
		for _, a := range strings.Split(seq, ",") {
			a = strings.TrimSpace(a)
			if a == "" {
				return nil, fmt.Errorf("loggen: empty activity in pattern %q", part)
			}
			if model.Reserved(a) {
				return nil, fmt.Errorf("loggen: activity %q is a reserved boundary label", a)
			}
			acts = append(acts, a)
		}
		if len(acts) == 0 {
			return nil, fmt.Errorf("loggen: empty pattern %q", part)
		}
		out = append(out, Pattern{Activities: acts, Count: count})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("loggen: no patterns in %q", spec)
	}
	return out, nil
}

// Events expands the patterns into events. Case IDs are zero-padded and
// sequential; each case starts a day after the previous one and steps one
// second per event, so timestamp order matches pattern order.
func Events(patterns []Pattern, start time.Time) []model.Event {
	var out []model.Event
	caseNum := 1
	caseStart := start
	for _, p := range patterns {
		for i := 0; i < p.Count; i++ {
			caseID := fmt.Sprintf("%04d", caseNum)
			for j, act := range p.Activities {
				out = append(out, model.Event{
					CaseID:    caseID,
					Activity:  act,
					Timestamp: caseStart.Add(time.Duration(j) * time.Second).UnixNano(),
				})
			}
			caseNum++
			caseStart = caseStart.Add(24 * time.Hour)
		}
	}
	return out
}

// WriteCSV writes the expanded patterns as a case_id,activity_name,timestamp
// log.
func WriteCSV(w io.Writer, patterns []Pattern, start time.Time) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"case_id", "activity_name", "timestamp"}); err != nil {
		return err
	}
	for _, ev := range Events(patterns, start) {
		ts := time.Unix(0, ev.Timestamp).UTC().Format("2006-01-02 15:04:05.000000")
		if err := cw.Write([]string{ev.CaseID, ev.Activity, ts}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Canned returns the bundled example logs by name, sorted for listing.
func Canned() map[string][]Pattern {
	return map[string][]Pattern{
		"simplest": {
			{Activities: []string{"a", "b", "c", "d"}, Count: 3},
			{Activities: []string{"a", "c", "b", "d"}, Count: 2},
			{Activities: []string{"a", "e", "d"}, Count: 1},
		},
		"choice": {
			{Activities: []string{"a", "c", "d"}, Count: 4},
			{Activities: []string{"b", "c", "e"}, Count: 4},
		},
		"parallel": {
			{Activities: []string{"a", "c", "e", "g"}, Count: 2},
			{Activities: []string{"a", "e", "c", "g"}, Count: 3},
			{Activities: []string{"b", "d", "f", "g"}, Count: 2},
			{Activities: []string{"b", "f", "d", "g"}, Count: 4},
		},
		"loop": {
			{Activities: []string{"a", "b", "a", "b"}, Count: 5},
			{Activities: []string{"a", "c"}, Count: 2},
		},
	}
}

// CannedNames lists the canned log names.
func CannedNames() []string {
	names := make([]string, 0)
	for name := range Canned() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
