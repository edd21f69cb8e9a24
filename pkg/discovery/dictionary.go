// Package discovery implements Alpha Miner process discovery over event
// logs: trace aggregation, directly-follows counting, footprint
// classification, independent-set enumeration, transition discovery and
// maximal-set filtering. Every stage is a pure function of its input; the
// whole pipeline recomputes from scratch on each run.
package discovery

import (
	"sort"
	"strings"

	"github.com/procflow/procflow/internal/model"
)

// traceSep joins activity labels into map keys. Unit separator cannot
// appear in sane activity names.
const traceSep = "\x1f"

// Trace is one distinct case execution order together with how often it
// was observed across the whole log.
type Trace struct {
	Activities []string
	Count      int
	// Frequency is Count divided by the total number of cases (not the
	// number of distinct traces).
	Frequency float64
}

// Key returns the canonical map key for the trace's activity sequence.
func (t Trace) Key() string {
	return strings.Join(t.Activities, traceSep)
}

// TraceDictionary maps each distinct trace to its observation count and
// frequency. Traces are kept in deterministic order: descending count,
// then lexicographic sequence.
type TraceDictionary struct {
	Traces     []Trace
	TotalCases int
}

// Aggregate groups events by case, orders each case by timestamp (stable,
// so equal timestamps keep record order) and collapses identical
// sequences. Activities colliding with the reserved start/end labels are
// rejected before anything else runs.
func Aggregate(events []model.Event) (*TraceDictionary, error) {
	for i := range events {
		if model.Reserved(events[i].Activity) {
			return nil, &ReservedLabelError{CaseID: events[i].CaseID, Activity: events[i].Activity}
		}
	}

	byCase := make(map[string][]model.Event)
	caseOrder := make([]string, 0)
	for _, ev := range events {
		if _, seen := byCase[ev.CaseID]; !seen {
			caseOrder = append(caseOrder, ev.CaseID)
		}
		byCase[ev.CaseID] = append(byCase[ev.CaseID], ev)
	}

	counts := make(map[string]int)
	sequences := make(map[string][]string)
	for _, id := range caseOrder {
		group := byCase[id]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Timestamp < group[j].Timestamp
		})
		seq := make([]string, len(group))
		for i, ev := range group {
			seq[i] = ev.Activity
		}
		key := strings.Join(seq, traceSep)
		counts[key]++
		sequences[key] = seq
	}

	td := &TraceDictionary{TotalCases: len(caseOrder)}
	for key, n := range counts {
		td.Traces = append(td.Traces, Trace{
			Activities: sequences[key],
			Count:      n,
			Frequency:  float64(n) / float64(len(caseOrder)),
		})
	}
	td.sort()
	return td, nil
}

// FilterByFrequency returns a new dictionary containing only traces whose
// frequency is at least min. Counts and frequencies are kept as observed;
// the threshold prunes, it does not renormalize.
func (td *TraceDictionary) FilterByFrequency(min float64) *TraceDictionary {
	if min <= 0 {
		return td
	}
	out := &TraceDictionary{TotalCases: td.TotalCases}
	for _, t := range td.Traces {
		if t.Frequency >= min {
			out.Traces = append(out.Traces, t)
		}
	}
	return out
}

// Activities returns every distinct activity label in the dictionary,
// sorted.
func (td *TraceDictionary) Activities() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range td.Traces {
		for _, a := range t.Activities {
			if !seen[a] {
				seen[a] = true
				out = append(out, a)
			}
		}
	}
	sort.Strings(out)
	return out
}

func (td *TraceDictionary) sort() {
	sort.Slice(td.Traces, func(i, j int) bool {
		if td.Traces[i].Count != td.Traces[j].Count {
			return td.Traces[i].Count > td.Traces[j].Count
		}
		return td.Traces[i].Key() < td.Traces[j].Key()
	})
}
