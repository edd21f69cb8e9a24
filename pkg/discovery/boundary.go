package discovery

import "sort"

// ActivitySet is a set of activity labels.
type ActivitySet map[string]bool

// Has reports membership.
func (s ActivitySet) Has(a string) bool { return s[a] }

// Sorted returns the members in lexicographic order.
func (s ActivitySet) Sorted() []string {
	out := make([]string, 0, len(s))
	for a := range s {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Boundaries returns the activities that start at least one trace and the
// activities that end at least one trace. An empty dictionary yields two
// empty sets.
func Boundaries(td *TraceDictionary) (initial, final ActivitySet) {
	initial = make(ActivitySet)
	final = make(ActivitySet)
	for _, t := range td.Traces {
		if len(t.Activities) == 0 {
			continue
		}
		initial[t.Activities[0]] = true
		final[t.Activities[len(t.Activities)-1]] = true
	}
	return initial, final
}
