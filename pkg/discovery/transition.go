package discovery

// Transition is a candidate model transition from every activity in
// Inputs to every activity in Outputs. Relation is RelationCausal or
// RelationParallel after orientation normalization.
type Transition struct {
	Inputs   []string
	Outputs  []string
	Relation Relation
}

// Transitions discovers valid transitions between independent sets. For
// every unordered pair of distinct sets the cross-relation is computed
// over all (a in A, b in B) pairs; only a uniform causal or parallel
// symbol yields a transition, and a uniform backward symbol is recorded
// reversed as causal. Mixed symbols yield nothing. A set is never paired
// with itself.
//
// Relations between a single activity and a set reduce to the same code
// path: a singleton is just a one-element set.
func Transitions(m *FootprintMatrix, sets [][]string) []Transition {
	var out []Transition
	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			rel, uniform := crossRelation(m, sets[i], sets[j])
			if !uniform {
				continue
			}
			switch rel {
			case RelationCausal, RelationParallel:
				out = append(out, Transition{Inputs: sets[i], Outputs: sets[j], Relation: rel})
			case RelationCausalRev:
				out = append(out, Transition{Inputs: sets[j], Outputs: sets[i], Relation: RelationCausal})
			}
		}
	}
	return out
}

// crossRelation returns the single relation symbol shared by every cross
// pair of the two sets, or false when the symbols disagree.
func crossRelation(m *FootprintMatrix, setA, setB []string) (Relation, bool) {
	var rel Relation
	first := true
	for _, a := range setA {
		for _, b := range setB {
			r := m.Relation(a, b)
			if first {
				rel = r
				first = false
				continue
			}
			if r != rel {
				return 0, false
			}
		}
	}
	return rel, !first
}
