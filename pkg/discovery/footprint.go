package discovery

// Relation classifies an ordered activity pair from directly-follows
// observations.
type Relation uint8

const (
	// RelationIndependent: neither direction was observed.
	RelationIndependent Relation = iota

	// RelationCausal: a directly precedes b, never the reverse.
	RelationCausal

	// RelationCausalRev: b directly precedes a, never the reverse.
	RelationCausalRev

	// RelationParallel: both directions were observed. A self-loop also
	// classifies as parallel; the classical algorithm cannot express
	// loops, and that limit is kept rather than papered over with a
	// loop-specific symbol.
	RelationParallel
)

// String returns the conventional footprint notation.
func (r Relation) String() string {
	switch r {
	case RelationCausal:
		return "-->"
	case RelationCausalRev:
		return "<--"
	case RelationParallel:
		return "||"
	default:
		return "#"
	}
}

// FootprintMatrix classifies every ordered pair of real activities.
// Pairs absent from the map are independent.
type FootprintMatrix struct {
	Activities []string
	Relations  map[Edge]Relation
}

// Relation returns the classification for the ordered pair (a, b).
func (m *FootprintMatrix) Relation(a, b string) Relation {
	return m.Relations[Edge{a, b}]
}

// Footprint builds the footprint matrix from directly-follows counts.
// For distinct a, b: both directions observed is parallel, one direction
// is causal in that direction, neither is independent. The diagonal is
// parallel exactly when a self-edge was observed.
func Footprint(df DirectlyFollowsRelation) *FootprintMatrix {
	acts := df.Activities()
	m := &FootprintMatrix{
		Activities: acts,
		Relations:  make(map[Edge]Relation, len(acts)*len(acts)),
	}
	for _, a := range acts {
		for _, b := range acts {
			if a == b {
				if _, selfEdge := df[Edge{a, a}]; selfEdge {
					m.Relations[Edge{a, a}] = RelationParallel
				}
				continue
			}
			_, fwd := df[Edge{a, b}]
			_, bwd := df[Edge{b, a}]
			switch {
			case fwd && bwd:
				m.Relations[Edge{a, b}] = RelationParallel
			case fwd:
				m.Relations[Edge{a, b}] = RelationCausal
			case bwd:
				m.Relations[Edge{a, b}] = RelationCausalRev
			}
		}
	}
	return m
}
