package discovery

// coverage returns the activity cross-pairs a transition covers: the
// Cartesian product of its input and output sets.
func (t Transition) coverage() []Edge {
	out := make([]Edge, 0, len(t.Inputs)*len(t.Outputs))
	for _, a := range t.Inputs {
		for _, b := range t.Outputs {
			out = append(out, Edge{a, b})
		}
	}
	return out
}

// MaximalTransitions discards every transition whose cross-pair coverage
// is a strict subset of another transition's coverage. Candidate
// dominators are found through a pair index rather than comparing every
// transition against every other. Transitions with equal coverage are
// both retained.
func MaximalTransitions(ts []Transition) []Transition {
	if len(ts) <= 1 {
		return ts
	}

	covers := make([][]Edge, len(ts))
	bySize := make([]int, len(ts))
	index := make(map[Edge][]int)
	for i, t := range ts {
		covers[i] = t.coverage()
		bySize[i] = len(covers[i])
		for _, p := range covers[i] {
			index[p] = append(index[p], i)
		}
	}

	covered := func(i int, p Edge) bool {
		for _, q := range covers[i] {
			if q == p {
				return true
			}
		}
		return false
	}

	var out []Transition
	for i, t := range ts {
		dominated := false
		// Any dominator must cover the first pair of i, so the index on
		// that pair contains all candidates.
		for _, j := range index[covers[i][0]] {
			if j == i || bySize[j] <= bySize[i] {
				continue
			}
			all := true
			for _, p := range covers[i] {
				if !covered(j, p) {
					all = false
					break
				}
			}
			if all {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, t)
		}
	}
	return out
}
