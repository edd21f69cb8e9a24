package discovery

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// IndependentSets enumerates every subset (size >= 1) of the real
// activities whose pairwise relations are all independent. Parallel pairs
// do not qualify even though they are concurrent colloquially. Non-maximal
// subsets are included: downstream transition discovery needs the complete
// candidate list, not just maximal sets.
//
// The enumeration is a backtracking search: a candidate set only grows by
// activities independent from all current members, so invalid subsets are
// pruned without ever being materialized. Output order is deterministic
// (depth-first over the sorted activity list).
//
// parallelism > 1 splits the search across first-element branches; each
// branch is fully independent, so workers share nothing. Zero or one runs
// sequentially.
func IndependentSets(ctx context.Context, m *FootprintMatrix, parallelism int) ([][]string, error) {
	acts := m.Activities
	if len(acts) == 0 {
		return nil, nil
	}

	if parallelism <= 1 || len(acts) < 2 {
		return enumerateFrom(ctx, m, acts, -1)
	}

	branches := make([][][]string, len(acts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i := range acts {
		i := i
		g.Go(func() error {
			sets, err := enumerateFrom(gctx, m, acts, i)
			if err != nil {
				return err
			}
			branches[i] = sets
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out [][]string
	for _, b := range branches {
		out = append(out, b...)
	}
	return out, nil
}

// enumerateFrom runs the backtracking search. root < 0 searches every
// branch; otherwise only subsets whose first element is acts[root].
func enumerateFrom(ctx context.Context, m *FootprintMatrix, acts []string, root int) ([][]string, error) {
	var out [][]string
	cur := make([]string, 0, len(acts))

	var extend func(start int) error
	extend = func(start int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i := start; i < len(acts); i++ {
			if !independentOfAll(m, cur, acts[i]) {
				continue
			}
			cur = append(cur, acts[i])
			out = append(out, append([]string(nil), cur...))
			if err := extend(i + 1); err != nil {
				return err
			}
			cur = cur[:len(cur)-1]
		}
		return nil
	}

	if root < 0 {
		if err := extend(0); err != nil {
			return nil, err
		}
		return out, nil
	}

	cur = append(cur, acts[root])
	out = append(out, []string{acts[root]})
	if err := extend(root + 1); err != nil {
		return nil, err
	}
	return out, nil
}

// independentOfAll reports whether candidate relates to every member of
// cur by the independent symbol. Singleton candidates pass trivially; the
// diagonal is never consulted, so a self-looping activity still forms
// singletons.
func independentOfAll(m *FootprintMatrix, cur []string, candidate string) bool {
	for _, a := range cur {
		if m.Relation(a, candidate) != RelationIndependent || m.Relation(candidate, a) != RelationIndependent {
			return false
		}
	}
	return true
}
