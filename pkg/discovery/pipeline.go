package discovery

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/procflow/procflow/internal/model"
)

// DefaultMaxActivities is the soft ceiling on distinct activities.
// Independent-set enumeration is exponential in the activity count, so
// beyond roughly this many the algorithm stops being applicable.
const DefaultMaxActivities = 25

// Options control a discovery run.
type Options struct {
	// MinFrequency prunes traces below this frequency (0..1) before the
	// derived stages run. Zero keeps everything.
	MinFrequency float64

	// MaxActivities caps the distinct-activity count fed to enumeration.
	// Zero means DefaultMaxActivities.
	MaxActivities int

	// Parallelism is the worker count for independent-set enumeration.
	// Zero or one runs sequentially.
	Parallelism int
}

// Result carries every artifact of a discovery run, in the shape the
// rendering and export surfaces consume.
type Result struct {
	Traces          *TraceDictionary
	Initial         ActivitySet
	Final           ActivitySet
	DirectlyFollows DirectlyFollowsRelation
	Footprint       *FootprintMatrix
	IndependentSets [][]string
	Transitions     []Transition
	Maximal         []Transition
}

var tracer = otel.Tracer("github.com/procflow/procflow/pkg/discovery")

// Discover runs the full pipeline over an aggregated trace dictionary.
// An empty dictionary degrades to empty artifacts, never an error.
func Discover(ctx context.Context, td *TraceDictionary, opts Options) (*Result, error) {
	ctx, span := tracer.Start(ctx, "discovery.Discover")
	defer span.End()
	span.SetAttributes(
		attribute.Int("traces.distinct", len(td.Traces)),
		attribute.Int("traces.cases", td.TotalCases),
	)

	td = td.FilterByFrequency(opts.MinFrequency)

	initial, final := Boundaries(td)

	df, err := DirectlyFollows(td, initial, final)
	if err != nil {
		return nil, err
	}

	fp := Footprint(df)

	limit := opts.MaxActivities
	if limit <= 0 {
		limit = DefaultMaxActivities
	}
	if len(fp.Activities) > limit {
		return nil, &TooManyActivitiesError{Count: len(fp.Activities), Limit: limit}
	}

	sets, err := IndependentSets(ctx, fp, opts.Parallelism)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("activities", len(fp.Activities)),
		attribute.Int("independent_sets", len(sets)),
	)

	ts := Transitions(fp, sets)
	maximal := MaximalTransitions(ts)
	span.SetAttributes(
		attribute.Int("transitions", len(ts)),
		attribute.Int("transitions.maximal", len(maximal)),
	)

	return &Result{
		Traces:          td,
		Initial:         initial,
		Final:           final,
		DirectlyFollows: df,
		Footprint:       fp,
		IndependentSets: sets,
		Transitions:     ts,
		Maximal:         maximal,
	}, nil
}

// DiscoverEvents aggregates raw events and runs Discover.
func DiscoverEvents(ctx context.Context, events []model.Event, opts Options) (*Result, error) {
	td, err := Aggregate(events)
	if err != nil {
		return nil, err
	}
	return Discover(ctx, td, opts)
}
