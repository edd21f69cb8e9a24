package discovery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procflow/procflow/internal/model"
)

func TestDiscoverGolden(t *testing.T) {
	res, err := DiscoverEvents(context.Background(), logEvents(goldenCases()), Options{})
	require.NoError(t, err)

	assert.Equal(t, 6, res.Traces.TotalCases)
	assert.Equal(t, []string{"a"}, res.Initial.Sorted())
	assert.Equal(t, []string{"d"}, res.Final.Sorted())
	assert.Len(t, res.DirectlyFollows, 10)
	assert.Len(t, res.IndependentSets, 8)
	assert.Len(t, res.Transitions, 11)

	expected := []string{
		"{a} --> {b,e}",
		"{a} --> {c,e}",
		"{b} || {c}",
		"{b,e} --> {d}",
		"{c,e} --> {d}",
	}
	assert.Equal(t, expected, transitionKeys(res.Maximal))
}

// The pipeline is a pure function: same log in, identical artifacts out.
func TestDiscoverIdempotent(t *testing.T) {
	events := logEvents(goldenCases())
	first, err := DiscoverEvents(context.Background(), events, Options{Parallelism: 2})
	require.NoError(t, err)
	second, err := DiscoverEvents(context.Background(), events, Options{Parallelism: 2})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDiscoverEmptyInput(t *testing.T) {
	res, err := DiscoverEvents(context.Background(), nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Traces.TotalCases)
	assert.Empty(t, res.Initial)
	assert.Empty(t, res.Final)
	assert.Empty(t, res.DirectlyFollows)
	assert.Empty(t, res.IndependentSets)
	assert.Empty(t, res.Maximal)
}

func TestDiscoverMinFrequencyPrunes(t *testing.T) {
	res, err := DiscoverEvents(context.Background(), logEvents(goldenCases()), Options{MinFrequency: 0.3})
	require.NoError(t, err)

	// The rare path through e falls below the threshold, so e vanishes
	// from every derived artifact.
	assert.Len(t, res.Traces.Traces, 2)
	assert.Equal(t, []string{"a", "b", "c", "d"}, res.Footprint.Activities)
	for _, tr := range res.Maximal {
		assert.NotContains(t, tr.Inputs, "e")
		assert.NotContains(t, tr.Outputs, "e")
	}
}

func TestDiscoverActivityCeiling(t *testing.T) {
	_, err := DiscoverEvents(context.Background(), logEvents(goldenCases()), Options{MaxActivities: 3})
	var tme *TooManyActivitiesError
	require.ErrorAs(t, err, &tme)
	assert.Equal(t, 5, tme.Count)
	assert.Equal(t, 3, tme.Limit)
}

func TestDiscoverSelfLoop(t *testing.T) {
	events := logEvents([][]string{{"a", "a", "b"}})
	res, err := DiscoverEvents(context.Background(), events, Options{})
	require.NoError(t, err)

	assert.Equal(t, RelationParallel, res.Footprint.Relation("a", "a"))
	assert.Equal(t, [][]string{{"a"}, {"b"}}, res.IndependentSets)
	require.Len(t, res.Maximal, 1)
	assert.Equal(t, "{a} --> {b}", transitionKey(res.Maximal[0]))
}

func TestDiscoverRejectsNonPositiveTraceCounts(t *testing.T) {
	td := &TraceDictionary{
		Traces:     []Trace{{Activities: []string{"a", "b"}, Count: -1}},
		TotalCases: 1,
	}
	_, err := Discover(context.Background(), td, Options{})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, -1, ve.Count)
}

func TestDiscoverEventsRejectsReservedLabels(t *testing.T) {
	events := []model.Event{{CaseID: "c1", Activity: model.StartLabel}}
	_, err := DiscoverEvents(context.Background(), events, Options{})
	var rle *ReservedLabelError
	assert.ErrorAs(t, err, &rle)
}
