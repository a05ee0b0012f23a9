package dspager

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// tFilterRecorder records the filters it receives.
type tFilterRecorder struct {
	filters Filters
	err     error
}

func (r *tFilterRecorder) AddFilter(column string, value any, comparison Comparison, group GroupOperator) error {
	if r.err != nil {
		return r.err
	}

	r.filters = append(r.filters, Filter{Column: column, Value: value, Comparison: comparison, Group: group})

	return nil
}

func Test_AggregatedFiltering_AddFilter(t *testing.T) {
	first := newTestArraySource(t)
	second := newTestArraySource(t)
	recorder := &tFilterRecorder{}

	a := NewAggregatedFiltering(first, second)
	a.AddDataSource(recorder)
	require.Equal(t, []Filterable{first, second, recorder}, a.DataSources())

	require.NoError(t, a.AddFilter("name", "Fab%", ComparisonLike, GroupAND))

	require.Equal(t, []any{1, 4}, collectColumn(t, first, "id"))
	require.Equal(t, []any{1, 4}, collectColumn(t, second, "id"))
	require.Equal(
		t,
		Filters{{Column: "name", Value: "Fab%", Comparison: ComparisonLike, Group: GroupAND}},
		recorder.filters,
	)
}

func Test_AggregatedFiltering_AddFilter_failFast(t *testing.T) {
	first := &tFilterRecorder{}
	second := newTestArraySource(t)
	third := &tFilterRecorder{}

	a := NewAggregatedFiltering(first, second, third)

	err := a.AddFilter("surname", "Kris", ComparisonEqual, GroupAND)
	require.ErrorIs(t, err, ErrLogic)
	require.ErrorContains(t, err, "data source #1")

	require.Len(t, first.filters, 1, "sources before the failing one keep the filter")
	require.Empty(t, third.filters, "sources after the failing one are not reached")
}

func Test_AggregatedFiltering_nested(t *testing.T) {
	recorder := &tFilterRecorder{}
	a := NewAggregatedFiltering(NewAggregatedFiltering(recorder))

	require.NoError(t, a.AddFilter("id", 1, ComparisonEqual, GroupANY))
	require.Len(t, recorder.filters, 1)

	empty := NewAggregatedFiltering()
	require.NoError(t, empty.AddFilter("id", 1, ComparisonEqual, GroupAND))
	require.Empty(t, empty.DataSources())
}
