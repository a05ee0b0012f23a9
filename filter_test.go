package dspager

import (
	"errors"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

func Test_Filters_Match(t *testing.T) {
	row := Row{"id": 3, "name": "Fabien", "created_at": time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}
	field := func(column string) (any, error) {
		return row[column], nil
	}

	tests := []struct {
		name    string
		filters Filters
		want    bool
	}{
		{"no filters", nil, true},
		{
			"all AND filters match",
			Filters{
				{Column: "id", Value: 2, Comparison: ComparisonGreaterThan, Group: GroupAND},
				{Column: "name", Value: "Fab%", Comparison: ComparisonLike, Group: GroupAND},
			},
			true,
		},
		{
			"one AND filter fails",
			Filters{
				{Column: "id", Value: 2, Comparison: ComparisonGreaterThan, Group: GroupAND},
				{Column: "name", Value: "Kris", Comparison: ComparisonEqual, Group: GroupAND},
			},
			false,
		},
		{
			"one ANY filter is enough",
			Filters{
				{Column: "name", Value: "Kris", Comparison: ComparisonEqual, Group: GroupANY},
				{Column: "id", Value: 3, Comparison: ComparisonEqual, Group: GroupANY},
			},
			true,
		},
		{
			"no ANY filter matches",
			Filters{
				{Column: "id", Value: 3, Comparison: ComparisonEqual, Group: GroupAND},
				{Column: "name", Value: "Kris", Comparison: ComparisonEqual, Group: GroupANY},
			},
			false,
		},
		{
			"textual number compares numerically",
			Filters{
				{Column: "id", Value: "10", Comparison: ComparisonLessThan, Group: GroupAND},
				{Column: "id", Value: " 3 ", Comparison: ComparisonEqual, Group: GroupAND},
			},
			true,
		},
		{
			"time column compares with textual time",
			Filters{
				{Column: "created_at", Value: "2024-01-01T00:00:00Z", Comparison: ComparisonGreaterThan, Group: GroupAND},
			},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.filters.Match(field)
			require.NoError(t, err)
			if got != tt.want {
				t.Errorf("%s: got %v want %v", tt.name, got, tt.want)
			}
		})
	}
}

func Test_Filter_match_coercion(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		value  any
		want   bool
	}{
		{"int column", Filter{Comparison: ComparisonGreaterThan, Value: "10"}, 11, true},
		{"int column lower", Filter{Comparison: ComparisonGreaterThan, Value: "10"}, 9, false},
		{"int column with fraction", Filter{Comparison: ComparisonLessThan, Value: "9.5"}, 9, true},
		{"uint column", Filter{Comparison: ComparisonEqual, Value: "7"}, uint8(7), true},
		{"float column", Filter{Comparison: ComparisonGreaterEqual, Value: "2.5"}, 2.5, true},
		{"bool column", Filter{Comparison: ComparisonEqual, Value: "true"}, true, true},
		{"pointer column", Filter{Comparison: ComparisonEqual, Value: "5"}, lo.ToPtr(5), true},
		{"not a number stays text", Filter{Comparison: ComparisonEqual, Value: "ten"}, 10, false},
		{"string column is untouched", Filter{Comparison: ComparisonLessThan, Value: "10"}, "9", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.match(tt.value); got != tt.want {
				t.Errorf("%s: got %v want %v", tt.name, got, tt.want)
			}
		})
	}
}

func Test_Filter_prepared(t *testing.T) {
	like := Filter{Column: "name", Value: "Fab%", Comparison: ComparisonLike, Group: GroupAND}.prepared()
	require.NotNil(t, like.like)
	require.True(t, like.match("Fabien"))
	require.False(t, like.match("Kris"))
	require.False(t, like.match(nil))

	notLike := Filter{Column: "name", Value: "Fab%", Comparison: ComparisonNotLike, Group: GroupAND}.prepared()
	require.NotNil(t, notLike.like)
	require.False(t, notLike.match("Fabien"))
	require.True(t, notLike.match("Kris"))

	equal := Filter{Column: "name", Value: "Fab%", Comparison: ComparisonEqual, Group: GroupAND}.prepared()
	require.Nil(t, equal.like)
}

func Test_Filters_Match_fieldError(t *testing.T) {
	errField := errors.New("no such field")
	filters := Filters{{Column: "id", Value: 1, Comparison: ComparisonEqual, Group: GroupAND}}

	_, err := filters.Match(func(string) (any, error) { return nil, errField })
	require.ErrorIs(t, err, errField)
}

func Test_Filter_toGORMExpression(t *testing.T) {
	timeNow := time.Now().UTC()
	timeNowStr, _ := timeNow.MarshalText()
	column := clause.Column{Table: clause.CurrentTable, Name: "created_at"}

	tests := []struct {
		name   string
		filter Filter
		want   clause.Expression
	}{
		{
			name:   "equal",
			filter: Filter{Comparison: ComparisonEqual, Value: 1},
			want:   clause.Eq{Column: column, Value: 1},
		},
		{
			name:   "not equal",
			filter: Filter{Comparison: ComparisonNotEqual, Value: 1},
			want:   clause.Neq{Column: column, Value: 1},
		},
		{
			name:   "timestamp greater than",
			filter: Filter{Comparison: ComparisonGreaterThan, Value: timeNow},
			want:   clause.Gt{Column: column, Value: timeNow},
		},
		{
			name:   "timestamp string should convert to timestamp",
			filter: Filter{Comparison: ComparisonGreaterEqual, Value: timeNowStr},
			want:   clause.Gte{Column: column, Value: timeNow},
		},
		{
			name:   "less than",
			filter: Filter{Comparison: ComparisonLessThan, Value: 10},
			want:   clause.Lt{Column: column, Value: 10},
		},
		{
			name:   "less or equal",
			filter: Filter{Comparison: ComparisonLessEqual, Value: 10},
			want:   clause.Lte{Column: column, Value: 10},
		},
		{
			name:   "like",
			filter: Filter{Comparison: ComparisonLike, Value: "2024%"},
			want:   clause.Like{Column: column, Value: "2024%"},
		},
		{
			name:   "not like",
			filter: Filter{Comparison: ComparisonNotLike, Value: "2024%"},
			want:   clause.Expr{SQL: "? NOT LIKE ?", Vars: []any{column, "2024%"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.filter.toGORMExpression(column))
		})
	}
}

func Test_Filters_toGORMExpression(t *testing.T) {
	resolve := func(column string) (clause.Column, error) {
		return clause.Column{Table: clause.CurrentTable, Name: column}, nil
	}
	col := func(name string) clause.Column {
		return clause.Column{Table: clause.CurrentTable, Name: name}
	}

	tests := []struct {
		name    string
		filters Filters
		want    clause.Expression
	}{
		{
			name:    "empty",
			filters: Filters{},
			want:    nil,
		},
		{
			name:    "single AND filter",
			filters: Filters{{Column: "id", Value: 5, Comparison: ComparisonGreaterThan, Group: GroupAND}},
			want:    clause.Gt{Column: col("id"), Value: 5},
		},
		{
			name:    "single ANY filter",
			filters: Filters{{Column: "id", Value: 5, Comparison: ComparisonGreaterThan, Group: GroupANY}},
			want:    clause.Gt{Column: col("id"), Value: 5},
		},
		{
			name: "AND filters followed by ANY group",
			filters: Filters{
				{Column: "name", Value: "Kris", Comparison: ComparisonEqual, Group: GroupANY},
				{Column: "id", Value: 5, Comparison: ComparisonGreaterThan, Group: GroupAND},
				{Column: "name", Value: "Fabien", Comparison: ComparisonEqual, Group: GroupANY},
			},
			want: clause.And(
				clause.Gt{Column: col("id"), Value: 5},
				clause.Or(
					clause.Eq{Column: col("name"), Value: "Kris"},
					clause.Eq{Column: col("name"), Value: "Fabien"},
				),
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.filters.toGORMExpression(resolve)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
