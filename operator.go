package dspager

import "fmt"

// Comparison defines how a filtered column is compared with the filter value.
type Comparison string

const (
	ComparisonEqual        Comparison = "="
	ComparisonNotEqual     Comparison = "<>"
	ComparisonGreaterThan  Comparison = ">"
	ComparisonLessThan     Comparison = "<"
	ComparisonGreaterEqual Comparison = ">="
	ComparisonLessEqual    Comparison = "<="
	ComparisonLike         Comparison = "LIKE"
	ComparisonNotLike      Comparison = "NOT LIKE"
)

func (c Comparison) Valid() bool {
	switch c {
	case ComparisonEqual, ComparisonNotEqual,
		ComparisonGreaterThan, ComparisonLessThan,
		ComparisonGreaterEqual, ComparisonLessEqual,
		ComparisonLike, ComparisonNotLike:
		return true
	default:
		return false
	}
}

// GroupOperator tells how a filter combines with the other filters of the
// same source.
//
// All GroupAND filters must match. When at least one GroupANY filter exists,
// one of them must match as well.
type GroupOperator string

const (
	GroupAND GroupOperator = "AND"
	GroupANY GroupOperator = "ANY"
)

func (g GroupOperator) Valid() bool {
	return g == GroupAND || g == GroupANY
}

func validateFilterOperators(comparison Comparison, group GroupOperator) error {
	if !comparison.Valid() {
		return fmt.Errorf("%w: invalid filter comparison '%s'", ErrDomain, comparison)
	}

	if !group.Valid() {
		return fmt.Errorf("%w: invalid filter group operator '%s'", ErrDomain, group)
	}

	return nil
}
