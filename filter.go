package dspager

import (
	"fmt"
	"regexp"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm/clause"
)

// Filter is the predicate "Column Comparison Value" combined with the other
// filters of a source according to Group.
type Filter struct {
	Column     string
	Value      any
	Comparison Comparison
	Group      GroupOperator

	like *regexp.Regexp
}

// prepared compiles the LIKE pattern of the filter once, so evaluating it
// against many rows does not recompile it.
func (f Filter) prepared() Filter {
	if f.Comparison == ComparisonLike || f.Comparison == ComparisonNotLike {
		f.like = compileLike(fmt.Sprint(f.Value))
	}

	return f
}

// Filters is the accumulated filter set of a data source.
//
// A row passes when every GroupAND filter matches and, if the set has
// GroupANY filters, at least one of those matches too:
//
//	(A1 AND A2 ... AND An) AND (Y1 OR Y2 ... OR Ym)
type Filters []Filter

func (f Filters) split() (ands, anys Filters) {
	for _, filter := range f {
		if filter.Group == GroupANY {
			anys = append(anys, filter)
		} else {
			ands = append(ands, filter)
		}
	}

	return ands, anys
}

// Match evaluates the filter set against one row. field returns the row's
// value for a column.
func (f Filters) Match(field func(column string) (any, error)) (bool, error) {
	ands, anys := f.split()

	var err error
	fnMatch := func(filter Filter) bool {
		if err != nil {
			return false
		}

		var value any
		value, err = field(filter.Column)
		if err != nil {
			return false
		}

		return filter.match(value)
	}

	ok := lo.EveryBy(ands, fnMatch) && (len(anys) == 0 || lo.SomeBy(anys, fnMatch))
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (f Filter) match(value any) bool {
	if f.like != nil {
		value = indirectValue(value)
		if value == nil {
			return false
		}

		return f.like.MatchString(fmt.Sprint(value)) == (f.Comparison == ComparisonLike)
	}

	return matchComparison(f.Comparison, value, coerceValue(value, f.Value))
}

// toGORMExpression converts the filter into a gorm condition on column.
//
// Example:
//
//	Filter{Column: "name", Comparison: ComparisonLike, Value: "Fab%"}
//
// Result:
//
//	`people`.`name` LIKE ?
func (f Filter) toGORMExpression(column clause.Column) clause.Expression {
	value := parseAnyValue(f.Value)

	switch f.Comparison {
	case ComparisonEqual:
		return clause.Eq{Column: column, Value: value}
	case ComparisonNotEqual:
		return clause.Neq{Column: column, Value: value}
	case ComparisonGreaterThan:
		return clause.Gt{Column: column, Value: value}
	case ComparisonLessThan:
		return clause.Lt{Column: column, Value: value}
	case ComparisonGreaterEqual:
		return clause.Gte{Column: column, Value: value}
	case ComparisonLessEqual:
		return clause.Lte{Column: column, Value: value}
	case ComparisonLike:
		return clause.Like{Column: column, Value: value}
	default:
		return clause.Expr{SQL: "? NOT LIKE ?", Vars: []any{column, value}}
	}
}

// toGORMExpression converts the filter set into a single gorm condition:
// the GroupAND filters joined by AND, followed by the GroupANY filters
// joined by OR. resolve maps a filter column onto a table column.
func (f Filters) toGORMExpression(resolve func(column string) (clause.Column, error)) (clause.Expression, error) {
	ands, anys := f.split()

	andExpressions := make([]clause.Expression, 0, len(ands)+1)
	for _, filter := range ands {
		column, err := resolve(filter.Column)
		if err != nil {
			return nil, err
		}

		andExpressions = append(andExpressions, filter.toGORMExpression(column))
	}

	orExpressions := make([]clause.Expression, 0, len(anys))
	for _, filter := range anys {
		column, err := resolve(filter.Column)
		if err != nil {
			return nil, err
		}

		orExpressions = append(orExpressions, filter.toGORMExpression(column))
	}

	if len(orExpressions) == 1 {
		andExpressions = append(andExpressions, orExpressions[0])
	} else if len(orExpressions) > 1 {
		andExpressions = append(andExpressions, clause.Or(orExpressions...))
	}

	if len(andExpressions) == 1 {
		return andExpressions[0], nil
	} else if len(andExpressions) > 1 {
		return clause.And(andExpressions...), nil
	}

	return nil, nil
}

func parseAnyValue(v any) any {
	// Try parsing a value as time.Time. If it succeeds, return time.Time.
	// Otherwise return the original value.
	fnParseBytesToTimeOrValue := func(vBytes []byte) any {
		dst := time.Time{}
		err := dst.UnmarshalText(vBytes)
		if err == nil {
			return dst
		}

		return v
	}

	switch vt := v.(type) {
	case string:
		return fnParseBytesToTimeOrValue([]byte(vt))
	case []byte:
		return fnParseBytesToTimeOrValue(vt)
	default:
		return v
	}
}
