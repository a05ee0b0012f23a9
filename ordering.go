package dspager

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
)

// Direction defines the sort direction for the requested dataset.
type Direction string

const (
	DirectionASC  Direction = "ASC"
	DirectionDESC Direction = "DESC"
)

func (o Direction) Valid() bool {
	return o == DirectionASC || o == DirectionDESC
}

// ParseDirection accepts "asc" and "desc" in any letter case.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", invalidDirectionError(Direction(s))
	}

	return d, nil
}

// invalidDirectionError is both a domain error and an invalid argument:
// callers may check either kind.
func invalidDirectionError(d Direction) error {
	return fmt.Errorf(
		"%w: %w: the value '%s' is no valid sort order, should be %s or %s",
		ErrDomain, ErrInvalidArgument, d, DirectionASC, DirectionDESC,
	)
}

type (
	Orderings []OrderBy
	OrderBy   struct {
		Column    string
		Direction Direction
	}

	ColumnAlias = string

	// ColumnMapping maps external column aliases to data source columns.
	// Key is an external alias, value is a column accepted by the source's
	// RequireColumn, e.g. "author" -> "Author.name".
	ColumnMapping = map[ColumnAlias]string
)

var _availableColumnNameSymbols = append([]rune("_.'`\""), lo.AlphanumericCharset...)

func (o OrderBy) validate() error {
	if !o.Direction.Valid() {
		return invalidDirectionError(o.Direction)
	}

	if o.Column == "" {
		return fmt.Errorf("%w: empty ordering column", ErrLogic)
	}

	// Guard against SQL injection by restricting allowed characters in column names.
	if !lo.Every(_availableColumnNameSymbols, []rune(o.Column)) {
		return fmt.Errorf("%w: ordering column name contains forbidden symbols '%s'", ErrLogic, o.Column)
	}

	return nil
}

func (o Orderings) validate() error {
	var err error
	for _, ordering := range o {
		err = ordering.validate()
		if err != nil {
			return err
		}
	}

	return nil
}

// With returns orderings where ordering becomes the primary sort key and
// earlier orderings stay as tie-breakers. A previous occurrence of the same
// column is dropped.
//
// Example: [{"a", ASC}, {"b", DESC}].With({"b", ASC}) returns [{"b", ASC}, {"a", ASC}].
func (o Orderings) With(ordering OrderBy) Orderings {
	ret := make(Orderings, 0, len(o)+1)
	ret = append(ret, ordering)
	ret = append(ret, lo.Filter(o, func(processed OrderBy, _ int) bool {
		return processed.Column != ordering.Column
	})...)

	return ret
}

// String returns "<column_1> <direction_1>, <column_2> <direction_2>".
func (o Orderings) String() string {
	return strings.Join(lo.Map(o, func(ordering OrderBy, _ int) string {
		return fmt.Sprintf("%s %s", ordering.Column, ordering.Direction)
	}), ", ")
}

// ParseSort builds Orderings from a list of strings in the format
// "column asc|desc". Column aliases are resolved via ColumnMapping.
// Returns an error if an alias is not found in the mapping.
func ParseSort(stringsOrderings []string, columnMapping ColumnMapping) (Orderings, error) {
	ret := make([]OrderBy, 0, len(stringsOrderings))
	aliases := lo.Keys(columnMapping)

	for _, stringOrdering := range stringsOrderings {
		cutStringOrdering := strings.Fields(stringOrdering)
		if len(cutStringOrdering) != 2 {
			return nil, fmt.Errorf("%w: invalid ordering string format '%s'", ErrInvalidArgument, stringOrdering)
		}

		columnAlias := cutStringOrdering[0]
		direction, err := ParseDirection(cutStringOrdering[1])
		if err != nil {
			return nil, err
		}

		columnName := columnMapping[columnAlias]
		if columnName == "" {
			return nil, fmt.Errorf("%w: invalid column alias. closest: '%s'", ErrLogic, closestAlias(columnAlias, aliases))
		}

		ret = append(ret, OrderBy{
			Column:    columnName,
			Direction: direction,
		})
	}

	if err := Orderings(ret).validate(); err != nil {
		return nil, err
	}

	return ret, nil
}

func closestAlias(input ColumnAlias, dataSet []ColumnAlias) ColumnAlias {
	minDist := math.MaxInt
	closest := ""

	for _, dataSetAlias := range dataSet {
		dist := levenshtein([]rune(dataSetAlias), []rune(input))
		if dist < minDist || (dist == minDist && dataSetAlias < closest) {
			minDist = dist
			closest = dataSetAlias
		}
	}

	return closest
}
