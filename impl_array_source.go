package dspager

import (
	"fmt"
	"maps"
	"slices"

	"github.com/samber/lo"
)

// Row is one record of an ArraySource, keyed by column name.
type Row = map[string]any

// ArraySource implements DataSource for rows kept in memory.
//
// All rows must have the same set of columns:
//
//	// valid
//	[]Row{{"id": 1, "name": "Fabien"}, {"id": 2, "name": "Kris"}}
//
//	// invalid
//	[]Row{{"id": 1, "name": "Fabien"}, {"id": 2, "surname": "Kris"}}
//
// Filtering always starts over from the rows given to NewArraySource and
// re-applies the current sort, so filters and sorts may be added in any
// order.
type ArraySource struct {
	Base

	original []Row
	data     []Row
	columns  []string
	sort     Orderings
	filters  Filters
}

// NewArraySource returns a data source over rows. It fails with
// ErrInvalidArgument if the rows do not share the same columns.
func NewArraySource(rows []Row) (*ArraySource, error) {
	var columns []string
	for i, row := range rows {
		if row == nil {
			return nil, fmt.Errorf("%w: row %d is nil", ErrInvalidArgument, i)
		}

		keys := slices.Sorted(maps.Keys(row))
		if i == 0 {
			columns = keys
		} else if !slices.Equal(columns, keys) {
			return nil, fmt.Errorf("%w: all rows in the source must have the same keys, row %d differs", ErrInvalidArgument, i)
		}
	}

	return &ArraySource{
		original: rows,
		data:     slices.Clone(rows),
		columns:  columns,
	}, nil
}

// Current - implements DataSource. Returns the row under the row pointer.
func (s *ArraySource) Current() (Row, error) {
	if !s.Valid() {
		return nil, s.errCursor()
	}

	return s.data[s.Key()+s.Offset()], nil
}

// Field - implements DataSource.
func (s *ArraySource) Field(column string) (any, error) {
	row, err := s.Current()
	if err != nil {
		return nil, err
	}

	if err = s.RequireColumn(column); err != nil {
		return nil, err
	}

	return row[column], nil
}

// HasField - implements DataSource.
func (s *ArraySource) HasField(column string) (bool, error) {
	return HasFieldOf(s, column)
}

// Valid - implements DataSource.
func (s *ArraySource) Valid() bool {
	return s.ValidWithin(s.count())
}

// Seek - implements DataSource.
func (s *ArraySource) Seek(index int) error {
	return s.SeekWithin(index, s.count())
}

// Count - implements DataSource. If a limit is set, the result is at most
// that limit.
func (s *ArraySource) Count() (int, error) {
	return s.count(), nil
}

func (s *ArraySource) count() int {
	return visibleCount(len(s.data), s.Offset(), s.Limit())
}

// CountAll - implements DataSource. Filters are taken into account, offset
// and limit are not.
func (s *ArraySource) CountAll() (int, error) {
	return len(s.data), nil
}

// RequireColumn - implements DataSource. A source without rows accepts any
// column, since there is no row to base the decision on.
func (s *ArraySource) RequireColumn(column string) error {
	if len(s.original) != 0 && !slices.Contains(s.columns, column) {
		return fmt.Errorf("%w: the column '%s' has not been defined in the data source", ErrLogic, column)
	}

	return nil
}

// Columns returns the column names shared by all rows, sorted.
func (s *ArraySource) Columns() []string {
	return slices.Clone(s.columns)
}

// SetSort - implements DataSource.
func (s *ArraySource) SetSort(column string, direction Direction) error {
	return SortWith(s, column, direction, s.doSort)
}

func (s *ArraySource) doSort(column string, direction Direction) error {
	s.sort = s.sort.With(OrderBy{Column: column, Direction: direction})
	s.applySort()

	return nil
}

func (s *ArraySource) applySort() {
	if len(s.sort) == 0 {
		return
	}

	slices.SortStableFunc(s.data, func(a, b Row) int {
		for _, ordering := range s.sort {
			result := compareValues(a[ordering.Column], b[ordering.Column])
			if result != 0 {
				return lo.Ternary(ordering.Direction == DirectionDESC, -result, result)
			}
		}

		return 0
	})
}

// AddFilter - implements Filterable.
func (s *ArraySource) AddFilter(column string, value any, comparison Comparison, group GroupOperator) error {
	return FilterWith(s, Filter{
		Column:     column,
		Value:      value,
		Comparison: comparison,
		Group:      group,
	}, s.doFilter)
}

func (s *ArraySource) doFilter(filter Filter) error {
	filters := append(slices.Clone(s.filters), filter)

	data := make([]Row, 0, len(s.original))
	for _, row := range s.original {
		ok, err := filters.Match(func(column string) (any, error) {
			return row[column], nil
		})
		if err != nil {
			return err
		}

		if ok {
			data = append(data, row)
		}
	}

	s.filters = filters
	s.data = data
	s.applySort()
	s.Rewind()

	return nil
}

// Clone - implements DataSource. Row maps are shared with the clone, which
// is safe because data sources never modify rows.
func (s *ArraySource) Clone() DataSource[Row] {
	return s.clone()
}

func (s *ArraySource) clone() *ArraySource {
	ret := *s
	ret.data = slices.Clone(s.data)
	ret.columns = slices.Clone(s.columns)
	ret.sort = slices.Clone(s.sort)
	ret.filters = slices.Clone(s.filters)

	return &ret
}

var _ DataSource[Row] = (*ArraySource)(nil)
