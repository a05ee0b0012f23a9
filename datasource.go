package dspager

import "iter"

// Filterable narrows the rows of a data source.
type Filterable interface {
	// AddFilter accumulates the predicate "column comparison value". The
	// column must be accepted by the source, group tells how the predicate
	// combines with the other filters (see GroupOperator).
	AddFilter(column string, value any, comparison Comparison, group GroupOperator) error
}

// DataSource reads a two-dimensional (rows × columns) data source in a
// uniform way, whatever the backend is.
//
// The iteration primitives walk the rows visible under the current offset
// and limit:
//
//	for src.Rewind(); src.Valid(); src.Next() {
//	    name, err := src.Field("name")
//	    ...
//	}
//	if err := src.Err(); err != nil {
//	    ...
//	}
//
// Current always returns the row in the backend's own format (a Row for
// ArraySource, the model for GORMSource). Field gives column access
// independent of that format.
//
// A DataSource is not safe for concurrent use.
type DataSource[T any] interface {
	Filterable

	// Rewind resets the row pointer to the first visible row.
	Rewind()
	// Next advances the row pointer by one.
	Next()
	// Key returns the row pointer. The first visible row always has key 0,
	// independent of the offset.
	Key() int
	// Valid reports whether the row pointer points at a visible row. A
	// backend failure makes Valid return false; Err reports it.
	Valid() bool
	// Seek moves the row pointer to index, which must be in [0, Count()).
	Seek(index int) error
	// Current returns the row under the row pointer.
	Current() (T, error)

	// Field returns the value of column in the current row.
	Field(column string) (any, error)
	// HasField reports whether column can be read from the current row.
	HasField(column string) (bool, error)
	// SetField always fails: data sources are read-only.
	SetField(column string, value any) error
	// UnsetField always fails: data sources are read-only.
	UnsetField(column string) error

	// SetSort sorts the rows by column. The new column becomes the primary
	// sort key, columns sorted by earlier stay as tie-breakers.
	SetSort(column string, direction Direction) error
	// SetOffset sets the number of leading rows to skip. 0 skips nothing.
	SetOffset(offset int) error
	Offset() int
	// SetLimit sets the maximum number of visible rows. 0 means no limit.
	SetLimit(limit int) error
	Limit() int

	// Count returns the number of rows visible under the offset and limit.
	Count() (int, error)
	// CountAll returns the total number of rows, ignoring offset and limit.
	CountAll() (int, error)

	// RequireColumn fails with ErrLogic if column cannot be returned by the source.
	RequireColumn(column string) error

	// Err returns the first backend failure met by Valid.
	Err() error

	// Clone returns an independent copy of the source's logical state.
	// Mutating the copy never affects the original.
	Clone() DataSource[T]
}

// Rows rewinds src and yields every visible row with its key. Iteration stops
// at the first failing row; check src.Err afterwards.
func Rows[T any](src DataSource[T]) iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for src.Rewind(); src.Valid(); src.Next() {
			row, err := src.Current()
			if err != nil {
				return
			}

			if !yield(src.Key(), row) {
				return
			}
		}
	}
}

// visibleCount applies offset and limit to total.
//
//	limit == 0 → total - offset
//	limit  > 0 → min(limit, total - offset)
//
// The result is never negative.
func visibleCount(total, offset, limit int) int {
	count := max(total-offset, 0)
	if limit == NoLimit {
		return count
	}

	return min(limit, count)
}
