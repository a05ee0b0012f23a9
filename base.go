package dspager

import (
	"errors"
	"fmt"
)

// Base carries the row pointer, offset and limit bookkeeping shared by all
// data sources. Backends embed it and implement the remaining methods of
// DataSource.
type Base struct {
	cursor int
	offset int
	limit  int
	err    error
}

// Key - implements DataSource.
func (b *Base) Key() int {
	return b.cursor
}

// Rewind - implements DataSource.
func (b *Base) Rewind() {
	b.cursor = 0
}

// Next - implements DataSource.
func (b *Base) Next() {
	b.cursor++
}

// SetOffset - implements DataSource.
func (b *Base) SetOffset(offset int) error {
	if offset < 0 {
		return fmt.Errorf("%w: the record offset (%d) must be 0 or greater", ErrDomain, offset)
	}

	b.offset = offset

	return nil
}

// Offset returns the value set by SetOffset, 0 by default.
func (b *Base) Offset() int {
	return b.offset
}

// SetLimit - implements DataSource.
func (b *Base) SetLimit(limit int) error {
	if limit < 0 {
		return fmt.Errorf("%w: the record limit (%d) must be 0 or greater", ErrDomain, limit)
	}

	b.limit = limit

	return nil
}

// Limit returns the value set by SetLimit, 0 (no limit) by default.
func (b *Base) Limit() int {
	return b.limit
}

// SetField - implements DataSource.
func (b *Base) SetField(string, any) error {
	return fmt.Errorf("%w: cannot modify data source fields (read-only)", ErrLogic)
}

// UnsetField - implements DataSource.
func (b *Base) UnsetField(string) error {
	return fmt.Errorf("%w: cannot unset data source fields (read-only)", ErrLogic)
}

// Err - implements DataSource.
func (b *Base) Err() error {
	return b.err
}

// Fail records the first backend failure reported later by Err.
func (b *Base) Fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// ValidWithin reports whether the row pointer is below count.
func (b *Base) ValidWithin(count int) bool {
	return b.cursor >= 0 && b.cursor < count
}

// SeekWithin moves the row pointer to index if it lies in [0, count).
func (b *Base) SeekWithin(index, count int) error {
	if index < 0 || index >= count {
		return fmt.Errorf("%w: the result with index %d does not exist", ErrOutOfRange, index)
	}

	b.cursor = index

	return nil
}

// errCursor is returned by field accessors when the row pointer is invalid.
func (b *Base) errCursor() error {
	return fmt.Errorf("%w: the result with index %d does not exist", ErrOutOfRange, b.cursor)
}

type columnRequirer interface {
	RequireColumn(column string) error
}

type sortable interface {
	columnRequirer
	Rewind()
}

// SortWith validates the direction and the column, runs the backend
// specific doSort strategy and rewinds src.
func SortWith(src sortable, column string, direction Direction, doSort func(column string, direction Direction) error) error {
	if !direction.Valid() {
		return invalidDirectionError(direction)
	}

	if err := src.RequireColumn(column); err != nil {
		return err
	}

	if err := doSort(column, direction); err != nil {
		return err
	}

	src.Rewind()

	return nil
}

// FilterWith validates the comparison, the group operator and the column
// before handing the filter to the backend specific doFilter strategy.
func FilterWith(
	src columnRequirer,
	filter Filter,
	doFilter func(filter Filter) error,
) error {
	if err := validateFilterOperators(filter.Comparison, filter.Group); err != nil {
		return err
	}

	if err := src.RequireColumn(filter.Column); err != nil {
		return err
	}

	return doFilter(filter.prepared())
}

type fieldChecker interface {
	columnRequirer
	Valid() bool
	Key() int
}

// HasFieldOf reports whether column exists in the current row of src. It
// fails with ErrOutOfRange when the row pointer is invalid and returns false
// for columns rejected by RequireColumn.
func HasFieldOf(src fieldChecker, column string) (bool, error) {
	if !src.Valid() {
		return false, fmt.Errorf("%w: the result with index %d does not exist", ErrOutOfRange, src.Key())
	}

	err := src.RequireColumn(column)
	if errors.Is(err, ErrLogic) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	return true, nil
}
