package dspager

import (
	"fmt"
	"iter"

	"github.com/samber/lo"
)

// Pager paginates any DataSource. It adjusts the offset and limit of its own
// copy of the source and answers the questions a pager interface needs:
// which page is current, whether to link the previous or the next page, and
// which page numbers to show.
//
//	pager, err := dspager.NewPager(src, 25)
//	pager.SetPage(2)
//	for _, row := range dspager.Rows(pager.DataSource()) {
//	    ...
//	}
//
// Most of the time only a bounded number of page links is displayed around
// the current page, which is what SetPageLimit is for:
//
//	pager.SetPage(4)
//	pager.SetPageLimit(5)
//	for _, page := range pager.Window() {
//	    ...                                 // 2 3 [4] 5 6
//	}
//
// A Pager is not safe for concurrent use.
type Pager[T any] struct {
	source     DataSource[T]
	maxPerPage int

	page    int
	pageSet bool

	pageLimit int

	recordCount      int
	recordCountValid bool
	err              error

	pages  []int
	cursor int
}

// NewPager returns a pager over a clone of source, so the caller's source is
// never modified. maxPerPage is the maximum number of rows per page, see
// SetMaxPerPage.
func NewPager[T any](source DataSource[T], maxPerPage int) (*Pager[T], error) {
	if source == nil {
		return nil, fmt.Errorf("%w: data source is nil", ErrInvalidArgument)
	}

	p := &Pager[T]{
		source: source.Clone(),
	}

	if err := p.SetMaxPerPage(maxPerPage); err != nil {
		return nil, err
	}

	return p, nil
}

// SetMaxPerPage adjusts the maximum number of rows per page. With NoLimit
// all rows are rendered on one page. It must be called before the current
// page is set or read.
func (p *Pager[T]) SetMaxPerPage(amount int) error {
	if amount < 0 {
		return fmt.Errorf("%w: the maximum amount of records per page (%d) must be 0 or greater", ErrDomain, amount)
	}

	if p.pageSet {
		return fmt.Errorf("%w: the maximum amount of records per page cannot change once the current page is set", ErrLogic)
	}

	if err := p.source.SetLimit(amount); err != nil {
		return err
	}
	p.maxPerPage = amount

	return nil
}

// MaxPerPage returns the maximum number of rows per page.
func (p *Pager[T]) MaxPerPage() int {
	return p.maxPerPage
}

// DataSource returns the pager's data source, positioned on the rows of
// the current page.
func (p *Pager[T]) DataSource() DataSource[T] {
	if p.source.Offset() != p.FirstIndex() {
		if err := p.source.SetOffset(p.FirstIndex()); err != nil {
			p.fail(err)
		}
	}

	return p.source
}

// RecordCount returns the total number of rows of the data source. It is
// fetched once and cached for the lifetime of the pager.
func (p *Pager[T]) RecordCount() (int, error) {
	if !p.recordCountValid {
		count, err := p.source.CountAll()
		if err != nil {
			return 0, err
		}

		p.recordCount = count
		p.recordCountValid = true
	}

	return p.recordCount, nil
}

// recordCountOrZero treats a failing count as an empty source and records
// the failure for Err.
func (p *Pager[T]) recordCountOrZero() int {
	count, err := p.RecordCount()
	if err != nil {
		p.fail(err)
		return 0
	}

	return count
}

// Err returns the first failure met while counting or positioning the data
// source.
func (p *Pager[T]) Err() error {
	return p.err
}

func (p *Pager[T]) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// PageCount returns the number of pages. It is always at least 1, and
// exactly 1 when the page size is NoLimit or the source is empty.
func (p *Pager[T]) PageCount() int {
	count := p.recordCountOrZero()
	if p.maxPerPage == NoLimit || count == 0 {
		return 1
	}

	return (count + p.maxPerPage - 1) / p.maxPerPage
}

// HasToPaginate reports whether the rows span more than one page.
func (p *Pager[T]) HasToPaginate() bool {
	return p.PageCount() > 1
}

// SetPage sets the current page. Values outside of [1, PageCount()] are
// clamped when the page is read.
func (p *Pager[T]) SetPage(page int) {
	p.page = page
	p.pageSet = true
}

// Page returns the current page, 1 if none has been set. The first page is
// 1. Out of range values set with SetPage are clamped and stored clamped.
func (p *Pager[T]) Page() int {
	if !p.pageSet {
		p.page = 1
		p.pageSet = true
	} else {
		p.page = lo.Clamp(p.page, 1, p.PageCount())
	}

	return p.page
}

// FirstIndex returns the zero based index of the first row of the current page.
func (p *Pager[T]) FirstIndex() int {
	return (p.Page() - 1) * p.maxPerPage
}

// LastIndex returns min(page*maxPerPage, recordCount) - 1. It is -1 for an
// empty source and, since NoLimit is 0, for an unlimited pager.
func (p *Pager[T]) LastIndex() int {
	return min(p.Page()*p.maxPerPage, p.recordCountOrZero()) - 1
}

// FirstPage always returns 1.
func (p *Pager[T]) FirstPage() int {
	return 1
}

// PreviousPage returns the previous page, or the first page if there is none.
func (p *Pager[T]) PreviousPage() int {
	return max(p.Page()-1, p.FirstPage())
}

// NextPage returns the next page, or the last page if there is none.
func (p *Pager[T]) NextPage() int {
	return min(p.Page()+1, p.LastPage())
}

// LastPage returns the last page, equal to the first page when there is only one.
func (p *Pager[T]) LastPage() int {
	return p.PageCount()
}

// HasFirstPage reports whether a link to the first page should be rendered:
// the previous page exists and is not the first page (current page >= 3).
func (p *Pager[T]) HasFirstPage() bool {
	return p.HasPreviousPage() && p.PreviousPage() != p.FirstPage()
}

// HasPreviousPage reports whether the current page is not the first page.
func (p *Pager[T]) HasPreviousPage() bool {
	return !p.IsCurrentPage(p.FirstPage())
}

// HasNextPage reports whether the current page is not the last page.
func (p *Pager[T]) HasNextPage() bool {
	return !p.IsCurrentPage(p.LastPage())
}

// HasLastPage reports whether a link to the last page should be rendered:
// the next page exists and is not the last page (current page <= last - 2).
func (p *Pager[T]) HasLastPage() bool {
	return p.HasNextPage() && p.NextPage() != p.LastPage()
}

// IsCurrentPage reports whether page is the current page.
func (p *Pager[T]) IsCurrentPage(page int) bool {
	return p.Page() == page
}

// SetPageLimit sets the maximum number of page numbers in the window. With
// NoLimit every page is part of the window.
func (p *Pager[T]) SetPageLimit(limit int) error {
	if limit < 0 {
		return fmt.Errorf("%w: the page limit (%d) must be 0 or greater", ErrDomain, limit)
	}

	p.pageLimit = limit

	return nil
}

// PageLimit returns the page limit, NoLimit by default.
func (p *Pager[T]) PageLimit() int {
	return p.pageLimit
}

// Pages returns the window of page numbers to display for the current page.
func (p *Pager[T]) Pages() []int {
	return pageWindow(p.Page(), p.pageLimit, p.PageCount())
}

// Rewind recomputes the window from the current page and page limit and
// moves the window cursor to its first page.
func (p *Pager[T]) Rewind() {
	p.cursor = 0
	p.pages = p.Pages()
}

// Next advances the window cursor.
func (p *Pager[T]) Next() {
	p.cursor++
}

// Key returns the window cursor. The first page of the window always has
// key 0, whatever its page number is.
func (p *Pager[T]) Key() int {
	return p.cursor
}

// Valid reports whether the window cursor points at a page of the window.
func (p *Pager[T]) Valid() bool {
	return p.cursor >= 0 && p.cursor < len(p.pages)
}

// Current returns the page number under the window cursor, 0 if the cursor
// is not valid.
func (p *Pager[T]) Current() int {
	if !p.Valid() {
		return 0
	}

	return p.pages[p.cursor]
}

// Window rewinds the window and yields its keys and page numbers.
func (p *Pager[T]) Window() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for p.Rewind(); p.Valid(); p.Next() {
			if !yield(p.Key(), p.Current()) {
				return
			}
		}
	}
}

// pageWindow returns the contiguous page numbers to display: pageLimit
// pages centered on page, or every page when pageLimit is NoLimit. Even
// limits put one more page before the current page than after it. The
// window is shifted to stay within [1, pageCount].
func pageWindow(page, pageLimit, pageCount int) []int {
	if pageLimit == NoLimit || pageLimit >= pageCount {
		return lo.RangeFrom(1, pageCount)
	}

	start := max(page-pageLimit/2, 1)
	if start+pageLimit-1 > pageCount {
		start = pageCount - pageLimit + 1
	}

	return lo.RangeFrom(start, pageLimit)
}
