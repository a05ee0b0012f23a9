package dspager

import (
	"fmt"
	"slices"
)

// RawPager is intended for API payloads. For proper code generation, inline it:
//
//	type MyFilter struct {
//	    Paging RawPager `json:",inline"`
//	}
type RawPager struct {
	// Page - requested page, the first page is 1.
	Page int `json:"page"`
	// PerPage - maximum number of records per page. Normalized with NormalizeLimit.
	PerPage int `json:"perPage"`
	// PageLimit - maximum number of page links to return, 0 for all.
	PageLimit int `json:"pageLimit"`
	// Sort - orderings in the "alias asc|desc" format, the first one is the
	// primary sort key.
	Sort []string `json:"sort"`
}

// DecodePager builds a pager over source from raw. Sort aliases are
// resolved through columnMapping. The caller's source is left untouched.
func DecodePager[T any](raw RawPager, source DataSource[T], columnMapping ColumnMapping) (*Pager[T], error) {
	orderings, err := ParseSort(raw.Sort, columnMapping)
	if err != nil {
		return nil, fmt.Errorf("cannot decode pager: %w", err)
	}

	p, err := NewPager(source, NormalizeLimit(raw.PerPage))
	if err != nil {
		return nil, fmt.Errorf("cannot decode pager: %w", err)
	}

	// SetSort makes the latest column the primary one.
	for _, ordering := range slices.Backward(orderings) {
		if err = p.source.SetSort(ordering.Column, ordering.Direction); err != nil {
			return nil, fmt.Errorf("cannot decode pager: %w", err)
		}
	}

	if err = p.SetPageLimit(raw.PageLimit); err != nil {
		return nil, fmt.Errorf("cannot decode pager: %w", err)
	}

	p.SetPage(raw.Page)

	return p, nil
}
