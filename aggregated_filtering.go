package dspager

import "fmt"

// AggregatedFiltering broadcasts filters to several data sources at once,
// e.g. a listing and the sidebar counting the same rows. It is Filterable
// itself, so aggregations nest.
type AggregatedFiltering struct {
	sources []Filterable
}

var _ Filterable = (*AggregatedFiltering)(nil)

// NewAggregatedFiltering returns an AggregatedFiltering broadcasting to
// sources, in the given order.
func NewAggregatedFiltering(sources ...Filterable) *AggregatedFiltering {
	a := &AggregatedFiltering{}
	for _, source := range sources {
		a.AddDataSource(source)
	}

	return a
}

// AddDataSource registers source. Filters added earlier are not replayed.
func (a *AggregatedFiltering) AddDataSource(source Filterable) {
	a.sources = append(a.sources, source)
}

// DataSources returns the registered sources in registration order.
func (a *AggregatedFiltering) DataSources() []Filterable {
	return a.sources
}

// AddFilter forwards the filter to every registered source in registration
// order. It stops at the first failing source; sources before it keep the
// filter.
func (a *AggregatedFiltering) AddFilter(column string, value any, comparison Comparison, group GroupOperator) error {
	for i, source := range a.sources {
		if err := source.AddFilter(column, value, comparison, group); err != nil {
			return fmt.Errorf("data source #%d: %w", i, err)
		}
	}

	return nil
}
