// Package usecase contains the charter availability search logic.
// It fans operator scrapes out concurrently and merges, filters and sorts the results.
package usecase

import "github.com/charter-search/charter-availability/internal/domain"

// SearchOptions contains optional parameters applied to a search's merged results.
type SearchOptions struct {
	// Filters narrows the results; zero value keeps everything
	Filters domain.FilterCriteria

	// Sort orders the results; an empty key keeps merge order
	Sort domain.SortSpec
}

// DefaultSearchOptions returns SearchOptions with no filters, cheapest first.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{Sort: domain.DefaultSortSpec()}
}

// Validate checks filter and sort values.
func (o SearchOptions) Validate() error {
	if err := o.Filters.Validate(); err != nil {
		return err
	}
	return o.Sort.Validate()
}
