package usecase

import (
	"cmp"
	"sort"
	"strings"

	"github.com/charter-search/charter-availability/internal/domain"
)

// ApplySort returns a sorted copy of items. Equal keys keep their original relative
// order in both directions: descending inverts the comparison instead of reversing
// the ascending result. Items without a readable key stay last in either direction.
// An empty key returns a copy in the original order.
func ApplySort(items []domain.ResultItem, spec domain.SortSpec) []domain.ResultItem {
	result := make([]domain.ResultItem, len(items))
	copy(result, items)

	if len(result) <= 1 || spec.Key == "" {
		return result
	}

	compare := comparatorFor(spec.Key)
	unkeyed := unkeyedFor(spec.Key)
	desc := spec.Descending()
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if ua, ub := unkeyed(a), unkeyed(b); ua || ub {
			return !ua && ub
		}
		if desc {
			return compare(b, a) < 0
		}
		return compare(a, b) < 0
	})
	return result
}

// Query filters then sorts. The order is fixed: sorting a filtered list is not the
// same as filtering a sorted one when the sort is only partial.
func Query(items []domain.ResultItem, criteria domain.FilterCriteria, spec domain.SortSpec) []domain.ResultItem {
	return ApplySort(ApplyFilters(items, criteria), spec)
}

type comparator func(a, b domain.ResultItem) int

// unkeyedFor reports which items have no value for key.
func unkeyedFor(key domain.SortKey) func(domain.ResultItem) bool {
	if key == domain.SortByDeparture {
		return func(item domain.ResultItem) bool {
			_, ok := item.Availability.DepartureMinutes()
			return !ok
		}
	}
	return func(domain.ResultItem) bool { return false }
}

func comparatorFor(key domain.SortKey) comparator {
	switch key {
	case domain.SortByDeparture:
		return compareDeparture
	case domain.SortByAvailability:
		return compareAvailability
	case domain.SortByCharter:
		return compareCharter
	default:
		return comparePrice
	}
}

func comparePrice(a, b domain.ResultItem) int {
	return cmp.Compare(a.Availability.Pricing.Regular.Total, b.Availability.Pricing.Regular.Total)
}

func compareAvailability(a, b domain.ResultItem) int {
	return cmp.Compare(a.Availability.SeatsAvailable, b.Availability.SeatsAvailable)
}

// compareDeparture orders by time of day.
func compareDeparture(a, b domain.ResultItem) int {
	am, _ := a.Availability.DepartureMinutes()
	bm, _ := b.Availability.DepartureMinutes()
	return cmp.Compare(am, bm)
}

func compareCharter(a, b domain.ResultItem) int {
	return strings.Compare(strings.ToLower(a.Charter.Title), strings.ToLower(b.Charter.Title))
}
