package usecase

import (
	"strings"

	"github.com/charter-search/charter-availability/internal/domain"
)

// ApplyFilters returns the items matching every present criterion, in their original order.
//
// Behavior:
//   - Returns items unchanged when criteria is empty
//   - Absent criteria impose no constraint
//   - Does NOT mutate the input slice
//   - Price is compared on the regular fare total, tax included
//
// Example usage:
//
//	maxPrice := 300.0
//	kept := ApplyFilters(items, domain.FilterCriteria{MaxPrice: &maxPrice, Status: domain.StatusAvailable})
func ApplyFilters(items []domain.ResultItem, criteria domain.FilterCriteria) []domain.ResultItem {
	if criteria.IsEmpty() {
		return items
	}

	result := make([]domain.ResultItem, 0, len(items))
	for _, item := range items {
		if criteria.Matches(item) {
			result = append(result, item)
		}
	}
	return result
}

// FilterByOperator keeps items offered by operatorID, compared case-insensitively.
// Returns all items if operatorID is empty.
func FilterByOperator(items []domain.ResultItem, operatorID string) []domain.ResultItem {
	if operatorID == "" {
		return items
	}
	return keep(items, func(item domain.ResultItem) bool {
		return strings.EqualFold(item.Charter.ID, operatorID)
	})
}

// FilterByMaxPrice keeps items whose regular total is at most maxPrice.
// Returns all items if maxPrice is nil.
func FilterByMaxPrice(items []domain.ResultItem, maxPrice *float64) []domain.ResultItem {
	if maxPrice == nil {
		return items
	}
	return keep(items, func(item domain.ResultItem) bool {
		return item.Availability.Pricing.Regular.Total <= *maxPrice
	})
}

// FilterByStatus keeps items with the given seat status.
// Returns all items if status is empty.
func FilterByStatus(items []domain.ResultItem, status domain.Status) []domain.ResultItem {
	if status == "" {
		return items
	}
	return keep(items, func(item domain.ResultItem) bool {
		return item.Availability.Status == status
	})
}

// FilterByDepartureTime keeps items departing in the given part of the day.
// Items whose departure time could not be read never match.
func FilterByDepartureTime(items []domain.ResultItem, bucket domain.TimeOfDay) []domain.ResultItem {
	if bucket == "" {
		return items
	}
	return keep(items, func(item domain.ResultItem) bool {
		return bucket.Contains(item.Availability.Schedule.Departure)
	})
}

// ExcludeSoldOut drops items with no seats left.
func ExcludeSoldOut(items []domain.ResultItem) []domain.ResultItem {
	return keep(items, func(item domain.ResultItem) bool {
		return item.Availability.Status != domain.StatusSoldOut
	})
}

func keep(items []domain.ResultItem, pred func(domain.ResultItem) bool) []domain.ResultItem {
	result := make([]domain.ResultItem, 0, len(items))
	for _, item := range items {
		if pred(item) {
			result = append(result, item)
		}
	}
	return result
}
