package domain

import (
	"fmt"
	"strings"
)

// TimeOfDay buckets a departure time.
type TimeOfDay string

const (
	// Morning covers departures from 00:00 to 11:59
	Morning TimeOfDay = "morning"

	// Afternoon covers departures from 12:00 to 16:59
	Afternoon TimeOfDay = "afternoon"

	// Evening covers departures from 17:00 to 23:59
	Evening TimeOfDay = "evening"
)

const (
	afternoonStart = 12 * 60
	eveningStart   = 17 * 60
)

// IsValid reports whether t is a known bucket.
func (t TimeOfDay) IsValid() bool {
	switch t {
	case Morning, Afternoon, Evening:
		return true
	}
	return false
}

// Contains reports whether a clock time falls into the bucket.
// Unparsable clock text belongs to no bucket.
func (t TimeOfDay) Contains(clock string) bool {
	minutes, ok := ClockMinutes(clock)
	if !ok {
		return false
	}
	switch t {
	case Morning:
		return minutes < afternoonStart
	case Afternoon:
		return minutes >= afternoonStart && minutes < eveningStart
	case Evening:
		return minutes >= eveningStart
	}
	return false
}

// FilterCriteria narrows a result set. Zero-valued fields impose no constraint.
type FilterCriteria struct {
	// OperatorID keeps only results of this charter
	OperatorID string `json:"operator,omitempty"`

	// MaxPrice keeps results whose regular total is at most this amount
	MaxPrice *float64 `json:"maxPrice,omitempty"`

	// DepartureTime keeps results departing in this bucket
	DepartureTime TimeOfDay `json:"departureTime,omitempty"`

	// Status keeps results with exactly this status
	Status Status `json:"status,omitempty"`
}

// IsEmpty reports whether no criterion is set.
func (c FilterCriteria) IsEmpty() bool {
	return c.OperatorID == "" && c.MaxPrice == nil && c.DepartureTime == "" && c.Status == ""
}

// Validate checks enum membership of the criteria.
func (c FilterCriteria) Validate() error {
	if c.DepartureTime != "" && !c.DepartureTime.IsValid() {
		return fmt.Errorf("%w: departureTime must be one of: morning, afternoon, evening; got %q", ErrInvalidRequest, c.DepartureTime)
	}
	if c.Status != "" && !c.Status.IsValid() {
		return fmt.Errorf("%w: status must be one of: AVAILABLE, LIMITED, SOLD_OUT; got %q", ErrInvalidRequest, c.Status)
	}
	if c.MaxPrice != nil && *c.MaxPrice < 0 {
		return fmt.Errorf("%w: maxPrice must not be negative", ErrInvalidRequest)
	}
	return nil
}

// Matches reports whether a result item satisfies every present criterion.
func (c FilterCriteria) Matches(item ResultItem) bool {
	if c.OperatorID != "" && !strings.EqualFold(item.Charter.ID, c.OperatorID) {
		return false
	}
	if c.MaxPrice != nil && item.Availability.Pricing.Regular.Total > *c.MaxPrice {
		return false
	}
	if c.DepartureTime != "" && !c.DepartureTime.Contains(item.Availability.Schedule.Departure) {
		return false
	}
	if c.Status != "" && item.Availability.Status != c.Status {
		return false
	}
	return true
}

// SortKey selects the field results are ordered by.
type SortKey string

const (
	SortByPrice        SortKey = "price"
	SortByDeparture    SortKey = "departure"
	SortByAvailability SortKey = "availability"
	SortByCharter      SortKey = "charter"
)

// IsValid reports whether k is a known sort key.
func (k SortKey) IsValid() bool {
	switch k {
	case SortByPrice, SortByDeparture, SortByAvailability, SortByCharter:
		return true
	}
	return false
}

// SortDirection is ascending or descending.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// IsValid reports whether d is a known direction.
func (d SortDirection) IsValid() bool {
	return d == Ascending || d == Descending
}

// SortSpec describes how to order a result set. An empty key leaves order untouched.
type SortSpec struct {
	Key       SortKey       `json:"key,omitempty"`
	Direction SortDirection `json:"direction,omitempty"`
}

// DefaultSortSpec orders by price, cheapest first.
func DefaultSortSpec() SortSpec {
	return SortSpec{Key: SortByPrice, Direction: Ascending}
}

// Validate checks enum membership of the sort spec.
func (s SortSpec) Validate() error {
	if s.Key != "" && !s.Key.IsValid() {
		return fmt.Errorf("%w: sort key must be one of: price, departure, availability, charter; got %q", ErrInvalidRequest, s.Key)
	}
	if s.Direction != "" && !s.Direction.IsValid() {
		return fmt.Errorf("%w: sort direction must be one of: asc, desc; got %q", ErrInvalidRequest, s.Direction)
	}
	return nil
}

// Descending reports whether the sort orders largest first.
func (s SortSpec) Descending() bool {
	return s.Direction == Descending
}
