// Package http provides the HTTP handler layer for the charter availability API.
// It handles request parsing, validation, and response formatting.
package http

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charter-search/charter-availability/internal/domain"
)

// SearchChartersRequest represents the request body for a charter availability search.
type SearchChartersRequest struct {
	// Origin is the IATA code of the departure airport (e.g., "MIA")
	Origin string `json:"origin" example:"MIA"`

	// Destination is the IATA code of the arrival airport (e.g., "HAV")
	Destination string `json:"destination" example:"HAV"`

	// DepartureDate is the outbound travel date in YYYY-MM-DD format
	DepartureDate string `json:"departureDate" example:"2026-03-01"`

	// ReturnDate is the inbound travel date for round trips (optional)
	ReturnDate string `json:"returnDate,omitempty" example:"2026-03-08"`

	// Passengers is the party size, 1-9 (default: 1)
	Passengers int `json:"passengers,omitempty" example:"2"`

	// TripType is oneway or roundtrip (default: oneway)
	TripType string `json:"tripType,omitempty" example:"oneway"`

	// Operators restricts the search to these operator ids (optional)
	Operators []string `json:"operators,omitempty" example:"xael"`

	// Filters contains optional filtering criteria
	Filters *FilterDTO `json:"filters,omitempty"`

	// Sort specifies how to order results
	Sort *SortDTO `json:"sort,omitempty"`
}

// FilterDTO represents optional filters for a charter search.
// Example: {"operator": "xael", "maxPrice": 400, "departureTime": "morning", "status": "AVAILABLE"}
type FilterDTO struct {
	// Operator keeps only results of this charter
	Operator string `json:"operator,omitempty" example:"xael"`

	// MaxPrice keeps results whose regular total, tax included, is at most this amount
	MaxPrice *float64 `json:"maxPrice,omitempty" example:"400"`

	// DepartureTime keeps results departing in this part of the day: morning, afternoon, evening
	DepartureTime string `json:"departureTime,omitempty" example:"morning"`

	// Status keeps results with this availability: AVAILABLE, LIMITED, SOLD_OUT
	Status string `json:"status,omitempty" example:"AVAILABLE"`
}

// SortDTO represents the result ordering.
type SortDTO struct {
	// Key is one of: price, departure, availability, charter
	Key string `json:"key" example:"price"`

	// Direction is asc or desc (default: asc)
	Direction string `json:"direction,omitempty" example:"asc"`
}

// Validation regex patterns.
var (
	airportCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)
	datePattern        = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Valid trip types.
var validTripTypes = map[string]bool{
	string(domain.TripOneWay):    true,
	string(domain.TripRoundTrip): true,
	"":                           true, // Empty is valid (defaults to oneway)
}

// ValidationError represents a field-level validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors holds multiple validation errors.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return "validation failed"
	}
	return v.Errors[0].Message
}

// Add adds a validation error.
func (v *ValidationErrors) Add(field, message string) {
	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// ToMap converts validation errors to a map for API response.
func (v *ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string, len(v.Errors))
	for _, e := range v.Errors {
		result[e.Field] = e.Message
	}
	return result
}

// Validate validates the search request and returns any validation errors.
// Airport codes, trip type and enum filters are normalized in place.
func (r *SearchChartersRequest) Validate() error {
	errs := &ValidationErrors{}

	r.Origin = validateAirport(errs, "origin", r.Origin)
	r.Destination = validateAirport(errs, "destination", r.Destination)

	// Check origin != destination
	if r.Origin != "" && r.Destination != "" && r.Origin == r.Destination {
		errs.Add("destination", "origin and destination must be different")
	}

	departure, departureOK := validateDate(errs, "departureDate", r.DepartureDate, true)

	r.validatePassengers(errs)
	r.validateTrip(errs, departure, departureOK)
	r.validateOperators(errs)
	r.validateFilters(errs)
	r.validateSort(errs)

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func validateAirport(errs *ValidationErrors, field, value string) string {
	code := strings.ToUpper(strings.TrimSpace(value))
	if code == "" {
		errs.Add(field, field+" is required")
		return ""
	}
	if !airportCodePattern.MatchString(code) {
		errs.Add(field, field+" must be a valid 3-letter IATA airport code")
		return code
	}
	return code
}

func validateDate(errs *ValidationErrors, field, value string, required bool) (time.Time, bool) {
	if value == "" {
		if required {
			errs.Add(field, field+" is required")
		}
		return time.Time{}, false
	}

	if !datePattern.MatchString(value) {
		errs.Add(field, field+" must be in YYYY-MM-DD format")
		return time.Time{}, false
	}

	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		errs.Add(field, field+" is not a valid date")
		return time.Time{}, false
	}
	return t, true
}

func (r *SearchChartersRequest) validatePassengers(errs *ValidationErrors) {
	if r.Passengers < 0 {
		errs.Add("passengers", "passengers must be at least 1")
		return
	}
	if r.Passengers > domain.MaxPassengers {
		errs.Add("passengers", fmt.Sprintf("passengers cannot exceed %d", domain.MaxPassengers))
	}
}

func (r *SearchChartersRequest) validateTrip(errs *ValidationErrors, departure time.Time, departureOK bool) {
	r.TripType = strings.ToLower(strings.TrimSpace(r.TripType))
	if !validTripTypes[r.TripType] {
		errs.Add("tripType", "tripType must be one of: oneway, roundtrip")
		return
	}

	if r.ReturnDate == "" {
		return
	}
	if r.TripType != string(domain.TripRoundTrip) {
		errs.Add("returnDate", "returnDate is only allowed for roundtrip searches")
		return
	}

	ret, ok := validateDate(errs, "returnDate", r.ReturnDate, false)
	if ok && departureOK && ret.Before(departure) {
		errs.Add("returnDate", "returnDate must not be before departureDate")
	}
}

func (r *SearchChartersRequest) validateOperators(errs *ValidationErrors) {
	for i, id := range r.Operators {
		id = strings.TrimSpace(id)
		if id == "" {
			errs.Add(fmt.Sprintf("operators[%d]", i), "operator id must not be empty")
		}
		r.Operators[i] = id
	}
}

func (r *SearchChartersRequest) validateFilters(errs *ValidationErrors) {
	if r.Filters == nil {
		return
	}
	f := r.Filters

	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		errs.Add("filters.maxPrice", "maxPrice must not be negative")
	}

	f.DepartureTime = strings.ToLower(strings.TrimSpace(f.DepartureTime))
	if f.DepartureTime != "" && !domain.TimeOfDay(f.DepartureTime).IsValid() {
		errs.Add("filters.departureTime", "departureTime must be one of: morning, afternoon, evening")
	}

	f.Status = strings.ToUpper(strings.TrimSpace(f.Status))
	if f.Status != "" && !domain.Status(f.Status).IsValid() {
		errs.Add("filters.status", "status must be one of: AVAILABLE, LIMITED, SOLD_OUT")
	}

	f.Operator = strings.TrimSpace(f.Operator)
}

func (r *SearchChartersRequest) validateSort(errs *ValidationErrors) {
	if r.Sort == nil {
		return
	}
	s := r.Sort

	s.Key = strings.ToLower(strings.TrimSpace(s.Key))
	if s.Key != "" && !domain.SortKey(s.Key).IsValid() {
		errs.Add("sort.key", "sort key must be one of: price, departure, availability, charter")
	}

	s.Direction = strings.ToLower(strings.TrimSpace(s.Direction))
	if s.Direction != "" && !domain.SortDirection(s.Direction).IsValid() {
		errs.Add("sort.direction", "sort direction must be one of: asc, desc")
	}
}
