package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// TripType distinguishes one-way from round-trip searches.
type TripType string

const (
	TripOneWay    TripType = "oneway"
	TripRoundTrip TripType = "roundtrip"
)

// Leg identifies which direction of a trip an availability belongs to.
type Leg string

const (
	LegOutbound Leg = "outbound"
	LegReturn   Leg = "return"
)

// MaxPassengers is the largest party a single search may request.
const MaxPassengers = 9

// SearchParams are the inputs of a multi-operator availability search.
type SearchParams struct {
	// Origin is the IATA code of the departure airport (e.g., "MIA")
	Origin string `json:"origin"`

	// Destination is the IATA code of the arrival airport (e.g., "HAV")
	Destination string `json:"destination"`

	// DepartureDate is the outbound travel date in YYYY-MM-DD format
	DepartureDate string `json:"departureDate"`

	// ReturnDate is the inbound travel date for round trips (optional)
	ReturnDate string `json:"returnDate,omitempty"`

	// Passengers is the party size (default: 1)
	Passengers int `json:"passengers"`

	// TripType is oneway or roundtrip (default: oneway)
	TripType TripType `json:"tripType"`

	// Operators restricts the search to these operator ids; empty means all
	Operators []string `json:"operators,omitempty"`
}

var (
	airportCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)
	dateRegex        = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Normalize upper-cases airport codes and fills optional fields with defaults.
func (s *SearchParams) Normalize() {
	s.Origin = strings.ToUpper(strings.TrimSpace(s.Origin))
	s.Destination = strings.ToUpper(strings.TrimSpace(s.Destination))
	s.DepartureDate = strings.TrimSpace(s.DepartureDate)
	s.ReturnDate = strings.TrimSpace(s.ReturnDate)
	if s.Passengers == 0 {
		s.Passengers = 1
	}
	if s.TripType == "" {
		s.TripType = TripOneWay
	}
	s.TripType = TripType(strings.ToLower(string(s.TripType)))
}

// Validate checks the search parameters.
// Returns a wrapped ErrInvalidRequest error if validation fails.
func (s *SearchParams) Validate() error {
	if s.Origin == "" {
		return fmt.Errorf("%w: origin is required", ErrInvalidRequest)
	}
	if !airportCodeRegex.MatchString(s.Origin) {
		return fmt.Errorf("%w: origin must be a valid 3-letter IATA code, got %q", ErrInvalidRequest, s.Origin)
	}
	if s.Destination == "" {
		return fmt.Errorf("%w: destination is required", ErrInvalidRequest)
	}
	if !airportCodeRegex.MatchString(s.Destination) {
		return fmt.Errorf("%w: destination must be a valid 3-letter IATA code, got %q", ErrInvalidRequest, s.Destination)
	}
	if s.Origin == s.Destination {
		return fmt.Errorf("%w: origin and destination must be different", ErrInvalidRequest)
	}

	departure, err := parseDate("departureDate", s.DepartureDate)
	if err != nil {
		return err
	}

	if s.Passengers < 1 {
		return fmt.Errorf("%w: passengers must be at least 1", ErrInvalidRequest)
	}
	if s.Passengers > MaxPassengers {
		return fmt.Errorf("%w: passengers cannot exceed %d", ErrInvalidRequest, MaxPassengers)
	}

	switch s.TripType {
	case TripOneWay:
		if s.ReturnDate != "" {
			return fmt.Errorf("%w: returnDate is only allowed for roundtrip searches", ErrInvalidRequest)
		}
	case TripRoundTrip:
		if s.ReturnDate != "" {
			ret, err := parseDate("returnDate", s.ReturnDate)
			if err != nil {
				return err
			}
			if ret.Before(departure) {
				return fmt.Errorf("%w: returnDate must not be before departureDate", ErrInvalidRequest)
			}
		}
	default:
		return fmt.Errorf("%w: tripType must be one of: oneway, roundtrip; got %q", ErrInvalidRequest, s.TripType)
	}

	return nil
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", ErrInvalidRequest, field)
	}
	if !dateRegex.MatchString(value) {
		return time.Time{}, fmt.Errorf("%w: %s must be in YYYY-MM-DD format, got %q", ErrInvalidRequest, field, value)
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s is not a valid date: %s", ErrInvalidRequest, field, value)
	}
	return t, nil
}

// AvailabilityQuery is the per-leg query handed to an availability source.
type AvailabilityQuery struct {
	From string
	To   string
	Date string
	Leg  Leg
}

// Queries expands the search into one query per leg.
// A round trip without a return date only searches the outbound leg.
func (s SearchParams) Queries() []AvailabilityQuery {
	queries := []AvailabilityQuery{{
		From: s.Origin,
		To:   s.Destination,
		Date: s.DepartureDate,
		Leg:  LegOutbound,
	}}
	if s.TripType == TripRoundTrip && s.ReturnDate != "" {
		queries = append(queries, AvailabilityQuery{
			From: s.Destination,
			To:   s.Origin,
			Date: s.ReturnDate,
			Leg:  LegReturn,
		})
	}
	return queries
}

// IncludesOperator reports whether the operator id is in scope for this search.
func (s SearchParams) IncludesOperator(id string) bool {
	if len(s.Operators) == 0 {
		return true
	}
	for _, op := range s.Operators {
		if strings.EqualFold(op, id) {
			return true
		}
	}
	return false
}

// CacheKey identifies one scrape: an operator's availability to a destination on a date.
type CacheKey struct {
	OperatorID  string
	Destination string
	Date        string
}

// NewCacheKey builds the cache key for an operator query.
func NewCacheKey(operatorID string, q AvailabilityQuery) CacheKey {
	return CacheKey{OperatorID: operatorID, Destination: q.To, Date: q.Date}
}

// String renders the key as "<operator>-<destination>-<date>".
func (k CacheKey) String() string {
	return k.OperatorID + "-" + k.Destination + "-" + k.Date
}

// CacheEntry is a cached scrape with its insertion time.
type CacheEntry struct {
	Key        string               `json:"key"`
	Value      []FlightAvailability `json:"value"`
	InsertedAt time.Time            `json:"insertedAt"`
}
