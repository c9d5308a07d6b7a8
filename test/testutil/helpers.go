// Package testutil provides test helper functions for unit and integration tests.
package testutil

import (
	"testing"
	"time"

	"github.com/charter-search/charter-availability/internal/domain"
)

// MustParseDate parses a date string in YYYY-MM-DD format.
// It fails the test if parsing fails.
func MustParseDate(t *testing.T, dateStr string) time.Time {
	t.Helper()
	parsed, err := time.Parse(domain.DateLayout, dateStr)
	if err != nil {
		t.Fatalf("Failed to parse date %s: %v", dateStr, err)
	}
	return parsed
}

// FutureDate returns a date string days from now in YYYY-MM-DD format.
func FutureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format(domain.DateLayout)
}

// Ptr returns a pointer to the given value.
// Useful for creating pointers to literals in tests.
func Ptr[T any](v T) *T {
	return &v
}

// FloatPtr returns a pointer to a float64.
// Convenience function for max price filter tests.
func FloatPtr(f float64) *float64 {
	return &f
}

// Flight builds a normalized availability row with a status derived from seats.
// The date is left empty; sources stamp it from the query.
func Flight(number, departure string, base float64, seats int) domain.FlightAvailability {
	return domain.FlightAvailability{
		SeatsTotal:     domain.DefaultSeatsTotal,
		SeatsAvailable: seats,
		Status:         domain.DeriveStatus(seats),
		Schedule:       domain.Schedule{FlightNumber: number, Departure: departure, Arrival: departure},
		Pricing:        domain.Pricing{Regular: domain.NewPriceTier(base)},
	}
}

// WithFirstClass adds a first class tier to f.
func WithFirstClass(f domain.FlightAvailability, base float64) domain.FlightAvailability {
	tier := domain.NewPriceTier(base)
	f.Pricing.FirstClass = &tier
	return f
}

// Operator builds an operator with placeholder credentials.
func Operator(id, title string) domain.Operator {
	return domain.Operator{
		ID:          id,
		DisplayName: title,
		Credentials: domain.OperatorCredentials{OperatorID: id, Username: id + "-agent", Secret: "secret-" + id},
	}
}

// Registry builds an in-memory directory from operators built by Operator.
// ids alternate id and title: Registry("xael", "XAEL Charters", "cubazul", "Cubazul").
func Registry(idsAndTitles ...string) *domain.OperatorRegistry {
	reg := domain.NewOperatorRegistry()
	for i := 0; i+1 < len(idsAndTitles); i += 2 {
		reg.Register(Operator(idsAndTitles[i], idsAndTitles[i+1]))
	}
	return reg
}
