package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func item(operator string, departure string, base float64, seats int) ResultItem {
	return ResultItem{
		Charter: CharterSummary{ID: operator, Title: operator},
		Leg:     LegOutbound,
		Availability: FlightAvailability{
			Date:           "2026-03-01",
			SeatsTotal:     10,
			SeatsAvailable: seats,
			Status:         DeriveStatus(seats),
			Schedule:       Schedule{FlightNumber: "XL100", Departure: departure, Arrival: "23:59"},
			Pricing:        Pricing{Regular: NewPriceTier(base)},
		},
	}
}

func TestTimeOfDay_Contains(t *testing.T) {
	tests := []struct {
		bucket TimeOfDay
		clock  string
		want   bool
	}{
		{Morning, "00:00", true},
		{Morning, "11:59", true},
		{Morning, "12:00", false},
		{Afternoon, "12:00", true},
		{Afternoon, "16:59", true},
		{Afternoon, "17:00", false},
		{Evening, "17:00", true},
		{Evening, "23:30", true},
		{Evening, "08:00", false},
		{Morning, "TBA", false},
		{TimeOfDay("night"), "02:00", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.bucket.Contains(tt.clock), "%s %s", tt.bucket, tt.clock)
	}
}

func TestFilterCriteria_Matches(t *testing.T) {
	flight := item("xael", "08:00", 300, 5)

	tests := []struct {
		name     string
		criteria FilterCriteria
		want     bool
	}{
		{name: "empty criteria", criteria: FilterCriteria{}, want: true},
		{name: "operator match ignores case", criteria: FilterCriteria{OperatorID: "XAEL"}, want: true},
		{name: "operator mismatch", criteria: FilterCriteria{OperatorID: "cubazul"}, want: false},
		{name: "max price on total", criteria: FilterCriteria{MaxPrice: ptr(321.75)}, want: true},
		{name: "max price below total", criteria: FilterCriteria{MaxPrice: ptr(310.0)}, want: false},
		{name: "morning", criteria: FilterCriteria{DepartureTime: Morning}, want: true},
		{name: "evening", criteria: FilterCriteria{DepartureTime: Evening}, want: false},
		{name: "status match", criteria: FilterCriteria{Status: StatusAvailable}, want: true},
		{name: "status mismatch", criteria: FilterCriteria{Status: StatusSoldOut}, want: false},
		{name: "all match", criteria: FilterCriteria{OperatorID: "xael", MaxPrice: ptr(400.0), DepartureTime: Morning, Status: StatusAvailable}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.criteria.Matches(flight))
		})
	}
}

func TestFilterCriteria_Validate(t *testing.T) {
	assert.NoError(t, FilterCriteria{}.Validate())
	assert.NoError(t, FilterCriteria{DepartureTime: Evening, Status: StatusLimited, MaxPrice: ptr(0.0)}.Validate())

	for _, c := range []FilterCriteria{
		{DepartureTime: "night"},
		{Status: "OPEN"},
		{MaxPrice: ptr(-1.0)},
	} {
		err := c.Validate()
		assert.True(t, errors.Is(err, ErrInvalidRequest), "%+v", c)
	}
}

func TestFilterCriteria_IsEmpty(t *testing.T) {
	assert.True(t, FilterCriteria{}.IsEmpty())
	assert.False(t, FilterCriteria{Status: StatusLimited}.IsEmpty())
}

func TestSortSpec_Validate(t *testing.T) {
	assert.NoError(t, SortSpec{}.Validate())
	assert.NoError(t, DefaultSortSpec().Validate())
	assert.NoError(t, SortSpec{Key: SortByCharter, Direction: Descending}.Validate())
	assert.Error(t, SortSpec{Key: "duration"}.Validate())
	assert.Error(t, SortSpec{Key: SortByPrice, Direction: "up"}.Validate())

	assert.True(t, SortSpec{Direction: Descending}.Descending())
	assert.False(t, DefaultSortSpec().Descending())
}
