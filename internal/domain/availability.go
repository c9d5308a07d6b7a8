// Package domain contains the core entities and rules for charter availability aggregation.
// These entities are operator-agnostic: every portal's raw output is normalized into them.
package domain

import (
	"math"
	"strings"
	"time"
)

// TaxRate is the flat tax applied to every fare tier.
const TaxRate = 0.0725

// DateLayout is the ISO-8601 calendar date layout used across searches and cache keys.
const DateLayout = "2006-01-02"

// ClockLayout is the canonical "HH:mm" layout of schedule times.
const ClockLayout = "15:04"

// Seat thresholds for status derivation.
const (
	// LimitedSeatsThreshold is the highest seat count still reported as LIMITED.
	LimitedSeatsThreshold = 3
)

// Status describes how bookable a flight currently is.
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusLimited   Status = "LIMITED"
	StatusSoldOut   Status = "SOLD_OUT"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusLimited, StatusSoldOut:
		return true
	}
	return false
}

// DeriveStatus maps a seat count to its status.
// 0 (or less) is SOLD_OUT, 1-3 is LIMITED, anything above is AVAILABLE.
func DeriveStatus(seatsAvailable int) Status {
	switch {
	case seatsAvailable <= 0:
		return StatusSoldOut
	case seatsAvailable <= LimitedSeatsThreshold:
		return StatusLimited
	default:
		return StatusAvailable
	}
}

// FlightAvailability is the canonical seat/price/schedule snapshot of one flight offer
// on one date. Values are built by the normalizer and treated as immutable afterwards.
type FlightAvailability struct {
	// Date is the travel date in YYYY-MM-DD format
	Date string `json:"date"`

	// SeatsTotal is the aircraft capacity offered by the operator
	SeatsTotal int `json:"seatsTotal"`

	// SeatsAvailable is the number of seats still for sale (0..SeatsTotal)
	SeatsAvailable int `json:"seatsAvailable"`

	// Status is derived from SeatsAvailable
	Status Status `json:"status"`

	// Schedule holds the flight number and local departure/arrival times
	Schedule Schedule `json:"schedule"`

	// Pricing holds the regular and optional first class fares
	Pricing Pricing `json:"pricing"`
}

// Schedule identifies the flight and its clock times.
type Schedule struct {
	// FlightNumber is the operator's flight designator (e.g., "XL100")
	FlightNumber string `json:"flightNumber"`

	// Departure is the local departure time ("HH:mm")
	Departure string `json:"departure"`

	// Arrival is the local arrival time ("HH:mm")
	Arrival string `json:"arrival"`
}

// Pricing holds the fare tiers of a flight.
type Pricing struct {
	Regular    PriceTier  `json:"regular"`
	FirstClass *PriceTier `json:"firstClass,omitempty"`
}

// PriceTier is a single fare with its tax breakdown.
// Total always equals Base + Tax.
type PriceTier struct {
	Base  float64 `json:"base"`
	Tax   float64 `json:"tax"`
	Total float64 `json:"total"`
}

// NewPriceTier computes tax and total for a base fare.
// Tax is rounded to cents; negative bases are treated as zero.
func NewPriceTier(base float64) PriceTier {
	if base < 0 || math.IsNaN(base) || math.IsInf(base, 0) {
		base = 0
	}
	tax := RoundCents(base * TaxRate)
	return PriceTier{
		Base:  base,
		Tax:   tax,
		Total: base + tax,
	}
}

// RoundCents rounds an amount to two decimal places.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// DepartureMinutes returns the departure time as minutes after midnight.
// The second return value is false when the departure text is not a valid clock time.
func (f FlightAvailability) DepartureMinutes() (int, bool) {
	return ClockMinutes(f.Schedule.Departure)
}

// ClockMinutes parses an "HH:mm" clock string into minutes after midnight.
func ClockMinutes(clock string) (int, bool) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(clock))
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// HasFirstClass reports whether a first class fare was quoted.
func (f FlightAvailability) HasFirstClass() bool {
	return f.Pricing.FirstClass != nil
}

// Clone returns a deep copy so callers can't mutate shared cached values.
func (f FlightAvailability) Clone() FlightAvailability {
	if f.Pricing.FirstClass != nil {
		fc := *f.Pricing.FirstClass
		f.Pricing.FirstClass = &fc
	}
	return f
}

// CloneAll deep-copies a slice of availabilities.
func CloneAll(in []FlightAvailability) []FlightAvailability {
	if in == nil {
		return nil
	}
	out := make([]FlightAvailability, len(in))
	for i, f := range in {
		out[i] = f.Clone()
	}
	return out
}

// RawFlightRow is one results-grid row as scraped from an operator portal.
// Fields are untyped cell text; parsing is left to the normalizer.
type RawFlightRow struct {
	FlightNumber        string `json:"flightNumber"`
	DepartureText       string `json:"departureText"`
	ArrivalText         string `json:"arrivalText"`
	SeatsAvailableText  string `json:"seatsAvailableText"`
	PriceText           string `json:"priceText"`
	FirstClassPriceText string `json:"firstClassPriceText,omitempty"`
}
