package portal

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/charter-search/charter-availability/internal/domain"
)

var (
	leadingInt     = regexp.MustCompile(`^[+-]?\d+`)
	leadingDecimal = regexp.MustCompile(`^-?\d+(\.\d+)?`)

	clockLayouts = []string{"15:04", "15:04:05", "3:04PM", "3:04 PM"}
)

// Normalize turns a raw grid row into an availability for date. It never fails:
// unreadable seat counts and prices become zero and unreadable times are kept as scraped.
// capacity is the operator's aircraft size; a row reporting more free seats wins.
func Normalize(row domain.RawFlightRow, date string, capacity int) domain.FlightAvailability {
	seats := ParseSeats(row.SeatsAvailableText)
	total := capacity
	if seats > total {
		total = seats
	}

	pricing := domain.Pricing{Regular: domain.NewPriceTier(ParsePrice(row.PriceText))}
	if strings.TrimSpace(row.FirstClassPriceText) != "" {
		first := domain.NewPriceTier(ParsePrice(row.FirstClassPriceText))
		pricing.FirstClass = &first
	}

	return domain.FlightAvailability{
		Date:           date,
		SeatsTotal:     total,
		SeatsAvailable: seats,
		Status:         domain.DeriveStatus(seats),
		Schedule: domain.Schedule{
			FlightNumber: strings.TrimSpace(row.FlightNumber),
			Departure:    NormalizeClock(row.DepartureText),
			Arrival:      NormalizeClock(row.ArrivalText),
		},
		Pricing: pricing,
	}
}

// NormalizeRows normalizes every row, preserving grid order.
func NormalizeRows(rows []domain.RawFlightRow, date string, capacity int) []domain.FlightAvailability {
	out := make([]domain.FlightAvailability, 0, len(rows))
	for _, row := range rows {
		out = append(out, Normalize(row, date, capacity))
	}
	return out
}

// ParseSeats reads the leading integer of text ("5", "5 seats"). Anything else is 0.
func ParseSeats(text string) int {
	m := leadingInt.FindString(strings.TrimSpace(text))
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParsePrice reads a money amount such as "$1,250.00" or "USD 300". Anything else is 0.
func ParsePrice(text string) float64 {
	s := strings.TrimLeftFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsLetter(r) || unicode.Is(unicode.Sc, r)
	})
	s = strings.ReplaceAll(s, ",", "")

	m := leadingDecimal.FindString(s)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// NormalizeClock rewrites a time of day as HH:MM. Unrecognized text is returned trimmed.
func NormalizeClock(text string) string {
	raw := strings.TrimSpace(text)
	upper := strings.ToUpper(raw)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, upper); err == nil {
			return t.Format(domain.ClockLayout)
		}
	}
	return raw
}
