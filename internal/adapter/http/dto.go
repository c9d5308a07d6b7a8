package http

import (
	"time"

	"github.com/charter-search/charter-availability/internal/domain"
)

// SearchResponseDTO is the data transfer object for search responses.
// It matches the expected API output format with snake_case fields.
type SearchResponseDTO struct {
	SearchID       string            `json:"search_id" example:"4b1f3c2e-8d7a-4f55-9b0e-2a1c6e9d0f11"`
	State          string            `json:"state" example:"ok"`
	SearchCriteria SearchCriteriaDTO `json:"search_criteria"`
	Results        []ResultDTO       `json:"results"`
	Failures       []FailureDTO      `json:"failures,omitempty"`
	RetrievedAt    time.Time         `json:"retrieved_at"`
	ValidUntil     time.Time         `json:"valid_until"`
	Metadata       MetadataDTO       `json:"metadata"`
}

// SearchCriteriaDTO represents the search criteria in the response.
type SearchCriteriaDTO struct {
	Origin        string   `json:"origin" example:"MIA"`
	Destination   string   `json:"destination" example:"HAV"`
	DepartureDate string   `json:"departure_date" example:"2026-03-01"`
	ReturnDate    string   `json:"return_date,omitempty" example:"2026-03-08"`
	Passengers    int      `json:"passengers" example:"2"`
	TripType      string   `json:"trip_type" example:"oneway"`
	Operators     []string `json:"operators,omitempty"`
}

// MetadataDTO contains metadata about the search execution.
type MetadataDTO struct {
	TotalResults       int   `json:"total_results" example:"12"`
	OperatorsQueried   int   `json:"operators_queried" example:"1"`
	OperatorsSucceeded int   `json:"operators_succeeded" example:"1"`
	OperatorsFailed    int   `json:"operators_failed" example:"0"`
	CacheHits          int   `json:"cache_hits" example:"0"`
	SearchTimeMs       int64 `json:"search_time_ms" example:"8400"`
}

// ResultDTO is one flight offered by one charter.
type ResultDTO struct {
	Charter        CharterDTO `json:"charter"`
	Leg            string     `json:"leg" example:"outbound"`
	Date           string     `json:"date" example:"2026-03-01"`
	FlightNumber   string     `json:"flight_number" example:"XL100"`
	Departure      string     `json:"departure" example:"08:00"`
	Arrival        string     `json:"arrival" example:"09:10"`
	SeatsTotal     int        `json:"seats_total" example:"10"`
	SeatsAvailable int        `json:"seats_available" example:"2"`
	Status         string     `json:"status" example:"LIMITED"`
	Pricing        PricingDTO `json:"pricing"`
}

// CharterDTO identifies an operator without any login details.
type CharterDTO struct {
	ID    string `json:"id" example:"xael"`
	Title string `json:"title" example:"XAEL Charters"`
}

// PricingDTO holds the fare tiers of a flight.
type PricingDTO struct {
	Regular    PriceDTO  `json:"regular"`
	FirstClass *PriceDTO `json:"first_class,omitempty"`
}

// PriceDTO is a single fare with its tax breakdown.
type PriceDTO struct {
	Base  float64 `json:"base" example:"300"`
	Tax   float64 `json:"tax" example:"21.75"`
	Total float64 `json:"total" example:"321.75"`
}

// FailureDTO explains why an operator contributed nothing.
type FailureDTO struct {
	OperatorID string `json:"operator_id" example:"xael"`
	Title      string `json:"title" example:"XAEL Charters"`
	Leg        string `json:"leg" example:"outbound"`
	Kind       string `json:"kind" example:"authentication"`
	Message    string `json:"message"`
}

// OperatorsResponseDTO lists the searchable charters.
type OperatorsResponseDTO struct {
	Operators []CharterDTO `json:"operators"`
	Count     int          `json:"count" example:"1"`
}

// CacheEntryDTO is one cached scrape.
type CacheEntryDTO struct {
	Key        string      `json:"key" example:"xael-HAV-2026-03-01"`
	InsertedAt time.Time   `json:"inserted_at"`
	Flights    []FlightDTO `json:"flights"`
}

// FlightDTO is a cached availability row, not yet attached to a search.
type FlightDTO struct {
	Date           string     `json:"date" example:"2026-03-01"`
	FlightNumber   string     `json:"flight_number" example:"XL100"`
	Departure      string     `json:"departure" example:"08:00"`
	Arrival        string     `json:"arrival" example:"09:10"`
	SeatsTotal     int        `json:"seats_total" example:"10"`
	SeatsAvailable int        `json:"seats_available" example:"2"`
	Status         string     `json:"status" example:"LIMITED"`
	Pricing        PricingDTO `json:"pricing"`
}

// CacheResponseDTO lists the cache contents.
type CacheResponseDTO struct {
	Entries []CacheEntryDTO `json:"entries"`
	Count   int             `json:"count" example:"1"`
}

// ToSearchResponseDTO converts a domain SearchResult to a SearchResponseDTO.
func ToSearchResponseDTO(result *domain.SearchResult) *SearchResponseDTO {
	if result == nil {
		return nil
	}

	p := result.Params
	dto := &SearchResponseDTO{
		SearchID: result.SearchID,
		State:    string(result.State()),
		SearchCriteria: SearchCriteriaDTO{
			Origin:        p.Origin,
			Destination:   p.Destination,
			DepartureDate: p.DepartureDate,
			ReturnDate:    p.ReturnDate,
			Passengers:    p.Passengers,
			TripType:      string(p.TripType),
			Operators:     p.Operators,
		},
		Results:     make([]ResultDTO, len(result.Items)),
		RetrievedAt: result.RetrievedAt,
		ValidUntil:  result.ValidUntil,
		Metadata: MetadataDTO{
			TotalResults:       result.Metadata.TotalResults,
			OperatorsQueried:   result.Metadata.OperatorsQueried,
			OperatorsSucceeded: result.Metadata.OperatorsSucceeded,
			OperatorsFailed:    result.Metadata.OperatorsFailed,
			CacheHits:          result.Metadata.CacheHits,
			SearchTimeMs:       result.Metadata.SearchTimeMs,
		},
	}

	for i, item := range result.Items {
		dto.Results[i] = ToResultDTO(item)
	}

	for _, f := range result.Failures {
		dto.Failures = append(dto.Failures, FailureDTO{
			OperatorID: f.OperatorID,
			Title:      f.DisplayName,
			Leg:        string(f.Leg),
			Kind:       string(f.Kind),
			Message:    f.Message,
		})
	}

	return dto
}

// ToResultDTO converts a domain ResultItem to a ResultDTO.
func ToResultDTO(item domain.ResultItem) ResultDTO {
	flight := ToFlightDTO(item.Availability)
	return ResultDTO{
		Charter:        ToCharterDTO(item.Charter),
		Leg:            string(item.Leg),
		Date:           flight.Date,
		FlightNumber:   flight.FlightNumber,
		Departure:      flight.Departure,
		Arrival:        flight.Arrival,
		SeatsTotal:     flight.SeatsTotal,
		SeatsAvailable: flight.SeatsAvailable,
		Status:         flight.Status,
		Pricing:        flight.Pricing,
	}
}

// ToFlightDTO converts a domain FlightAvailability to a FlightDTO.
func ToFlightDTO(a domain.FlightAvailability) FlightDTO {
	dto := FlightDTO{
		Date:           a.Date,
		FlightNumber:   a.Schedule.FlightNumber,
		Departure:      a.Schedule.Departure,
		Arrival:        a.Schedule.Arrival,
		SeatsTotal:     a.SeatsTotal,
		SeatsAvailable: a.SeatsAvailable,
		Status:         string(a.Status),
		Pricing:        PricingDTO{Regular: toPriceDTO(a.Pricing.Regular)},
	}
	if a.HasFirstClass() {
		first := toPriceDTO(*a.Pricing.FirstClass)
		dto.Pricing.FirstClass = &first
	}
	return dto
}

func toPriceDTO(t domain.PriceTier) PriceDTO {
	return PriceDTO{Base: t.Base, Tax: t.Tax, Total: t.Total}
}

// ToCharterDTO converts a domain CharterSummary to a CharterDTO.
func ToCharterDTO(c domain.CharterSummary) CharterDTO {
	return CharterDTO{ID: c.ID, Title: c.Title}
}

// ToOperatorsResponseDTO converts the directory listing.
func ToOperatorsResponseDTO(summaries []domain.CharterSummary) *OperatorsResponseDTO {
	dto := &OperatorsResponseDTO{
		Operators: make([]CharterDTO, len(summaries)),
		Count:     len(summaries),
	}
	for i, s := range summaries {
		dto.Operators[i] = ToCharterDTO(s)
	}
	return dto
}

// ToCacheResponseDTO converts the cache contents.
func ToCacheResponseDTO(entries []domain.CacheEntry) *CacheResponseDTO {
	dto := &CacheResponseDTO{
		Entries: make([]CacheEntryDTO, len(entries)),
		Count:   len(entries),
	}
	for i, e := range entries {
		flights := make([]FlightDTO, len(e.Value))
		for j, a := range e.Value {
			flights[j] = ToFlightDTO(a)
		}
		dto.Entries[i] = CacheEntryDTO{Key: e.Key, InsertedAt: e.InsertedAt, Flights: flights}
	}
	return dto
}
