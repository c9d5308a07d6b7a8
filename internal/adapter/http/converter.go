package http

import (
	"strings"

	"github.com/charter-search/charter-availability/internal/domain"
	"github.com/charter-search/charter-availability/internal/usecase"
)

// ToDomainParams converts a SearchChartersRequest to domain.SearchParams.
func ToDomainParams(req *SearchChartersRequest) domain.SearchParams {
	passengers := req.Passengers
	if passengers < 1 {
		passengers = 1
	}

	tripType := domain.TripType(strings.ToLower(req.TripType))
	if tripType == "" {
		tripType = domain.TripOneWay
	}

	var operators []string
	if len(req.Operators) > 0 {
		operators = append(operators, req.Operators...)
	}

	return domain.SearchParams{
		Origin:        strings.ToUpper(req.Origin),
		Destination:   strings.ToUpper(req.Destination),
		DepartureDate: req.DepartureDate,
		ReturnDate:    req.ReturnDate,
		Passengers:    passengers,
		TripType:      tripType,
		Operators:     operators,
	}
}

// ToDomainFilters converts a FilterDTO to domain.FilterCriteria.
func ToDomainFilters(dto *FilterDTO) domain.FilterCriteria {
	if dto == nil {
		return domain.FilterCriteria{}
	}

	return domain.FilterCriteria{
		OperatorID:    dto.Operator,
		MaxPrice:      dto.MaxPrice,
		DepartureTime: domain.TimeOfDay(strings.ToLower(dto.DepartureTime)),
		Status:        domain.Status(strings.ToUpper(dto.Status)),
	}
}

// ToDomainSort converts a SortDTO to domain.SortSpec.
// A missing sort uses the default ordering by price.
func ToDomainSort(dto *SortDTO) domain.SortSpec {
	if dto == nil || dto.Key == "" {
		return domain.DefaultSortSpec()
	}

	direction := domain.SortDirection(strings.ToLower(dto.Direction))
	if direction == "" {
		direction = domain.Ascending
	}

	return domain.SortSpec{
		Key:       domain.SortKey(strings.ToLower(dto.Key)),
		Direction: direction,
	}
}

// ToSearchOptions converts request fields to usecase.SearchOptions.
func ToSearchOptions(req *SearchChartersRequest) usecase.SearchOptions {
	return usecase.SearchOptions{
		Filters: ToDomainFilters(req.Filters),
		Sort:    ToDomainSort(req.Sort),
	}
}
