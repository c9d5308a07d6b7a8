package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	charterhttp "github.com/charter-search/charter-availability/internal/adapter/http"
	"github.com/charter-search/charter-availability/internal/domain"
	"github.com/charter-search/charter-availability/internal/usecase"
)

// ErrAllFailed is returned after printing a result in which no operator could be searched.
var ErrAllFailed = errors.New("every charter operator failed")

type searchFlags struct {
	origin      string
	destination string
	date        string
	returnDate  string
	passengers  int
	operators   []string
	only        string
	maxPrice    float64
	status      string
	timeOfDay   string
	sortKey     string
	desc        bool
	timeout     time.Duration
}

func newSearchCmd(open Opener) *cobra.Command {
	f := &searchFlags{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search every operator for a route and date",
		Example: `  charterctl search --origin MIA --destination HAV --date 2026-03-01
  charterctl search --origin MIA --destination HAV --date 2026-03-01 --return-date 2026-03-08 --sort departure
  charterctl search --origin MIA --destination HAV --date 2026-03-01 --max-price 400 --status AVAILABLE --time morning`,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, opts, err := f.build(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if f.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, f.timeout)
				defer cancel()
			}

			return withRuntime(ctx, open, func(rt *Runtime) error {
				result, err := rt.UseCase.Search(ctx, params, opts)
				if err != nil {
					return err
				}
				if err := writeJSON(cmd.OutOrStdout(), charterhttp.ToSearchResponseDTO(result)); err != nil {
					return err
				}
				if result.AllFailed() {
					return ErrAllFailed
				}
				return nil
			})
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.origin, "origin", "", "departure airport IATA code")
	fl.StringVar(&f.destination, "destination", "", "arrival airport IATA code")
	fl.StringVar(&f.date, "date", "", "departure date (YYYY-MM-DD)")
	fl.StringVar(&f.returnDate, "return-date", "", "return date for a round trip (YYYY-MM-DD)")
	fl.IntVar(&f.passengers, "passengers", 1, "party size")
	fl.StringSliceVar(&f.operators, "operators", nil, "restrict the search to these operator ids")
	fl.StringVar(&f.only, "operator", "", "keep only results of this operator")
	fl.Float64Var(&f.maxPrice, "max-price", 0, "keep results whose regular total is at most this amount")
	fl.StringVar(&f.status, "status", "", "keep results with this status: AVAILABLE, LIMITED, SOLD_OUT")
	fl.StringVar(&f.timeOfDay, "time", "", "keep results departing in: morning, afternoon, evening")
	fl.StringVar(&f.sortKey, "sort", string(domain.SortByPrice), "sort key: price, departure, availability, charter")
	fl.BoolVar(&f.desc, "desc", false, "sort descending")
	fl.DurationVar(&f.timeout, "timeout", 0, "overall deadline; 0 uses TIMEOUT_GLOBAL_SEARCH")

	_ = cmd.MarkFlagRequired("origin")
	_ = cmd.MarkFlagRequired("destination")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

// build turns the flags into validated search inputs.
func (f *searchFlags) build(cmd *cobra.Command) (domain.SearchParams, usecase.SearchOptions, error) {
	params := domain.SearchParams{
		Origin:        f.origin,
		Destination:   f.destination,
		DepartureDate: f.date,
		ReturnDate:    f.returnDate,
		Passengers:    f.passengers,
		TripType:      domain.TripOneWay,
	}
	if f.returnDate != "" {
		params.TripType = domain.TripRoundTrip
	}
	for _, id := range f.operators {
		if id = strings.TrimSpace(id); id != "" {
			params.Operators = append(params.Operators, id)
		}
	}
	params.Normalize()
	if err := params.Validate(); err != nil {
		return params, usecase.SearchOptions{}, err
	}

	opts := usecase.DefaultSearchOptions()
	opts.Filters = domain.FilterCriteria{
		OperatorID:    strings.TrimSpace(f.only),
		DepartureTime: domain.TimeOfDay(strings.ToLower(f.timeOfDay)),
		Status:        domain.Status(strings.ToUpper(f.status)),
	}
	opts.Sort.Key = domain.SortKey(strings.ToLower(f.sortKey))
	if cmd.Flags().Changed("max-price") {
		price := f.maxPrice
		opts.Filters.MaxPrice = &price
	}
	if f.desc {
		opts.Sort.Direction = domain.Descending
	}
	if err := opts.Validate(); err != nil {
		return params, opts, fmt.Errorf("invalid filter: %w", err)
	}

	return params, opts, nil
}
