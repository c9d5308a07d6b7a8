package portal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charter-search/charter-availability/internal/domain"
	"github.com/charter-search/charter-availability/internal/infrastructure/logger"
)

// Extractor runs one availability search on an authenticated session and returns
// the raw rows of the results grid.
type Extractor struct {
	timeouts Timeouts
	log      *logger.Logger
}

// NewExtractor creates an extractor with the given waits.
func NewExtractor(timeouts Timeouts, log *logger.Logger) *Extractor {
	if log == nil {
		log = logger.Nop()
	}
	return &Extractor{timeouts: timeouts.withDefaults(), log: log}
}

// Search fills the search form for from→to on date (YYYY-MM-DD) and scrapes the grid.
//
// An unauthenticated session fails immediately. A grid that never appears yields an
// extraction timeout; any other driver failure yields an extraction error.
// A grid with no data rows is a valid empty result.
func (e *Extractor) Search(ctx context.Context, s *Session, from, to, date string) ([]domain.RawFlightRow, error) {
	if s == nil {
		return nil, domain.NewExtractionError("", domain.ErrSessionClosed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	operator := s.operatorID
	if !s.authenticated || s.driver == nil {
		return nil, domain.NewExtractionError(operator, domain.ErrSessionClosed)
	}

	d := s.driver
	p := s.profile
	modal := modalGuard{selectors: p.Modal, timeout: e.timeouts.Modal, log: e.log.WithOperator(operator)}

	formDate, err := formatDate(date, p.DateLayout)
	if err != nil {
		return nil, domain.NewExtractionError(operator, err)
	}

	navCtx, cancelNav := context.WithTimeout(ctx, e.timeouts.Navigation)
	defer cancelNav()
	if err := d.Navigate(navCtx, p.SearchURL()); err != nil {
		return nil, stepError(operator, "open search page", p.SearchURL(), err)
	}
	if err := modal.dismiss(ctx, d); err != nil {
		return nil, domain.NewExtractionError(operator, err)
	}

	if err := d.Select(ctx, p.Search.Origin, from); err != nil {
		return nil, domain.NewExtractionError(operator, fmt.Errorf("select origin %s: %w", from, err))
	}
	if err := d.Select(ctx, p.Search.Destination, to); err != nil {
		return nil, domain.NewExtractionError(operator, fmt.Errorf("select destination %s: %w", to, err))
	}
	if err := d.Fill(ctx, p.Search.Date, formDate); err != nil {
		return nil, domain.NewExtractionError(operator, fmt.Errorf("fill date: %w", err))
	}
	if err := modal.dismiss(ctx, d); err != nil {
		return nil, domain.NewExtractionError(operator, err)
	}
	if err := d.Click(ctx, p.Search.Submit); err != nil {
		return nil, domain.NewExtractionError(operator, fmt.Errorf("submit search: %w", err))
	}

	if err := d.WaitVisible(ctx, p.Results.Grid, e.timeouts.Results); err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.NewExtractionTimeoutError(operator, p.Results.Grid, err)
		}
		return nil, domain.NewExtractionError(operator, fmt.Errorf("wait for results: %w", err))
	}
	if err := modal.dismiss(ctx, d); err != nil {
		return nil, domain.NewExtractionError(operator, err)
	}

	html, err := d.OuterHTML(ctx, p.Results.Grid)
	if err != nil {
		return nil, domain.NewExtractionError(operator, fmt.Errorf("read results: %w", err))
	}

	rows, err := ParseGrid(html, p.minCells())
	if err != nil {
		return nil, domain.NewExtractionError(operator, err)
	}

	e.log.WithOperator(operator).Debug().
		Str("from", from).
		Str("to", to).
		Str("date", date).
		Int("rows", len(rows)).
		Msg("Scraped results grid")

	return rows, nil
}

func formatDate(date, layout string) (string, error) {
	if layout == "" || layout == domain.DateLayout {
		return date, nil
	}
	t, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("parse travel date %q: %w", date, err)
	}
	return t.Format(layout), nil
}

// stepError maps a failed navigation step to a timeout or a generic extraction error.
func stepError(operator, step, target string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewExtractionTimeoutError(operator, target, err)
	}
	return domain.NewExtractionError(operator, fmt.Errorf("%s: %w", step, err))
}
