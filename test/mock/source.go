// Package mock provides test doubles for the charter availability system.
// These mocks are designed for integration testing where we need
// configurable behavior (delays, errors, specific responses) per operator.
package mock

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charter-search/charter-availability/internal/domain"
)

// Source is a configurable mock implementation of domain.AvailabilitySource.
// Behavior is set per operator id; unknown operators return no flights.
type Source struct {
	mu        sync.Mutex
	flights   map[string][]domain.FlightAvailability
	errs      map[string]error
	failFirst map[string]int
	delays    map[string]time.Duration
	panics    map[string]any
	calls     map[string]int
	queries   []domain.AvailabilityQuery

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

// NewSource creates an empty mock source.
// The source is configured using the builder pattern methods.
func NewSource() *Source {
	return &Source{
		flights:   make(map[string][]domain.FlightAvailability),
		errs:      make(map[string]error),
		failFirst: make(map[string]int),
		delays:    make(map[string]time.Duration),
		panics:    make(map[string]any),
		calls:     make(map[string]int),
	}
}

// WithFlights configures the flights returned for an operator, on every leg.
func (s *Source) WithFlights(operatorID string, flights ...domain.FlightAvailability) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flights[key(operatorID)] = flights
	return s
}

// WithError configures the operator to always fail with err.
func (s *Source) WithError(operatorID string, err error) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[key(operatorID)] = err
	return s
}

// WithFailures makes the first n fetches of the operator fail with err before succeeding.
func (s *Source) WithFailures(operatorID string, n int, err error) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failFirst[key(operatorID)] = n
	s.errs[key(operatorID)] = err
	return s
}

// WithDelay configures the operator to wait d before responding.
// This is useful for testing timeout and coalescing behavior.
func (s *Source) WithDelay(operatorID string, d time.Duration) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[key(operatorID)] = d
	return s
}

// WithPanic configures the operator to panic with v.
func (s *Source) WithPanic(operatorID string, v any) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panics[key(operatorID)] = v
	return s
}

// Fetch implements domain.AvailabilitySource.Fetch.
// It respects context cancellation, applies configured delay,
// and returns configured flights or error.
func (s *Source) Fetch(ctx context.Context, operator domain.Operator, query domain.AvailabilityQuery) ([]domain.FlightAvailability, error) {
	id := key(operator.ID)

	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		peak := s.maxInFlight.Load()
		if n <= peak || s.maxInFlight.CompareAndSwap(peak, n) {
			break
		}
	}

	s.mu.Lock()
	s.calls[id]++
	call := s.calls[id]
	s.queries = append(s.queries, query)
	delay := s.delays[id]
	panicValue, shouldPanic := s.panics[id]
	err := s.errs[id]
	failFirst, limited := s.failFirst[id]
	flights := s.flights[id]
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if shouldPanic {
		panic(panicValue)
	}

	if err != nil && (!limited || call <= failFirst) {
		return nil, err
	}

	out := domain.CloneAll(flights)
	for i := range out {
		out[i].Date = query.Date
	}
	return out, nil
}

// Calls returns how many times the operator was fetched.
func (s *Source) Calls(operatorID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[key(operatorID)]
}

// TotalCalls returns the number of fetches across all operators.
func (s *Source) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// Queries returns every query received, in arrival order.
func (s *Source) Queries() []domain.AvailabilityQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AvailabilityQuery(nil), s.queries...)
}

// MaxConcurrent returns the highest number of simultaneous fetches observed.
func (s *Source) MaxConcurrent() int {
	return int(s.maxInFlight.Load())
}

// Reset clears the call history.
func (s *Source) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = make(map[string]int)
	s.queries = nil
	s.maxInFlight.Store(0)
}

func key(operatorID string) string {
	return strings.ToLower(operatorID)
}

var _ domain.AvailabilitySource = (*Source)(nil)
