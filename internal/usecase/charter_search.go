package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/charter-search/charter-availability/internal/domain"
	"github.com/charter-search/charter-availability/internal/infrastructure/logger"
	"github.com/charter-search/charter-availability/internal/infrastructure/metrics"
	"github.com/charter-search/charter-availability/internal/infrastructure/retry"
	"github.com/charter-search/charter-availability/internal/infrastructure/timeutil"
)

// Default timeout values. Portal scrapes drive a real browser and are slow.
const (
	DefaultGlobalTimeout   = 120 * time.Second
	DefaultOperatorTimeout = 90 * time.Second
)

// CharterSearchUseCase defines the charter availability operations.
type CharterSearchUseCase interface {
	// SearchAll queries every selected operator concurrently and merges their
	// availability in directory order. Operator failures are recorded on the result,
	// never returned as an error.
	SearchAll(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error)

	// Search runs SearchAll and then filters and sorts the merged results.
	Search(ctx context.Context, params domain.SearchParams, opts SearchOptions) (*domain.SearchResult, error)

	// Operators lists the searchable charters without credentials.
	Operators(ctx context.Context) ([]domain.CharterSummary, error)

	// CacheEntries returns the cached scrapes for diagnostics.
	CacheEntries() []domain.CacheEntry

	// ClearCache drops every cached scrape.
	ClearCache()
}

// Config contains configuration options for the use case.
type Config struct {
	// GlobalTimeout bounds a whole search; 0 disables the bound
	GlobalTimeout time.Duration

	// OperatorTimeout bounds one operator leg including retries
	OperatorTimeout time.Duration

	// Retry is the policy for portal fetches; only retryable errors are retried
	Retry retry.Config
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		GlobalTimeout:   DefaultGlobalTimeout,
		OperatorTimeout: DefaultOperatorTimeout,
		Retry:           retry.ScrapeConfig,
	}
}

// Dependencies are the collaborators of the use case. Directory, Source and Cache are required.
type Dependencies struct {
	Directory domain.OperatorDirectory
	Source    domain.AvailabilitySource
	Cache     domain.AvailabilityCache
	Clock     timeutil.Clock
	Metrics   *metrics.Metrics
	Logger    *logger.Logger
}

// charterSearchUseCase implements CharterSearchUseCase with a scatter-gather fan-out.
type charterSearchUseCase struct {
	directory domain.OperatorDirectory
	source    domain.AvailabilitySource
	cache     domain.AvailabilityCache
	clock     timeutil.Clock
	metrics   *metrics.Metrics
	log       *logger.Logger
	config    Config

	// inflight collapses concurrent fetches of the same cache key into one scrape
	inflight singleflight.Group
}

// NewCharterSearchUseCase creates the use case. If config is nil, defaults are used;
// zero fields in a non-nil config also fall back to defaults, except GlobalTimeout.
func NewCharterSearchUseCase(deps Dependencies, config *Config) CharterSearchUseCase {
	cfg := DefaultConfig()
	if config != nil {
		cfg.GlobalTimeout = config.GlobalTimeout
		if config.OperatorTimeout > 0 {
			cfg.OperatorTimeout = config.OperatorTimeout
		}
		if config.Retry.MaxAttempts > 0 {
			cfg.Retry = config.Retry
		}
	}
	cfg.Retry = cfg.Retry.WithRetryIf(domain.IsRetryable)

	if deps.Clock == nil {
		deps.Clock = timeutil.NewRealClock()
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}

	return &charterSearchUseCase{
		directory: deps.Directory,
		source:    deps.Source,
		cache:     deps.Cache,
		clock:     deps.Clock,
		metrics:   deps.Metrics,
		log:       deps.Logger,
		config:    cfg,
	}
}

// task is one operator leg to search.
type task struct {
	index    int
	operator domain.Operator
	query    domain.AvailabilityQuery
}

// taskResult holds the outcome of a single task.
type taskResult struct {
	task     task
	flights  []domain.FlightAvailability
	cacheHit bool
	err      error
	duration time.Duration
}

// SearchAll implements CharterSearchUseCase.SearchAll.
func (uc *charterSearchUseCase) SearchAll(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	start := uc.clock.Now()

	params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	operators, err := uc.selectOperators(ctx, params)
	if err != nil {
		return nil, err
	}

	searchID := uuid.NewString()
	log := uc.log.WithSearchID(searchID)

	if uc.config.GlobalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.config.GlobalTimeout)
		defer cancel()
	}

	queries := params.Queries()
	tasks := make([]task, 0, len(operators)*len(queries))
	for _, op := range operators {
		for _, q := range queries {
			tasks = append(tasks, task{index: len(tasks), operator: op, query: q})
		}
	}

	// Buffered channel so no task blocks once the gather loop is done
	resultsChan := make(chan taskResult, len(tasks))
	var wg sync.WaitGroup

	// Scatter
	for _, t := range tasks {
		wg.Add(1)
		go func(t task) {
			defer wg.Done()
			uc.runTask(ctx, t, resultsChan)
		}(t)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	// Gather, then restore directory order
	ordered := make([]taskResult, len(tasks))
	for r := range resultsChan {
		ordered[r.task.index] = r
	}

	result := uc.merge(searchID, params, operators, ordered, log)
	result.Metadata.SearchTimeMs = timeutil.Since(uc.clock, start).Milliseconds()
	uc.metrics.ObserveSearch(timeutil.Since(uc.clock, start))

	log.Info().
		Str("origin", params.Origin).
		Str("destination", params.Destination).
		Str("date", params.DepartureDate).
		Str("state", string(result.State())).
		Int("results", len(result.Items)).
		Int("operators_failed", result.Metadata.OperatorsFailed).
		Int64("duration_ms", result.Metadata.SearchTimeMs).
		Msg("Charter search completed")

	return result, nil
}

// Search implements CharterSearchUseCase.Search.
func (uc *charterSearchUseCase) Search(ctx context.Context, params domain.SearchParams, opts SearchOptions) (*domain.SearchResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result, err := uc.SearchAll(ctx, params)
	if err != nil {
		return nil, err
	}
	return result.WithItems(Query(result.Items, opts.Filters, opts.Sort)), nil
}

// Operators implements CharterSearchUseCase.Operators.
func (uc *charterSearchUseCase) Operators(ctx context.Context) ([]domain.CharterSummary, error) {
	operators, err := uc.directory.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list operators: %w", err)
	}

	out := make([]domain.CharterSummary, 0, len(operators))
	for _, op := range operators {
		out = append(out, op.Summary())
	}
	return out, nil
}

// CacheEntries implements CharterSearchUseCase.CacheEntries.
func (uc *charterSearchUseCase) CacheEntries() []domain.CacheEntry {
	return uc.cache.Entries()
}

// ClearCache implements CharterSearchUseCase.ClearCache.
func (uc *charterSearchUseCase) ClearCache() {
	uc.cache.Clear()
	uc.log.Info().Msg("Availability cache cleared")
}

// selectOperators loads the directory and applies the request's operator subset.
func (uc *charterSearchUseCase) selectOperators(ctx context.Context, params domain.SearchParams) ([]domain.Operator, error) {
	all, err := uc.directory.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list operators: %w", err)
	}
	if len(all) == 0 {
		return nil, domain.ErrNoOperators
	}

	selected := make([]domain.Operator, 0, len(all))
	for _, op := range all {
		if params.IncludesOperator(op.ID) {
			selected = append(selected, op)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: %v", domain.ErrOperatorNotFound, params.Operators)
	}
	return selected, nil
}

// runTask searches one operator leg with timeout and panic recovery.
func (uc *charterSearchUseCase) runTask(ctx context.Context, t task, results chan<- taskResult) {
	ctx, cancel := context.WithTimeout(ctx, uc.config.OperatorTimeout)
	defer cancel()

	start := uc.clock.Now()

	// A panicking operator must not take the whole search down
	defer func() {
		if r := recover(); r != nil {
			results <- taskResult{
				task:     t,
				err:      fmt.Errorf("%w: %v", domain.ErrOperatorPanic, r),
				duration: timeutil.Since(uc.clock, start),
			}
		}
	}()

	flights, hit, err := uc.lookup(ctx, t)

	results <- taskResult{
		task:     t,
		flights:  flights,
		cacheHit: hit,
		err:      err,
		duration: timeutil.Since(uc.clock, start),
	}
}

// lookup serves a leg from the cache or from a coalesced portal fetch.
func (uc *charterSearchUseCase) lookup(ctx context.Context, t task) ([]domain.FlightAvailability, bool, error) {
	key := domain.NewCacheKey(t.operator.ID, t.query)

	if flights, ok := uc.cache.Get(key); ok {
		uc.metrics.CacheHit()
		return flights, true, nil
	}
	uc.metrics.CacheMiss()

	// The shared fetch is detached from any one caller so a waiter giving up
	// does not fail the others; it is still bounded by the operator timeout.
	fetchCtx := context.WithoutCancel(ctx)
	ch := uc.inflight.DoChan(key.String(), func() (any, error) {
		if flights, ok := uc.cache.Get(key); ok {
			return flights, nil
		}

		flights, err := uc.fetch(fetchCtx, t)
		if err != nil {
			return nil, err
		}
		uc.cache.Put(key, flights)
		return flights, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			uc.metrics.Coalesced()
		}
		if res.Err != nil {
			return nil, false, res.Err
		}
		return domain.CloneAll(res.Val.([]domain.FlightAvailability)), false, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

// fetch calls the source with retries. Panics are converted to errors here because
// they would otherwise escape on the coalescing goroutine.
func (uc *charterSearchUseCase) fetch(ctx context.Context, t task) (flights []domain.FlightAvailability, err error) {
	ctx, cancel := context.WithTimeout(ctx, uc.config.OperatorTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			flights, err = nil, fmt.Errorf("%w: %v", domain.ErrOperatorPanic, r)
		}
	}()

	log := uc.log.WithOperator(t.operator.ID)
	policy := uc.config.Retry.WithOnRetry(func(attempt int, err error, wait time.Duration) {
		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("wait", wait).
			Str("leg", string(t.query.Leg)).
			Msg("Retrying operator scrape")
	})

	return retry.DoWithResult(ctx, func() ([]domain.FlightAvailability, error) {
		return uc.source.Fetch(ctx, t.operator, t.query)
	}, policy)
}

// merge builds the search result from task outcomes in directory order.
func (uc *charterSearchUseCase) merge(searchID string, params domain.SearchParams, operators []domain.Operator, results []taskResult, log *logger.Logger) *domain.SearchResult {
	retrievedAt := uc.clock.Now()

	items := make([]domain.ResultItem, 0)
	var failures []domain.OperatorFailure
	succeeded := make(map[string]bool, len(operators))
	cacheHits := 0

	for _, r := range results {
		op := r.task.operator
		if r.err != nil {
			kind := domain.ClassifyFailure(r.err)
			failures = append(failures, domain.OperatorFailure{
				OperatorID:  op.ID,
				DisplayName: op.DisplayName,
				Leg:         r.task.query.Leg,
				Kind:        kind,
				Message:     r.err.Error(),
			})
			uc.metrics.OperatorFailed(op.ID, string(kind))
			log.WithOperator(op.ID).Warn().
				Err(r.err).
				Str("kind", string(kind)).
				Str("leg", string(r.task.query.Leg)).
				Dur("duration", r.duration).
				Msg("Operator search failed")
			continue
		}

		succeeded[op.ID] = true
		if r.cacheHit {
			cacheHits++
		}
		log.WithOperator(op.ID).Debug().
			Bool("cache_hit", r.cacheHit).
			Int("flights", len(r.flights)).
			Str("leg", string(r.task.query.Leg)).
			Dur("duration", r.duration).
			Msg("Operator search succeeded")

		summary := op.Summary()
		for _, f := range r.flights {
			items = append(items, domain.ResultItem{Charter: summary, Leg: r.task.query.Leg, Availability: f})
		}
	}

	return &domain.SearchResult{
		SearchID:    searchID,
		Params:      params,
		Items:       items,
		Failures:    failures,
		RetrievedAt: retrievedAt,
		ValidUntil:  retrievedAt.Add(domain.ValidityWindow),
		Metadata: domain.SearchMetadata{
			TotalResults:       len(items),
			OperatorsQueried:   len(operators),
			OperatorsSucceeded: len(succeeded),
			OperatorsFailed:    len(operators) - len(succeeded),
			CacheHits:          cacheHits,
		},
	}
}

// Ensure charterSearchUseCase implements CharterSearchUseCase at compile time.
var _ CharterSearchUseCase = (*charterSearchUseCase)(nil)
