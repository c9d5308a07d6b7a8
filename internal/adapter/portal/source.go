package portal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/charter-search/charter-availability/internal/domain"
	"github.com/charter-search/charter-availability/internal/infrastructure/logger"
	"github.com/charter-search/charter-availability/internal/infrastructure/metrics"
	"github.com/charter-search/charter-availability/internal/infrastructure/timeutil"
)

// SourceConfig tunes session reuse against the portals.
type SourceConfig struct {
	// LoginInterval is the minimum spacing between logins to the same operator; 0 disables throttling
	LoginInterval time.Duration

	// SessionMaxAge retires pooled sessions older than this; 0 keeps them until they fail
	SessionMaxAge time.Duration
}

// slot holds one operator's pooled session. The semaphore serializes all use of it,
// since a portal page can only run one search at a time.
type slot struct {
	sem     chan struct{}
	limiter *rate.Limiter
	session *Session
}

// Source fetches availability by scraping operator portals. It implements
// domain.AvailabilitySource and keeps one logged-in session per operator.
type Source struct {
	agent     *Agent
	extractor *Extractor
	config    SourceConfig
	metrics   *metrics.Metrics
	clock     timeutil.Clock
	log       *logger.Logger

	mu     sync.Mutex
	slots  map[string]*slot
	closed bool
}

// SourceOption customizes a Source.
type SourceOption func(*Source)

// WithSourceMetrics records logins, sessions and scrapes.
func WithSourceMetrics(m *metrics.Metrics) SourceOption {
	return func(s *Source) { s.metrics = m }
}

// WithSourceLogger sets the source's logger.
func WithSourceLogger(l *logger.Logger) SourceOption {
	return func(s *Source) { s.log = l }
}

// WithSourceClock sets the clock used to age sessions.
func WithSourceClock(c timeutil.Clock) SourceOption {
	return func(s *Source) { s.clock = c }
}

// NewSource creates a source that logs in through agent and searches through extractor.
func NewSource(agent *Agent, extractor *Extractor, cfg SourceConfig, opts ...SourceOption) *Source {
	s := &Source{
		agent:     agent,
		extractor: extractor,
		config:    cfg,
		clock:     timeutil.NewRealClock(),
		log:       logger.Nop(),
		slots:     make(map[string]*slot),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch returns the normalized availability of op for q, logging in first when the
// operator has no usable session. A session whose search fails is discarded.
func (s *Source) Fetch(ctx context.Context, op domain.Operator, q domain.AvailabilityQuery) ([]domain.FlightAvailability, error) {
	if err := s.checkPlatform(op); err != nil {
		return nil, err
	}

	sl, err := s.slotFor(op.ID)
	if err != nil {
		return nil, err
	}

	select {
	case sl.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-sl.sem }()

	session, err := s.ensureSession(ctx, sl, op)
	if err != nil {
		return nil, err
	}

	start := s.clock.Now()
	rows, err := s.extractor.Search(ctx, session, q.From, q.To, q.Date)
	s.metrics.ObserveScrape(op.ID, timeutil.Since(s.clock, start), err)
	if err != nil {
		s.discard(sl)
		return nil, err
	}

	return NormalizeRows(rows, q.Date, op.Capacity()), nil
}

func (s *Source) checkPlatform(op domain.Operator) error {
	system := strings.TrimSpace(op.System)
	if system == "" || strings.EqualFold(system, s.agent.Profile().Name) {
		return nil
	}
	return domain.NewExtractionError(op.ID, fmt.Errorf("unsupported reservation platform %q", system))
}

func (s *Source) slotFor(operatorID string) (*slot, error) {
	key := strings.ToLower(operatorID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, domain.NewExtractionError(operatorID, domain.ErrSessionClosed)
	}

	sl, ok := s.slots[key]
	if !ok {
		limit := rate.Inf
		if s.config.LoginInterval > 0 {
			limit = rate.Every(s.config.LoginInterval)
		}
		sl = &slot{sem: make(chan struct{}, 1), limiter: rate.NewLimiter(limit, 1)}
		s.slots[key] = sl
	}
	return sl, nil
}

// ensureSession returns the slot's session, replacing it when missing, closed or stale.
// Callers must hold the slot's semaphore.
func (s *Source) ensureSession(ctx context.Context, sl *slot, op domain.Operator) (*Session, error) {
	if sl.session != nil && sl.session.Authenticated() && !s.expired(sl.session) {
		return sl.session, nil
	}
	s.discard(sl)

	if err := sl.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	creds := op.Credentials
	if creds.OperatorID == "" {
		creds.OperatorID = op.ID
	}

	session, err := s.agent.Open(ctx, creds, op.PortalURL)
	s.metrics.ObserveLogin(op.ID, err)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		s.agent.Close(session)
		return nil, domain.NewExtractionError(op.ID, domain.ErrSessionClosed)
	}

	sl.session = session
	s.metrics.SessionOpened()
	s.log.WithOperator(op.ID).Info().Msg("Logged into operator portal")
	return session, nil
}

func (s *Source) expired(session *Session) bool {
	if s.config.SessionMaxAge <= 0 {
		return false
	}
	return timeutil.Since(s.clock, session.OpenedAt()) >= s.config.SessionMaxAge
}

func (s *Source) discard(sl *slot) {
	if sl.session == nil {
		return
	}
	s.agent.Close(sl.session)
	sl.session = nil
	s.metrics.SessionClosed()
}

// Sessions reports how many operators currently have a pooled session.
func (s *Source) Sessions() int {
	s.mu.Lock()
	slots := make([]*slot, 0, len(s.slots))
	for _, sl := range s.slots {
		slots = append(slots, sl)
	}
	s.mu.Unlock()

	n := 0
	for _, sl := range slots {
		sl.sem <- struct{}{}
		if sl.session != nil {
			n++
		}
		<-sl.sem
	}
	return n
}

// Close logs out of every operator and rejects further fetches. In-flight fetches
// finish before their sessions are released.
func (s *Source) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	slots := s.slots
	s.slots = make(map[string]*slot)
	s.mu.Unlock()

	for _, sl := range slots {
		sl.sem <- struct{}{}
		s.discard(sl)
		<-sl.sem
	}

	s.log.Info().Int("operators", len(slots)).Msg("Portal sessions closed")
	return nil
}
