package portal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charter-search/charter-availability/internal/domain"
	"github.com/charter-search/charter-availability/internal/infrastructure/logger"
	"github.com/charter-search/charter-availability/internal/infrastructure/timeutil"
)

// Session is an authenticated page on an operator's portal.
// Authenticated implies the driver is live and navigable.
type Session struct {
	operatorID string
	profile    Profile
	openedAt   time.Time

	mu            sync.Mutex
	driver        Driver
	authenticated bool
}

// OperatorID returns the operator the session is logged into.
func (s *Session) OperatorID() string {
	return s.operatorID
}

// Authenticated reports whether the session can be used for searches.
func (s *Session) Authenticated() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated && s.driver != nil
}

// OpenedAt returns when the login completed.
func (s *Session) OpenedAt() time.Time {
	return s.openedAt
}

// Agent opens and closes portal sessions.
type Agent struct {
	launch   LaunchFunc
	profile  Profile
	timeouts Timeouts
	modal    modalGuard
	clock    timeutil.Clock
	log      *logger.Logger
}

// AgentOption customizes an Agent.
type AgentOption func(*Agent)

// WithTimeouts overrides the portal waits.
func WithTimeouts(t Timeouts) AgentOption {
	return func(a *Agent) { a.timeouts = t.withDefaults() }
}

// WithLogger sets the agent's logger.
func WithLogger(l *logger.Logger) AgentOption {
	return func(a *Agent) { a.log = l }
}

// WithClock sets the clock used to stamp sessions.
func WithClock(c timeutil.Clock) AgentOption {
	return func(a *Agent) { a.clock = c }
}

// NewAgent creates an agent launching browsers with launch against the given profile.
func NewAgent(launch LaunchFunc, profile Profile, opts ...AgentOption) *Agent {
	a := &Agent{
		launch:   launch,
		profile:  profile,
		timeouts: DefaultTimeouts(),
		clock:    timeutil.NewRealClock(),
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.modal = modalGuard{selectors: profile.Modal, timeout: a.timeouts.Modal, log: a.log}
	return a
}

// Profile returns the platform profile the agent was built with.
func (a *Agent) Profile() Profile {
	return a.profile
}

// Open launches a browser, logs in with creds and returns the authenticated session.
// baseURL overrides the profile's portal origin when non-empty.
//
// A visible login-error marker after submission yields an authentication error;
// any other failure yields an extraction error. Nothing is retried here.
func (a *Agent) Open(ctx context.Context, creds domain.OperatorCredentials, baseURL string) (*Session, error) {
	operator := creds.OperatorID
	log := a.log.WithOperator(operator)

	if creds.IsZero() {
		return nil, domain.NewAuthenticationError(operator, errors.New("no credentials configured"))
	}

	driver, err := a.launch(ctx)
	if err != nil {
		return nil, domain.NewExtractionError(operator, fmt.Errorf("launch browser: %w", err))
	}

	profile := a.profile.WithBaseURL(baseURL)
	session := &Session{operatorID: operator, profile: profile, driver: driver}

	if err := a.login(ctx, session, creds); err != nil {
		a.Close(session)
		log.Warn().Err(err).Msg("Portal login failed")
		return nil, err
	}

	session.mu.Lock()
	session.authenticated = true
	session.openedAt = a.clock.Now()
	session.mu.Unlock()

	log.Debug().Str("portal", profile.BaseURL).Msg("Portal session opened")
	return session, nil
}

func (a *Agent) login(ctx context.Context, s *Session, creds domain.OperatorCredentials) error {
	operator := creds.OperatorID
	d := s.driver
	sel := s.profile.Login

	navCtx, cancel := context.WithTimeout(ctx, a.timeouts.Navigation)
	defer cancel()

	if err := d.Navigate(navCtx, s.profile.LoginURL()); err != nil {
		return stepError(operator, "open login page", s.profile.LoginURL(), err)
	}
	if err := a.modal.dismiss(ctx, d); err != nil {
		return domain.NewExtractionError(operator, err)
	}
	if err := d.Fill(ctx, sel.Username, creds.Username); err != nil {
		return domain.NewExtractionError(operator, fmt.Errorf("fill username: %w", err))
	}
	if err := d.Fill(ctx, sel.Password, creds.Secret); err != nil {
		return domain.NewExtractionError(operator, fmt.Errorf("fill password: %w", err))
	}

	submitCtx, cancelSubmit := context.WithTimeout(ctx, a.timeouts.Navigation)
	defer cancelSubmit()
	if err := d.Submit(submitCtx, sel.Submit); err != nil {
		return stepError(operator, "submit login", sel.Submit, err)
	}
	if err := a.modal.dismiss(ctx, d); err != nil {
		return domain.NewExtractionError(operator, err)
	}

	if sel.ErrorMarker == "" {
		return nil
	}
	rejected, err := d.Exists(ctx, sel.ErrorMarker)
	if err != nil {
		return domain.NewExtractionError(operator, fmt.Errorf("inspect login result: %w", err))
	}
	if rejected {
		return domain.NewAuthenticationError(operator, fmt.Errorf("portal shows %s", sel.ErrorMarker))
	}
	return nil
}

// Close releases the session's page and browser. It is safe on nil, on sessions whose
// login failed, and when called more than once.
func (a *Agent) Close(s *Session) {
	if s == nil {
		return
	}

	s.mu.Lock()
	driver := s.driver
	s.driver = nil
	s.authenticated = false
	s.mu.Unlock()

	if driver == nil {
		return
	}
	if err := driver.Close(); err != nil {
		a.log.WithOperator(s.operatorID).Debug().Err(err).Msg("Closing browser")
	}
}
