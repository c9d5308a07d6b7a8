package portal

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charter-search/charter-availability/internal/domain"
	"github.com/charter-search/charter-availability/internal/infrastructure/metrics"
	"github.com/charter-search/charter-availability/internal/infrastructure/timeutil"
)

var (
	xael = domain.Operator{
		ID:          "xael",
		DisplayName: "XAEL Charters",
		System:      "airmax",
		SeatsTotal:  12,
		Credentials: testCreds,
	}
	outbound = domain.AvailabilityQuery{From: "MIA", To: "HAV", Date: "2026-03-01", Leg: domain.LegOutbound}
)

func newTestSource(launcher *fakeLauncher, cfg SourceConfig, opts ...SourceOption) *Source {
	agent := NewAgent(launcher.Launch, XaelProfile())
	return NewSource(agent, NewExtractor(DefaultTimeouts(), nil), cfg, opts...)
}

func TestSource_Fetch(t *testing.T) {
	launcher := &fakeLauncher{}
	source := newTestSource(launcher, SourceConfig{})

	flights, err := source.Fetch(context.Background(), xael, outbound)
	require.NoError(t, err)
	require.Len(t, flights, 2)

	assert.Equal(t, "XL100", flights[0].Schedule.FlightNumber)
	assert.Equal(t, 12, flights[0].SeatsTotal)
	assert.Equal(t, domain.StatusLimited, flights[0].Status)
	assert.InDelta(t, 321.75, flights[0].Pricing.Regular.Total, 1e-9)
	assert.Equal(t, "14:30", flights[1].Schedule.Departure)
	assert.Equal(t, domain.StatusSoldOut, flights[1].Status)
}

func TestSource_ReusesSession(t *testing.T) {
	launcher := &fakeLauncher{}
	source := newTestSource(launcher, SourceConfig{})

	for i := 0; i < 3; i++ {
		_, err := source.Fetch(context.Background(), xael, outbound)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, launcher.count())
	assert.Equal(t, 1, source.Sessions())
}

func TestSource_DiscardsFailedSession(t *testing.T) {
	launcher := &fakeLauncher{}
	source := newTestSource(launcher, SourceConfig{})

	_, err := source.Fetch(context.Background(), xael, outbound)
	require.NoError(t, err)

	first := launcher.last()
	first.mu.Lock()
	first.visible[".flight-grid"] = false
	first.mu.Unlock()

	_, err = source.Fetch(context.Background(), xael, outbound)
	assert.ErrorIs(t, err, domain.ErrExtractionTimeout)
	assert.Equal(t, 1, first.closeCount())
	assert.Equal(t, 0, source.Sessions())

	_, err = source.Fetch(context.Background(), xael, outbound)
	require.NoError(t, err)
	assert.Equal(t, 2, launcher.count())
}

func TestSource_RetiresOldSessions(t *testing.T) {
	clock := timeutil.NewMockClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	launcher := &fakeLauncher{}
	agent := NewAgent(launcher.Launch, XaelProfile(), WithClock(clock))
	source := NewSource(agent, NewExtractor(DefaultTimeouts(), nil),
		SourceConfig{SessionMaxAge: 20 * time.Minute}, WithSourceClock(clock))

	_, err := source.Fetch(context.Background(), xael, outbound)
	require.NoError(t, err)

	clock.Advance(10 * time.Minute)
	_, err = source.Fetch(context.Background(), xael, outbound)
	require.NoError(t, err)
	assert.Equal(t, 1, launcher.count())

	clock.Advance(10 * time.Minute)
	_, err = source.Fetch(context.Background(), xael, outbound)
	require.NoError(t, err)
	assert.Equal(t, 2, launcher.count())
}

func TestSource_AuthenticationFailure(t *testing.T) {
	launcher := &fakeLauncher{newDriver: func() *fakeDriver {
		d := newFakeDriver()
		d.exists[".login-error"] = true
		return d
	}}
	reg := prometheus.NewRegistry()
	m := metrics.New("test", reg)
	source := newTestSource(launcher, SourceConfig{}, WithSourceMetrics(m))

	_, err := source.Fetch(context.Background(), xael, outbound)

	assert.ErrorIs(t, err, domain.ErrAuthentication)
	assert.False(t, domain.IsRetryable(err))
	assert.Equal(t, 0, source.Sessions())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.LoginsTotal.WithLabelValues("xael", metrics.OutcomeFailure)))
}

func TestSource_UnsupportedPlatform(t *testing.T) {
	launcher := &fakeLauncher{}
	source := newTestSource(launcher, SourceConfig{})

	op := xael
	op.System = "kiu"
	_, err := source.Fetch(context.Background(), op, outbound)

	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.Equal(t, 0, launcher.count())
}

func TestSource_SerializesPerOperator(t *testing.T) {
	var active, peak atomic.Int32
	launcher := &fakeLauncher{newDriver: func() *fakeDriver {
		d := newFakeDriver()
		d.active, d.peak = &active, &peak
		return d
	}}
	source := newTestSource(launcher, SourceConfig{})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := source.Fetch(context.Background(), xael, outbound)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), peak.Load())
	assert.Equal(t, 1, launcher.count())
}

func TestSource_Close(t *testing.T) {
	launcher := &fakeLauncher{}
	source := newTestSource(launcher, SourceConfig{})

	_, err := source.Fetch(context.Background(), xael, outbound)
	require.NoError(t, err)

	require.NoError(t, source.Close())
	require.NoError(t, source.Close())
	assert.Equal(t, 1, launcher.last().closeCount())

	_, err = source.Fetch(context.Background(), xael, outbound)
	assert.True(t, errors.Is(err, domain.ErrSessionClosed))
}

func TestSource_CancelledWhileWaiting(t *testing.T) {
	launcher := &fakeLauncher{}
	source := newTestSource(launcher, SourceConfig{})

	sl, err := source.slotFor("xael")
	require.NoError(t, err)
	sl.sem <- struct{}{}
	defer func() { <-sl.sem }()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = source.Fetch(ctx, xael, outbound)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, launcher.count())
}
