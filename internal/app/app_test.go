package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charter-search/charter-availability/internal/adapter/portal"
	"github.com/charter-search/charter-availability/internal/config"
	"github.com/charter-search/charter-availability/internal/domain"
	"github.com/charter-search/charter-availability/internal/infrastructure/logger"
	"github.com/charter-search/charter-availability/internal/infrastructure/timeutil"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: 8080, ReadTimeout: 10 * time.Second, WriteTimeout: 150 * time.Second},
		Timeouts: config.TimeoutConfig{GlobalSearch: 5 * time.Second, PerOperator: 2 * time.Second},
		Logging:  config.LoggingConfig{Level: "error", Format: "json"},
		App:      config.AppConfig{Env: "development"},
		Cache:    config.CacheConfig{TTL: 15 * time.Minute},
		Portal: config.PortalConfig{
			BaseURL:           "https://portal.test",
			OperatorID:        "xael",
			OperatorName:      "XAEL Charters",
			Username:          "agent",
			Password:          "s3cret",
			SeatsTotal:        10,
			ModalTimeout:      10 * time.Millisecond,
			NavigationTimeout: time.Second,
			ResultsTimeout:    time.Second,
			MaxAttempts:       1,
		},
		Directory: config.DirectoryConfig{Backend: config.DirectoryEnv, MongoDatabase: "charters"},
		Metrics:   config.MetricsConfig{Enabled: true, Namespace: "charter_test"},
	}
}

func failingLauncher(count *atomic.Int32) portal.LaunchFunc {
	return func(ctx context.Context) (portal.Driver, error) {
		count.Add(1)
		return nil, errors.New("chrome not installed")
	}
}

func searchParams() domain.SearchParams {
	return domain.SearchParams{
		Origin:        "MIA",
		Destination:   "HAV",
		DepartureDate: "2026-03-01",
		Passengers:    1,
		TripType:      domain.TripOneWay,
	}
}

func TestNew_EnvDirectory(t *testing.T) {
	var launches atomic.Int32
	a, err := New(context.Background(), testConfig(), WithLogger(logger.Nop()), WithLaunchFunc(failingLauncher(&launches)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	require.NotNil(t, a.Metrics)
	require.NotNil(t, a.Cache)
	assert.Equal(t, 15*time.Minute, a.Cache.TTL())

	summaries, err := a.UseCase.Operators(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "xael", summaries[0].ID)
	assert.Equal(t, "XAEL Charters", summaries[0].Title)
}

func TestNew_SearchThroughContainer(t *testing.T) {
	var launches atomic.Int32
	a, err := New(context.Background(), testConfig(), WithLogger(logger.Nop()), WithLaunchFunc(failingLauncher(&launches)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	result, err := a.UseCase.SearchAll(context.Background(), searchParams())
	require.NoError(t, err)

	assert.True(t, result.AllFailed())
	require.Len(t, result.Failures, 1)
	assert.Equal(t, domain.FailureExtraction, result.Failures[0].Kind)
	assert.Equal(t, int32(1), launches.Load())
	assert.Empty(t, a.Cache.Entries(), "failures are not cached")
}

func TestNew_MissingCredentialsNeverLaunch(t *testing.T) {
	cfg := testConfig()
	cfg.Portal.Username = ""
	cfg.Portal.Password = ""

	var launches atomic.Int32
	a, err := New(context.Background(), cfg, WithLogger(logger.Nop()), WithLaunchFunc(failingLauncher(&launches)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	result, err := a.UseCase.SearchAll(context.Background(), searchParams())
	require.NoError(t, err)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, domain.FailureAuthentication, result.Failures[0].Kind)
	assert.Zero(t, launches.Load())
}

func TestNew_MetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = false

	a, err := New(context.Background(), cfg, WithLogger(logger.Nop()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	assert.Nil(t, a.Metrics)
}

func TestNew_FileDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "operators.json")
	doc := `[
		{"id": "xael", "title": "XAEL Charters", "system": "airmax", "username": "agent", "secretEnv": "APP_TEST_XAEL_SECRET"},
		{"id": "havana-air", "title": "Havana Air", "system": "airmax", "username": "agent2", "secret": "pw", "enabled": false}
	]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cfg := testConfig()
	cfg.Directory.Backend = config.DirectoryFile
	cfg.Directory.OperatorsFile = path

	var logs bytes.Buffer
	log := logger.NewWithOutput(logger.Config{Level: "info", Format: "json"}, &logs)

	a, err := New(context.Background(), cfg, WithLogger(log))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	operators, err := a.Directory.List(context.Background())
	require.NoError(t, err)
	require.Len(t, operators, 1)
	assert.Equal(t, "xael", operators[0].ID)
	assert.Contains(t, logs.String(), `"operators":["xael"]`)
}

func TestNew_DirectoryErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *config.Config)
		wantErr string
	}{
		{
			name: "missing operators file",
			mutate: func(cfg *config.Config) {
				cfg.Directory.Backend = config.DirectoryFile
				cfg.Directory.OperatorsFile = filepath.Join(t.TempDir(), "absent.json")
			},
			wantErr: "load operators file",
		},
		{
			name: "malformed mongo uri",
			mutate: func(cfg *config.Config) {
				cfg.Directory.Backend = config.DirectoryMongo
				cfg.Directory.MongoURI = "not-a-mongo-uri"
			},
			wantErr: "connect operator directory",
		},
		{
			name: "blank env operator",
			mutate: func(cfg *config.Config) {
				cfg.Portal.OperatorID = ""
			},
			wantErr: "build operator from environment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)

			a, err := New(context.Background(), cfg, WithLogger(logger.Nop()))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Nil(t, a)
		})
	}
}

func TestNew_WithDirectoryOverride(t *testing.T) {
	registry := domain.NewOperatorRegistry(
		domain.Operator{ID: "cubazul", DisplayName: "Cuba Azul"},
		domain.Operator{ID: "xael", DisplayName: "XAEL"},
	)

	a, err := New(context.Background(), testConfig(), WithLogger(logger.Nop()), WithDirectory(registry))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	summaries, err := a.UseCase.Operators(context.Background())
	require.NoError(t, err)
	assert.Len(t, summaries, 2)
}

func TestNew_PrunesExpiredCacheEntries(t *testing.T) {
	clock := timeutil.NewMockClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	cfg := testConfig()
	cfg.Cache.TTL = 5 * time.Millisecond

	a, err := New(context.Background(), cfg, WithLogger(logger.Nop()), WithClock(clock))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	a.Cache.Put(domain.CacheKey{OperatorID: "xael", Destination: "HAV", Date: "2026-03-01"}, nil)
	require.Equal(t, 1, a.Cache.Len())

	clock.Advance(time.Hour)

	assert.Eventually(t, func() bool { return a.Cache.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(context.Background(), nil)
	assert.Error(t, err)
}

func TestClose_Idempotent(t *testing.T) {
	a, err := New(context.Background(), testConfig(), WithLogger(logger.Nop()))
	require.NoError(t, err)

	assert.NoError(t, a.Close(context.Background()))
	assert.NoError(t, a.Close(context.Background()))
}
