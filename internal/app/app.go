// Package app assembles the charter availability service from configuration.
// The HTTP server and the command line tool share this wiring.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/charter-search/charter-availability/internal/adapter/directory"
	"github.com/charter-search/charter-availability/internal/adapter/portal"
	"github.com/charter-search/charter-availability/internal/config"
	"github.com/charter-search/charter-availability/internal/domain"
	"github.com/charter-search/charter-availability/internal/infrastructure/browser"
	"github.com/charter-search/charter-availability/internal/infrastructure/cache"
	"github.com/charter-search/charter-availability/internal/infrastructure/logger"
	"github.com/charter-search/charter-availability/internal/infrastructure/metrics"
	"github.com/charter-search/charter-availability/internal/infrastructure/persistence"
	"github.com/charter-search/charter-availability/internal/infrastructure/retry"
	"github.com/charter-search/charter-availability/internal/infrastructure/timeutil"
	"github.com/charter-search/charter-availability/internal/usecase"
)

const (
	serviceName         = "charter-availability"
	mongoConnectTimeout = 10 * time.Second
)

// App holds the long-lived components of the service.
type App struct {
	Config    *config.Config
	Logger    *logger.Logger
	Metrics   *metrics.Metrics
	Cache     *cache.Memory
	Source    *portal.Source
	Directory domain.OperatorDirectory
	UseCase   usecase.CharterSearchUseCase

	mongo       *mongo.Client
	stopJanitor func()
}

// Option customizes the assembly.
type Option func(*options)

type options struct {
	logger    *logger.Logger
	launch    portal.LaunchFunc
	directory domain.OperatorDirectory
	clock     timeutil.Clock
}

// WithLogger replaces the logger built from configuration.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithLaunchFunc replaces the headless Chrome launcher.
func WithLaunchFunc(fn portal.LaunchFunc) Option {
	return func(o *options) { o.launch = fn }
}

// WithDirectory replaces the configured operator directory.
func WithDirectory(d domain.OperatorDirectory) Option {
	return func(o *options) { o.directory = d }
}

// WithClock replaces the wall clock.
func WithClock(c timeutil.Clock) Option {
	return func(o *options) { o.clock = c }
}

// New builds every component named by cfg. The caller must Close the result.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.clock == nil {
		o.clock = timeutil.NewRealClock()
	}
	if o.logger == nil {
		o.logger = logger.New(logger.Config{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			ServiceName: serviceName,
		})
	}

	a := &App{Config: cfg, Logger: o.logger}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		a.Metrics = metrics.New(cfg.Metrics.Namespace, reg)
	}

	a.Cache = cache.New(cfg.Cache.TTL, o.clock)
	a.stopJanitor = a.Cache.StartJanitor(a.Cache.TTL())

	launch := o.launch
	if launch == nil {
		launch = chromeLauncher(cfg, o.logger)
	}

	timeouts := portal.Timeouts{
		Modal:      cfg.Portal.ModalTimeout,
		Navigation: cfg.Portal.NavigationTimeout,
		Results:    cfg.Portal.ResultsTimeout,
	}
	agent := portal.NewAgent(launch, portal.XaelProfile(),
		portal.WithTimeouts(timeouts),
		portal.WithLogger(o.logger),
		portal.WithClock(o.clock),
	)
	a.Source = portal.NewSource(agent, portal.NewExtractor(timeouts, o.logger),
		portal.SourceConfig{
			LoginInterval: cfg.Portal.LoginInterval,
			SessionMaxAge: cfg.Portal.SessionMaxAge,
		},
		portal.WithSourceMetrics(a.Metrics),
		portal.WithSourceLogger(o.logger),
		portal.WithSourceClock(o.clock),
	)

	a.Directory = o.directory
	if a.Directory == nil {
		dir, err := a.openDirectory(ctx)
		if err != nil {
			a.stopJanitor()
			_ = a.Source.Close()
			return nil, err
		}
		a.Directory = dir
	}

	a.UseCase = usecase.NewCharterSearchUseCase(usecase.Dependencies{
		Directory: a.Directory,
		Source:    a.Source,
		Cache:     a.Cache,
		Clock:     o.clock,
		Metrics:   a.Metrics,
		Logger:    o.logger,
	}, &usecase.Config{
		GlobalTimeout:   cfg.Timeouts.GlobalSearch,
		OperatorTimeout: cfg.Timeouts.PerOperator,
		Retry:           retry.ScrapeConfig.WithMaxAttempts(cfg.Portal.MaxAttempts),
	})

	return a, nil
}

func (a *App) openDirectory(ctx context.Context) (domain.OperatorDirectory, error) {
	cfg := a.Config
	switch cfg.Directory.Backend {
	case config.DirectoryFile:
		dir, err := directory.LoadFile(cfg.Directory.OperatorsFile)
		if err != nil {
			return nil, fmt.Errorf("load operators file: %w", err)
		}
		a.Logger.Info().
			Str("file", cfg.Directory.OperatorsFile).
			Strs("operators", dir.IDs()).
			Msg("Loaded operator directory")
		return dir, nil

	case config.DirectoryMongo:
		client, err := persistence.NewMongoClient(ctx, cfg.Directory.MongoURI, mongoConnectTimeout)
		if err != nil {
			return nil, fmt.Errorf("connect operator directory: %w", err)
		}
		a.mongo = client
		return directory.NewMongo(client.Database(cfg.Directory.MongoDatabase)), nil

	default:
		dir, err := directory.NewEnv(directory.EnvOperator{
			ID:         cfg.Portal.OperatorID,
			Title:      cfg.Portal.OperatorName,
			System:     portal.XaelProfile().Name,
			PortalURL:  cfg.Portal.BaseURL,
			SeatsTotal: cfg.Portal.SeatsTotal,
			Username:   cfg.Portal.Username,
			Secret:     cfg.Portal.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("build operator from environment: %w", err)
		}
		return dir, nil
	}
}

// Close stops cache pruning and releases pooled portal sessions and the directory connection.
func (a *App) Close(ctx context.Context) error {
	if a.stopJanitor != nil {
		a.stopJanitor()
	}

	var errs []error
	if a.Source != nil {
		if err := a.Source.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close portal sessions: %w", err))
		}
	}
	if a.mongo != nil {
		if err := a.mongo.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("disconnect operator directory: %w", err))
		}
	}
	return errors.Join(errs...)
}

// chromeLauncher adapts the headless Chrome launcher to the portal driver port.
func chromeLauncher(cfg *config.Config, log *logger.Logger) portal.LaunchFunc {
	bcfg := browser.DefaultConfig()
	bcfg.Headless = cfg.Browser.Headless
	bcfg.ExecPath = cfg.Browser.ExecPath
	bcfg.NoSandbox = cfg.Browser.NoSandbox
	bcfg.UserAgent = cfg.Browser.UserAgent
	bcfg.ActionTimeout = cfg.Portal.NavigationTimeout

	launcher := browser.NewLauncher(bcfg, log)
	return func(ctx context.Context) (portal.Driver, error) {
		tab, err := launcher.Launch(ctx)
		if err != nil {
			return nil, err
		}
		return tab, nil
	}
}
