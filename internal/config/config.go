// Package config provides application configuration management.
// It loads configuration from environment variables with support for .env files.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Directory backends.
const (
	DirectoryEnv   = "env"
	DirectoryFile  = "file"
	DirectoryMongo = "mongo"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Timeouts  TimeoutConfig
	Logging   LoggingConfig
	App       AppConfig
	Cache     CacheConfig
	Portal    PortalConfig
	Browser   BrowserConfig
	Directory DirectoryConfig
	Metrics   MetricsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"150s"`
}

// TimeoutConfig holds timeout settings for charter search operations.
type TimeoutConfig struct {
	GlobalSearch time.Duration `env:"TIMEOUT_GLOBAL_SEARCH" envDefault:"120s"`
	PerOperator  time.Duration `env:"TIMEOUT_PER_OPERATOR" envDefault:"90s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env string `env:"APP_ENV" envDefault:"development"`
}

// CacheConfig holds availability cache settings.
type CacheConfig struct {
	// TTL of 0 keeps entries until the cache is cleared
	TTL time.Duration `env:"CACHE_TTL" envDefault:"15m"`
}

// PortalConfig holds reservation portal settings and the single-operator bootstrap.
type PortalConfig struct {
	BaseURL      string `env:"XAEL_BASE_URL" envDefault:"https://xaelsuite.com"`
	OperatorID   string `env:"XAEL_OPERATOR_ID" envDefault:"xael"`
	OperatorName string `env:"XAEL_OPERATOR_NAME" envDefault:"XAEL Charters"`
	Username     string `env:"XAEL_USERNAME"`
	Password     string `env:"XAEL_PASSWORD"`
	SeatsTotal   int    `env:"XAEL_SEATS_TOTAL" envDefault:"10"`

	ModalTimeout      time.Duration `env:"PORTAL_MODAL_TIMEOUT" envDefault:"3s"`
	NavigationTimeout time.Duration `env:"PORTAL_NAVIGATION_TIMEOUT" envDefault:"30s"`
	ResultsTimeout    time.Duration `env:"PORTAL_RESULTS_TIMEOUT" envDefault:"30s"`
	LoginInterval     time.Duration `env:"PORTAL_LOGIN_INTERVAL" envDefault:"5s"`
	SessionMaxAge     time.Duration `env:"PORTAL_SESSION_MAX_AGE" envDefault:"20m"`
	MaxAttempts       int           `env:"SCRAPE_MAX_ATTEMPTS" envDefault:"2"`
}

// BrowserConfig holds headless browser settings.
type BrowserConfig struct {
	Headless  bool   `env:"BROWSER_HEADLESS" envDefault:"true"`
	ExecPath  string `env:"CHROME_PATH"`
	NoSandbox bool   `env:"BROWSER_NO_SANDBOX" envDefault:"false"`
	UserAgent string `env:"BROWSER_USER_AGENT"`
}

// DirectoryConfig selects where operators come from.
type DirectoryConfig struct {
	Backend       string `env:"DIRECTORY_BACKEND" envDefault:"env"`
	OperatorsFile string `env:"OPERATORS_FILE"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"charters"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `env:"METRICS_ENABLED" envDefault:"true"`
	Namespace string `env:"METRICS_NAMESPACE" envDefault:"charter"`
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first (optional - won't fail if missing).
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics on error.
// Use this in main() where configuration is required to start.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// validate checks configuration values for correctness.
func validate(cfg *Config) error {
	// Validate server port
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.Server.Port)
	}

	// Validate timeouts are positive
	positive := []struct {
		name  string
		value time.Duration
	}{
		{"SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout},
		{"TIMEOUT_GLOBAL_SEARCH", cfg.Timeouts.GlobalSearch},
		{"TIMEOUT_PER_OPERATOR", cfg.Timeouts.PerOperator},
		{"PORTAL_MODAL_TIMEOUT", cfg.Portal.ModalTimeout},
		{"PORTAL_NAVIGATION_TIMEOUT", cfg.Portal.NavigationTimeout},
		{"PORTAL_RESULTS_TIMEOUT", cfg.Portal.ResultsTimeout},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive", p.name)
		}
	}

	// Validate per-operator timeout is less than global timeout
	if cfg.Timeouts.PerOperator >= cfg.Timeouts.GlobalSearch {
		return fmt.Errorf("TIMEOUT_PER_OPERATOR (%s) should be less than TIMEOUT_GLOBAL_SEARCH (%s)",
			cfg.Timeouts.PerOperator, cfg.Timeouts.GlobalSearch)
	}

	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative")
	}
	if cfg.Portal.LoginInterval < 0 {
		return fmt.Errorf("PORTAL_LOGIN_INTERVAL must not be negative")
	}
	if cfg.Portal.SessionMaxAge < 0 {
		return fmt.Errorf("PORTAL_SESSION_MAX_AGE must not be negative")
	}
	if cfg.Portal.MaxAttempts < 1 {
		return fmt.Errorf("SCRAPE_MAX_ATTEMPTS must be at least 1, got %d", cfg.Portal.MaxAttempts)
	}
	if cfg.Portal.SeatsTotal < 0 {
		return fmt.Errorf("XAEL_SEATS_TOTAL must not be negative")
	}

	// Validate log level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", cfg.Logging.Level)
	}

	// Validate log format
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console; got %q", cfg.Logging.Format)
	}

	// Validate app environment
	validEnvs := map[string]bool{"development": true, "staging": true, "production": true}
	if !validEnvs[cfg.App.Env] {
		return fmt.Errorf("APP_ENV must be one of: development, staging, production; got %q", cfg.App.Env)
	}

	// Validate directory backend and its settings
	switch cfg.Directory.Backend {
	case DirectoryEnv:
		if strings.TrimSpace(cfg.Portal.OperatorID) == "" {
			return fmt.Errorf("XAEL_OPERATOR_ID is required when DIRECTORY_BACKEND=env")
		}
	case DirectoryFile:
		if cfg.Directory.OperatorsFile == "" {
			return fmt.Errorf("OPERATORS_FILE is required when DIRECTORY_BACKEND=file")
		}
	case DirectoryMongo:
		if cfg.Directory.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when DIRECTORY_BACKEND=mongo")
		}
	default:
		return fmt.Errorf("DIRECTORY_BACKEND must be one of: env, file, mongo; got %q", cfg.Directory.Backend)
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
