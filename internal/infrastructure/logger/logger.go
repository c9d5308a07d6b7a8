// Package logger provides structured logging using zerolog.
// Loggers are built once at startup and passed down explicitly; there is no package-level instance.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds the logger configuration options.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `env:"LOG_LEVEL" envDefault:"info"`

	// Format is the output format (json, console)
	Format string `env:"LOG_FORMAT" envDefault:"json"`

	// EnableCaller adds caller information to log entries
	EnableCaller bool `env:"LOG_CALLER" envDefault:"false"`

	// ServiceName is attached to every entry
	ServiceName string `env:"SERVICE_NAME" envDefault:"charter-availability"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "charter-availability",
	}
}

// Logger wraps zerolog.Logger with domain-specific context helpers.
type Logger struct {
	zerolog.Logger
}

// New creates a Logger writing to stdout.
func New(cfg Config) *Logger {
	return NewWithOutput(cfg, os.Stdout)
}

// NewWithOutput creates a Logger writing to output.
func NewWithOutput(cfg Config, output io.Writer) *Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var writer io.Writer = output
	if cfg.Format == "console" {
		writer = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.ServiceName)
	if cfg.EnableCaller {
		ctx = ctx.Caller()
	}

	return &Logger{Logger: ctx.Logger()}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// With returns a child logger carrying key=value.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{Logger: l.Logger.With().Str(key, value).Logger()}
}

// WithRequestID tags entries with the HTTP request id.
func (l *Logger) WithRequestID(requestID string) *Logger {
	return l.With("request_id", requestID)
}

// WithSearchID tags entries with the aggregation search id.
func (l *Logger) WithSearchID(searchID string) *Logger {
	return l.With("search_id", searchID)
}

// WithOperator tags entries with the charter operator id.
func (l *Logger) WithOperator(operatorID string) *Logger {
	return l.With("operator", operatorID)
}

// Logf adapts the logger to printf-style hooks such as the browser driver's.
// Messages are emitted at debug level.
func (l *Logger) Logf(format string, args ...any) {
	l.Debug().Msg(fmt.Sprintf(format, args...))
}

// Errorf adapts the logger to printf-style error hooks.
func (l *Logger) Errorf(format string, args ...any) {
	l.Error().Msg(fmt.Sprintf(format, args...))
}
