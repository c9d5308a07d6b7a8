package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	return result
}

func TestNewLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(Config{Level: "info", Format: "json", ServiceName: "test-service"}, &buf)
	log.Info().Msg("scrape finished")

	result := decode(t, &buf)
	assert.Equal(t, "info", result["level"])
	assert.Equal(t, "scrape finished", result["message"])
	assert.Equal(t, "test-service", result["service"])
	assert.NotEmpty(t, result["time"])
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(Config{Level: "info", Format: "console", ServiceName: "test"}, &buf)
	log.Info().Msg("scrape finished")

	assert.Contains(t, buf.String(), "scrape finished")
	assert.Contains(t, buf.String(), "INF")
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name        string
		configLevel string
		logLevel    string
		shouldLog   bool
	}{
		{"debug logged at debug level", "debug", "debug", true},
		{"debug dropped at info level", "info", "debug", false},
		{"warn logged at info level", "info", "warn", true},
		{"info dropped at warn level", "warn", "info", false},
		{"error logged at error level", "error", "error", true},
		{"upper-case level accepted", "WARN", "warn", true},
		{"invalid level falls back to info", "verbose", "info", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithOutput(Config{Level: tt.configLevel, Format: "json", ServiceName: "test"}, &buf)

			switch tt.logLevel {
			case "debug":
				log.Debug().Msg("test")
			case "info":
				log.Info().Msg("test")
			case "warn":
				log.Warn().Msg("test")
			case "error":
				log.Error().Msg("test")
			}

			if tt.shouldLog {
				assert.NotEmpty(t, buf.String())
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestNewLogger_WithCaller(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(Config{Level: "info", Format: "json", ServiceName: "test", EnableCaller: true}, &buf)
	log.Info().Msg("test")

	result := decode(t, &buf)
	require.Contains(t, result, "caller")
	assert.Contains(t, result["caller"].(string), "logger_test.go")
}

func TestLogger_ContextHelpers(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(Config{Level: "info", Format: "json", ServiceName: "test"}, &buf)

	log.WithRequestID("req-123").WithSearchID("search-9").WithOperator("xael").Info().Msg("test")

	result := decode(t, &buf)
	assert.Equal(t, "req-123", result["request_id"])
	assert.Equal(t, "search-9", result["search_id"])
	assert.Equal(t, "xael", result["operator"])
}

func TestLogger_Logf(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(Config{Level: "debug", Format: "json", ServiceName: "test"}, &buf)

	log.Logf("navigated to %s", "https://portal.example/login.aspx")

	result := decode(t, &buf)
	assert.Equal(t, "debug", result["level"])
	assert.Equal(t, "navigated to https://portal.example/login.aspx", result["message"])
}

func TestLogger_Errorf(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(Config{Level: "info", Format: "json", ServiceName: "test"}, &buf)

	log.Errorf("target %d crashed", 3)

	result := decode(t, &buf)
	assert.Equal(t, "error", result["level"])
	assert.Equal(t, "target 3 crashed", result["message"])
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Info().Msg("this should not appear")
	log.Logf("nor %s", "this")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.False(t, cfg.EnableCaller)
	assert.Equal(t, "charter-availability", cfg.ServiceName)
}
