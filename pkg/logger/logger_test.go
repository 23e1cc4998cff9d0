package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunedb/tunedb/pkg/config"
	"github.com/tunedb/tunedb/pkg/logger"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, logger.ParseLevel(tt.input))
		})
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(&config.LogConfig{Format: "json", Level: "info"}, &buf)
	l.Info("loading catalog", "albums", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "loading catalog", entry["msg"])
	assert.Equal(t, float64(3), entry["albums"])
}

func TestNewTextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(&config.LogConfig{Format: "text", Level: "warn"}, &buf)

	l.Info("should be filtered")
	assert.Empty(t, buf.String())

	l.Warn("rejected entry", "key", "Home")
	assert.Contains(t, buf.String(), "rejected entry")
	assert.Contains(t, buf.String(), "key=Home")
}
