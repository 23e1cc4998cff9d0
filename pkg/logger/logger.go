// Package logger builds slog loggers from tunedb configuration.
package logger

import (
	"io"
	"log/slog"
	"strings"

	"github.com/tunedb/tunedb/pkg/config"
)

// New creates a slog.Logger writing to w, respecting the level and
// format from the config. Invalid values default to Info and text.
func New(cfg *config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// ParseLevel converts a string log level to slog.Level. Valid levels
// are "debug", "info", "warn" and "error" (case-insensitive); invalid
// levels default to Info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
