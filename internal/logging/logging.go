// Package logging builds the process logger.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New creates a text logger writing to w. Debug mode lowers the level to
// debug; otherwise only warnings and errors are written.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	return NewWithLevel(w, level)
}

// NewWithLevel creates a text logger with an explicit level.
func NewWithLevel(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// LevelFromString converts debug, info, warn or error (any case) to a
// level. ok is false for anything else.
func LevelFromString(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
