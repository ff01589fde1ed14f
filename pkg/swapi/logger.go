package swapi

import (
	"log/slog"
	"maps"
	"slices"
)

// SlogLogger adapts a *slog.Logger to Logger.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps logger. A nil logger falls back to slog.Default().
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}

	return &SlogLogger{logger: logger}
}

// Slog returns the wrapped logger.
func (l *SlogLogger) Slog() *slog.Logger {
	return l.logger
}

func (l *SlogLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, toArgs(fields)...)
}

func (l *SlogLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, toArgs(fields)...)
}

func (l *SlogLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, toArgs(fields)...)
}

func (l *SlogLogger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, toArgs(fields)...)
}

// toArgs flattens fields into slog key/value pairs in key order.
func toArgs(fields map[string]interface{}) []any {
	if len(fields) == 0 {
		return nil
	}

	args := make([]any, 0, len(fields)*2)
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		args = append(args, key, fields[key])
	}

	return args
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, map[string]interface{}) {}
func (NopLogger) Info(string, map[string]interface{})  {}
func (NopLogger) Warn(string, map[string]interface{})  {}
func (NopLogger) Error(string, map[string]interface{}) {}
