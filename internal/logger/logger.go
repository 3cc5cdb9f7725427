// Package logger provides the logging abstractions used by calltrace sinks.
// It ships adapters for log/slog and go-logr, and a Sanitizer that keeps
// secrets and oversized values out of trace output.
package logger

import (
	"log/slog"

	"github.com/go-logr/logr"
)

// Logger is the structured logger records are written to.
// Implementations should handle structured logging with key-value pairs.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs
	Debug(msg string, args ...any)
	// Info logs informational messages with optional key-value pairs
	Info(msg string, args ...any)
	// Warn logs warning messages with optional key-value pairs
	Warn(msg string, args ...any)
	// Error logs error messages with optional key-value pairs
	Error(msg string, args ...any)
}

// NoopLogger discards everything. Sinks use it when no logger is configured.
type NoopLogger struct{}

// Debug does nothing.
func (n *NoopLogger) Debug(_ string, _ ...any) {}

// Info does nothing.
func (n *NoopLogger) Info(_ string, _ ...any) {}

// Warn does nothing.
func (n *NoopLogger) Warn(_ string, _ ...any) {}

// Error does nothing.
func (n *NoopLogger) Error(_ string, _ ...any) {}

// SlogAdapter wraps log/slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new logger adapter wrapping an slog.Logger.
// The provided logger must not be nil.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Debug logs a debug-level message with structured key-value pairs.
func (a *SlogAdapter) Debug(msg string, args ...any) {
	a.logger.Debug(msg, args...)
}

// Info logs an info-level message with structured key-value pairs.
func (a *SlogAdapter) Info(msg string, args ...any) {
	a.logger.Info(msg, args...)
}

// Warn logs a warning-level message with structured key-value pairs.
func (a *SlogAdapter) Warn(msg string, args ...any) {
	a.logger.Warn(msg, args...)
}

// Error logs an error-level message with structured key-value pairs.
func (a *SlogAdapter) Error(msg string, args ...any) {
	a.logger.Error(msg, args...)
}

// LogrAdapter wraps a logr.Logger to implement the Logger interface.
//
// logr has no warn level: Debug maps to V(1), Info and Warn to V(0) with Warn
// tagged "level"="warn", and Error to Error with a nil error.
type LogrAdapter struct {
	logger logr.Logger
}

// NewLogrAdapter creates a new logger adapter wrapping a logr.Logger.
func NewLogrAdapter(logger logr.Logger) *LogrAdapter {
	return &LogrAdapter{logger: logger}
}

// Debug logs at verbosity 1.
func (a *LogrAdapter) Debug(msg string, args ...any) {
	a.logger.V(1).Info(msg, args...)
}

// Info logs at verbosity 0.
func (a *LogrAdapter) Info(msg string, args ...any) {
	a.logger.Info(msg, args...)
}

// Warn logs at verbosity 0 with a level=warn pair.
func (a *LogrAdapter) Warn(msg string, args ...any) {
	a.logger.Info(msg, append([]any{"level", "warn"}, args...)...)
}

// Error logs through logr's error path.
func (a *LogrAdapter) Error(msg string, args ...any) {
	a.logger.Error(nil, msg, args...)
}
