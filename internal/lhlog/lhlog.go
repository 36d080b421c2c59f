// Package lhlog provides the small amount of structured logging the
// coordinator needs at its I/O decision points (page-chain extension,
// overflow-page splicing, split execution, corruption detection). Built directly on
// log/slog, the standard library's own answer to this amount of need.
package lhlog

import (
	"io"
	"log/slog"
)

// Logger is a thin wrapper around *slog.Logger fixing a "component"
// attribute so every line this package emits is easy to filter.
type Logger struct {
	l *slog.Logger
}

// New wraps base, or a discard logger if base is nil.
func New(base *slog.Logger) *Logger {
	if base == nil {
		base = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Logger{l: base.With("component", "linearhashmap")}
}

// Debug logs a diagnostic-level message.
func (lg *Logger) Debug(msg string, args ...any) {
	lg.l.Debug(msg, args...)
}

// Info logs an informational message.
func (lg *Logger) Info(msg string, args ...any) {
	lg.l.Info(msg, args...)
}

// Warn logs a message about a condition the caller should pay attention
// to (corruption detected, high load factor).
func (lg *Logger) Warn(msg string, args ...any) {
	lg.l.Warn(msg, args...)
}
