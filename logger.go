package lsh

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with lsh-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithFamily adds the hash family to the logger.
func (l *Logger) WithFamily(f Family) *Logger {
	return &Logger{
		Logger: l.Logger.With("family", f.String()),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// LogBuild logs the outcome of a table construction.
func (l *Logger) LogBuild(ctx context.Context, params Parameters, numPoints int, backend string, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "table construction failed",
			"points", numPoints,
			"family", params.Family.String(),
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "table constructed",
		"points", numPoints,
		"family", params.Family.String(),
		"k", params.K,
		"l", params.L,
		"backend", backend,
		"duration", elapsed,
	)
}

// LogQuery logs a query operation.
func (l *Logger) LogQuery(ctx context.Context, op string, numProbes, results int, err error) {
	if err != nil {
		l.DebugContext(ctx, "query failed",
			"op", op,
			"num_probes", numProbes,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "query completed",
		"op", op,
		"num_probes", numProbes,
		"results", results,
	)
}
