// Package logging provides structured logging utilities using the standard library's log/slog package.
// It offers helper functions for creating loggers with consistent configuration and context propagation.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// ParseLevel maps a configured level name to a slog level.
// Supported levels: debug, info, warn, error
// Default level: info
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

// NewLogger creates a new structured logger with JSON output written to w.
// The console owns stdout, so callers normally pass os.Stderr.
func NewLogger(w io.Writer, level string) *slog.Logger {
	logLevel := ParseLevel(level)

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: logLevel,
		// Add source code location when debugging
		AddSource: logLevel <= slog.LevelDebug,
	})

	return slog.New(handler)
}

// NewTextLogger creates a new structured logger with human-readable text output.
// This is useful for local development and debugging.
func NewTextLogger(w io.Writer, level string) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})

	return slog.New(handler)
}

// NewOperation starts a console operation: it assigns a fresh operation ID and stores
// a logger carrying it in the returned context.
func NewOperation(ctx context.Context, logger *slog.Logger, name string) context.Context {
	id := uuid.New().String()
	ctx = context.WithValue(ctx, operationIDContextKey, id)
	return WithLogger(ctx, logger.With("operation_id", id, "operation", name))
}

// OperationIDFromContext returns the operation ID, or an empty string if none was assigned.
func OperationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(operationIDContextKey).(string); ok {
		return id
	}
	return ""
}

// WithFields returns a new logger with additional structured fields.
// Fields are provided as key-value pairs.
func WithFields(logger *slog.Logger, fields map[string]interface{}) *slog.Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return logger.With(args...)
}

// FromContext retrieves the logger from the context, or returns the default logger if not found.
// This enables passing loggers through the application via context.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

type contextKey string

const (
	loggerContextKey      contextKey = "logger"
	operationIDContextKey contextKey = "operation_id"
)
