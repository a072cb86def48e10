// Package logger defines the structured logging contract used across the application.
package logger

import (
	"context"
)

// Logger is a structured logger. All log methods accept a message followed by key-value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With creates a child logger carrying the given key-value pairs.
	With(args ...any) Logger

	// WithContext creates a child logger tagged with the request ID found in ctx, if any.
	WithContext(ctx context.Context) Logger
}

type contextKey string

const requestIDKey contextKey = "request_id"

// ContextWithRequestID stores a request ID for later retrieval by WithContext.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request ID stored in ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}
