// Package logtrace provides logging and tracing utilities for the client.
// It integrates with zerolog for structured logging and supports request tracing.
package logtrace

import (
	"context"
	"os"
)

type contextKey string

const requestIdKey contextKey = "requestId"

// WithRequestId returns a context carrying the given request ID.
// Requests executed with this context reuse the ID instead of minting one.
func WithRequestId(ctx context.Context, requestId string) context.Context {
	return context.WithValue(ctx, requestIdKey, requestId)
}

// RequestIdFromContext extracts the request ID from the context.
// Returns an empty string if the context is nil or if no request ID is found.
func RequestIdFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	r, ok := ctx.Value(requestIdKey).(string)
	if !ok {
		return ""
	}
	return r
}

// IsTraceEnabled reports whether wire-level payload tracing is enabled.
// Controlled by the DQM_TRACE environment variable.
func IsTraceEnabled() bool {
	return os.Getenv("DQM_TRACE") != ""
}
