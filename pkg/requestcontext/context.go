// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Middleware on the mock backend sets these values; the registration client
// reads them when building outbound requests so both sides log the same
// request ID.
//
//	ctx = requestcontext.WithRequestID(ctx, requestID)
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
package requestcontext

import (
	"context"
	"time"
)

type (
	requestIDKey   struct{}
	degreeCodeKey  struct{}
	requestTimeKey struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyDegreeCode  = degreeCodeKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// -----------------------------------------------------------------------------
// Request metadata
// -----------------------------------------------------------------------------

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// DegreeCode retrieves the degree programme code the caller selected.
func DegreeCode(ctx context.Context) string {
	if code, ok := ctx.Value(ContextKeyDegreeCode).(string); ok {
		return code
	}
	return ""
}

// WithDegreeCode injects the degree programme code into the context.
func WithDegreeCode(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, ContextKeyDegreeCode, code)
}

// -----------------------------------------------------------------------------
// Request time
// -----------------------------------------------------------------------------

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
// Useful for handler tests that assert on issued-at or expiry values.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
