// Package requestcontext carries request-scoped values that services read
// without importing net/http.
//
// The request time matters more than usual here: every status in a checklist
// is computed against "today", so a request, or a whole batch sweep, must see
// one clock reading.
package requestcontext

import (
	"context"
	"time"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	requestTimeKey
)

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// Now returns the pinned request time, or the wall clock when none was set.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the clock read by Now.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey, t)
}

// HasTime reports whether a clock has been pinned on ctx.
func HasTime(ctx context.Context) bool {
	_, ok := ctx.Value(requestTimeKey).(time.Time)
	return ok
}
