// Package requestcontext carries request-scoped values (request ID, client
// address, user agent, request time) through context.Context so the signup
// service and geolocation lookups can read them without importing net/http.
package requestcontext

import (
	"context"
	"time"
)

type (
	clientKey      struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// client is the caller as seen by the HTTP edge.
type client struct {
	ip        string
	userAgent string
}

func lookup[T any](ctx context.Context, key any) (T, bool) {
	v, ok := ctx.Value(key).(T)
	return v, ok
}

// ClientIP is the caller's address, used to seed the draft's country.
func ClientIP(ctx context.Context) string {
	c, _ := lookup[client](ctx, clientKey{})
	return c.ip
}

// UserAgent is the caller's User-Agent header.
func UserAgent(ctx context.Context) string {
	c, _ := lookup[client](ctx, clientKey{})
	return c.userAgent
}

// WithClientMetadata records the caller's address and user agent.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	return context.WithValue(ctx, clientKey{}, client{ip: clientIP, userAgent: userAgent})
}

func RequestID(ctx context.Context) string {
	id, _ := lookup[string](ctx, requestIDKey{})
	return id
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now is the time the request arrived. Draft expiry and creation stamps are
// computed against it so one request sees one clock. Outside a request it is
// the wall clock.
func Now(ctx context.Context) time.Time {
	if t, ok := lookup[time.Time](ctx, requestTimeKey{}); ok {
		return t
	}
	return time.Now()
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
