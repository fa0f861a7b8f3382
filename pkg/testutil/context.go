package testutil

import (
	"net/http"
	"time"

	"signup/pkg/requestcontext"
)

// WithClient sets the client IP and User-Agent the way the metadata
// middleware would.
func WithClient(req *http.Request, ip, userAgent string) *http.Request {
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), ip, userAgent))
}

// WithRequestTime pins the request-scoped clock.
func WithRequestTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}

// ClientMiddleware applies WithClient to every request passing through.
func ClientMiddleware(ip string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, WithClient(r, ip, r.UserAgent()))
		})
	}
}
