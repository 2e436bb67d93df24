// Package requesttime pins a single "now" per HTTP request so every timestamp
// written while serving it (treatments, status changes, appeal actions) agrees.
package requesttime

import (
	"net/http"
	"time"

	"github.com/Joenyengs/backend/pkg/requestcontext"
)

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

// Middleware captures time.Now at the start of the request.
func Middleware(next http.Handler) http.Handler {
	return WithClock(time.Now)(next)
}

// WithClock is Middleware with an injectable clock.
func WithClock(clock Clock) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithTime(r.Context(), clock().UTC())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
