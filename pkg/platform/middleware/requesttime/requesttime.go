// Package requesttime pins one clock reading per request so every
// requirement in a checklist is judged against the same "today".
package requesttime

import (
	"net/http"
	"time"

	"docket/pkg/requestcontext"
)

func Middleware(next http.Handler) http.Handler {
	return MiddlewareWithClock(time.Now)(next)
}

// MiddlewareWithClock reads clock once per request. A time already pinned
// by an outer layer is left alone.
func MiddlewareWithClock(clock func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requestcontext.HasTime(r.Context()) {
				next.ServeHTTP(w, r)
				return
			}
			ctx := requestcontext.WithTime(r.Context(), clock())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
