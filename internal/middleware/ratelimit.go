package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"
)

// Limiter counts hits per key and reports whether a hit is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// NewRateLimiter returns a middleware that throttles requests per caller
// within scope. Authenticated callers are keyed by user id, anonymous ones by
// client IP. When the limiter itself fails the request is let through.
func NewRateLimiter(scope string, l Limiter, retryAfter time.Duration, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := scope + ":" + callerKey(r)

			allowed, err := l.Allow(r.Context(), key)
			if err != nil {
				log.ErrorContext(r.Context(), "rate limiter unavailable",
					slog.String("scope", scope),
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
				writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests, try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func callerKey(r *http.Request) string {
	if id := UserID(r.Context()); id != "" {
		return "user:" + id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
