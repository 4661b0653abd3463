package middleware

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/ratelimit"
	"github.com/go-chi/jwtauth/v5"
)

// RateLimit throttles a route per caller. The caller is the token's user_id
// when present, otherwise the client IP. Limiter failures let the request
// through.
func RateLimit(limiter ratelimit.Limiter, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := route + ":" + callerKey(r)

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				slog.Warn("Rate limiter unavailable, allowing request", "route", route, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				metrics.IncRateLimited(route)
				response.TooManyRequests(w, "Too many requests, please slow down", limiter.RetryAfter())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func callerKey(r *http.Request) string {
	if _, claims, err := jwtauth.FromContext(r.Context()); err == nil {
		if userID, ok := claims["user_id"].(string); ok && userID != "" {
			return "user:" + userID
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
