package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/leduxro-prog/erp-dashboard-sub012/api/responses"
	pkgerrors "github.com/leduxro-prog/erp-dashboard-sub012/pkg/errors"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/logger"
)

// FixedWindowLimiter is the counter surface of pkg/redis.
type FixedWindowLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimitPolicy is one named fixed-window budget.
type RateLimitPolicy struct {
	Scope  string
	Limit  int64
	Window time.Duration
}

// RateLimit enforces a per-client-IP fixed window. Limiter outages fail
// open: an unreachable Redis should not take checkout down with it.
func RateLimit(limiter FixedWindowLimiter, policy RateLimitPolicy, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || policy.Limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			scope := policy.Scope + ":" + clientIP(r)
			allowed, _, err := limiter.FixedWindowAllow(r.Context(), scope, policy.Limit, policy.Window)
			if err != nil {
				if logg != nil {
					logg.Warn(r.Context(), "rate limiter unavailable, failing open")
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// first hop is the client
		if idx := strings.IndexByte(forwarded, ','); idx >= 0 {
			forwarded = forwarded[:idx]
		}
		return strings.TrimSpace(forwarded)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
