package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeLimiter struct {
	allowed bool
	err     error
	scopes  []string
}

func (f *fakeLimiter) FixedWindowAllow(_ context.Context, scope string, _ int64, _ time.Duration) (bool, int64, error) {
	f.scopes = append(f.scopes, scope)
	return f.allowed, 1, f.err
}

func TestRateLimitAllowsUnderBudget(t *testing.T) {
	limiter := &fakeLimiter{allowed: true}
	policy := RateLimitPolicy{Scope: "api", Limit: 10, Window: time.Minute}
	mw := RateLimit(limiter, policy, nil)

	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stock/abc", nil)
	req.RemoteAddr = "203.0.113.9:51234"
	mw(handler).ServeHTTP(httptest.NewRecorder(), req)

	if !handlerCalled {
		t.Fatalf("expected request to pass through")
	}
	if len(limiter.scopes) != 1 || limiter.scopes[0] != "api:203.0.113.9" {
		t.Fatalf("unexpected limiter scopes %v", limiter.scopes)
	}
}

func TestRateLimitRejectsOverBudget(t *testing.T) {
	limiter := &fakeLimiter{allowed: false}
	policy := RateLimitPolicy{Scope: "api", Limit: 1, Window: time.Minute}
	mw := RateLimit(limiter, policy, nil)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run when limited")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stock/abc", nil)
	rec := httptest.NewRecorder()
	mw(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", rec.Code)
	}
}

func TestRateLimitFailsOpenOnLimiterError(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis down")}
	policy := RateLimitPolicy{Scope: "api", Limit: 1, Window: time.Minute}
	mw := RateLimit(limiter, policy, nil)

	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})

	mw(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !handlerCalled {
		t.Fatalf("limiter outage must not block traffic")
	}
}

func TestRateLimitUsesForwardedClientIP(t *testing.T) {
	limiter := &fakeLimiter{allowed: true}
	policy := RateLimitPolicy{Scope: "api", Limit: 10, Window: time.Minute}
	mw := RateLimit(limiter, policy, nil)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.2")
	mw(handler).ServeHTTP(httptest.NewRecorder(), req)

	if len(limiter.scopes) != 1 || limiter.scopes[0] != "api:198.51.100.7" {
		t.Fatalf("unexpected limiter scopes %v", limiter.scopes)
	}
}
