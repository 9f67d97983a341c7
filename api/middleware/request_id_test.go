package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestRequestIDKeepsWellFormedCallerID(t *testing.T) {
	supplied := uuid.NewString()
	var seen string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = w.Header().Get(requestIDHeader)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/carts", nil)
	req.Header.Set(requestIDHeader, supplied)
	rec := httptest.NewRecorder()
	RequestID(nil)(handler).ServeHTTP(rec, req)

	if seen != supplied {
		t.Fatalf("expected caller id %s to pass through, got %s", supplied, seen)
	}
	if rec.Header().Get(requestIDHeader) != supplied {
		t.Fatalf("expected caller id echoed on the response")
	}
}

func TestRequestIDReplacesMalformedCallerID(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/carts", nil)
	req.Header.Set(requestIDHeader, "not-a-uuid; drop table")
	rec := httptest.NewRecorder()
	RequestID(nil)(handler).ServeHTTP(rec, req)

	echoed := rec.Header().Get(requestIDHeader)
	if _, err := uuid.Parse(echoed); err != nil {
		t.Fatalf("expected a minted uuid, got %q", echoed)
	}
}

func TestRequestIDMintsWhenHeaderMissing(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	RequestID(nil)(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	echoed := rec.Header().Get(requestIDHeader)
	if _, err := uuid.Parse(echoed); err != nil {
		t.Fatalf("expected a minted uuid, got %q", echoed)
	}
}
