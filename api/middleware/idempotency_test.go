package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	return true, nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func checkoutRequest(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
}

func TestIdempotencyIgnoresOtherRoutes(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/carts/abc", nil)
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)

	if !handlerCalled {
		t.Fatalf("reads must pass through without an idempotency key")
	}
	if len(store.data) != 0 {
		t.Fatalf("nothing should be stored for pass-through routes")
	}
}

func TestIdempotencyRequiresHeaderForCheckout(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusCreated)
	})

	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, checkoutRequest(`{"cart_id":"x"}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if handlerCalled {
		t.Fatalf("handler should not run without idempotency key")
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"checkout_id":"abc"}`))
	})

	first := checkoutRequest(`{"cart_id":"x"}`)
	first.Header.Set("Idempotency-Key", "retry-1")
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, first)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected first response 201 got %d", resp.Code)
	}

	replay := checkoutRequest(`{"cart_id":"x"}`)
	replay.Header.Set("Idempotency-Key", "retry-1")
	rec := httptest.NewRecorder()
	mw(handler).ServeHTTP(rec, replay)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected replay status 201 got %d", rec.Code)
	}
	if rec.Header().Get("X-Idempotent-Replay") != "true" {
		t.Fatalf("expected replay marker header")
	}
	if strings.TrimSpace(rec.Body.String()) != `{"checkout_id":"abc"}` {
		t.Fatalf("expected stored body got %s", rec.Body.String())
	}
	if calls != 1 {
		t.Fatalf("handler executed %d times, expected 1", calls)
	}
}

func TestIdempotencyDetectsBodyChange(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	})

	first := checkoutRequest(`{"cart_id":"x"}`)
	first.Header.Set("Idempotency-Key", "retry-2")
	mw(handler).ServeHTTP(httptest.NewRecorder(), first)

	conflicting := checkoutRequest(`{"cart_id":"y"}`)
	conflicting.Header.Set("Idempotency-Key", "retry-2")
	rec := httptest.NewRecorder()
	mw(handler).ServeHTTP(rec, conflicting)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for reused key with changed body, got %d", rec.Code)
	}
}
