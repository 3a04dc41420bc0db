package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllowWithinLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("user-1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("user-1") {
		t.Fatal("fourth request should be rejected")
	}
}

func TestRateLimiterIsolatesUsers(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	if !rl.Allow("user-1") {
		t.Fatal("first user should be allowed")
	}
	if !rl.Allow("user-2") {
		t.Fatal("second user should not share the first user's window")
	}
}

func TestRateLimiterWindowResets(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	base := time.Now()
	rl.now = func() time.Time { return base }

	if !rl.Allow("user-1") {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow("user-1") {
		t.Fatal("second request in same window should be rejected")
	}

	rl.now = func() time.Time { return base.Add(61 * time.Second) }
	if !rl.Allow("user-1") {
		t.Fatal("request after window expiry should be allowed")
	}
}

func TestRateLimiterHandlerRejectsWith429(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	handler := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/assistant/turn", nil)
	req.Header.Set("X-User-Id", "shop-1")

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, req)
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", second.Code)
	}
}
