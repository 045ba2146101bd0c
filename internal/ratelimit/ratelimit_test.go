package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(max int, size time.Duration) (*Limiter, *time.Time) {
	l := New(max, size)
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return current }
	return l, &current
}

func TestAllowWithinWindow(t *testing.T) {
	l, _ := newTestLimiter(10, time.Minute)

	for i := 0; i < 10; i++ {
		result := l.Allow("203.0.113.7")
		require.True(t, result.Allowed, "request %d should pass", i+1)
		assert.Equal(t, 9-i, result.Remaining)
	}

	// The 11th call inside the window is denied.
	result := l.Allow("203.0.113.7")
	assert.False(t, result.Allowed)
	assert.Zero(t, result.Remaining)
}

func TestWindowReset(t *testing.T) {
	l, now := newTestLimiter(10, time.Minute)

	for i := 0; i < 11; i++ {
		l.Allow("client")
	}
	assert.False(t, l.Allow("client").Allowed)

	*now = now.Add(61 * time.Second)
	result := l.Allow("client")
	assert.True(t, result.Allowed)
	assert.Equal(t, 9, result.Remaining)
}

func TestKeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	assert.True(t, l.Allow("a").Allowed)
	assert.False(t, l.Allow("a").Allowed)
	assert.True(t, l.Allow("b").Allowed)
}

func TestSweepEvictsExpiredWindows(t *testing.T) {
	l, now := newTestLimiter(5, time.Minute)
	l.Allow("stale")
	l.Allow("fresh")

	*now = now.Add(30 * time.Second)
	l.Allow("fresh")

	*now = now.Add(31 * time.Second) // "stale" expired, "fresh" has 29s left
	l.sweep(l.now())

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.windows, "stale")
	assert.Contains(t, l.windows, "fresh")
}

func TestMiddleware(t *testing.T) {
	l, _ := newTestLimiter(2, time.Minute)
	handler := l.Middleware(KeyByIP)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
		assert.Equal(t, http.StatusOK, res.Code)
	}

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, res.Code)
	assert.NotEmpty(t, res.Header().Get("Retry-After"))
}

func TestKeyByIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "198.51.100.4:52011"
	assert.Equal(t, "198.51.100.4", KeyByIP(r))
}
