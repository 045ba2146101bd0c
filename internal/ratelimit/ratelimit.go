// Package ratelimit implements a fixed-window request counter held in
// process memory. It is coarse throttling for credential endpoints, not
// a security boundary; the global per-IP limit in the middleware stack
// is separate.
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/nyasinga/aylfwebsite/internal/platform/httpx"
)

// Result reports the outcome of a single Allow call.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

type window struct {
	count   int
	resetAt time.Time
}

// Limiter counts requests per client identifier in fixed windows.
// Construct one per concern and inject it; there is no package-level state.
type Limiter struct {
	mu         sync.Mutex
	windows    map[string]*window
	max        int
	size       time.Duration
	sweepEvery time.Duration
	now        func() time.Time
}

// New constructs a limiter allowing max requests per window.
func New(max int, size time.Duration) *Limiter {
	return &Limiter{
		windows:    make(map[string]*window),
		max:        max,
		size:       size,
		sweepEvery: time.Minute,
		now:        time.Now,
	}
}

// Allow records a request for key and reports whether it is within the
// window budget. An expired window resets the counter.
func (l *Limiter) Allow(key string) Result {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	win, ok := l.windows[key]
	if !ok || !win.resetAt.After(now) {
		win = &window{count: 1, resetAt: now.Add(l.size)}
		l.windows[key] = win
		return Result{Allowed: true, Remaining: l.max - 1, ResetAt: win.resetAt}
	}

	if win.count >= l.max {
		return Result{Allowed: false, Remaining: 0, ResetAt: win.resetAt}
	}

	win.count++
	return Result{Allowed: true, Remaining: l.max - win.count, ResetAt: win.resetAt}
}

// Run sweeps expired windows at a fixed interval until ctx is done.
// Entries are otherwise unbounded in count, capped only by the number of
// distinct identifiers seen within outstanding windows.
func (l *Limiter) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.sweep(l.now())
		}
	}
}

func (l *Limiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, win := range l.windows {
		if !win.resetAt.After(now) {
			delete(l.windows, key)
		}
	}
}

// Middleware rejects over-budget requests with 429, keyed by keyFn.
func (l *Limiter) Middleware(keyFn func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result := l.Allow(keyFn(r))
			if !result.Allowed {
				w.Header().Set("Retry-After", result.ResetAt.UTC().Format(http.TimeFormat))
				httpx.Error(w, http.StatusTooManyRequests, "Too many requests, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// KeyByIP extracts the client IP as the limiter key.
func KeyByIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
