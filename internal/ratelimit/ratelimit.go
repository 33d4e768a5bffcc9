// Package ratelimit bounds how many searches a user may issue inside a
// sliding time window.
package ratelimit

import (
	"sync"
	"time"
)

const (
	DefaultLimit  = 10
	DefaultWindow = time.Minute
)

// Limiter keeps, per user, the instants of accepted requests that are still
// inside the window. Windows are never dropped for idle users.
type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	windows map[string][]time.Time
}

type Option func(*Limiter)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a limiter allowing limit requests per window. Non-positive
// arguments fall back to DefaultLimit and DefaultWindow.
func New(limit int, window time.Duration, opts ...Option) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	l := &Limiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		windows: make(map[string][]time.Time),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// CheckAndRecord prunes the user's window and reports whether one more
// request fits. A rejected attempt is not recorded. A timestamp exactly one
// window old is already outside.
func (l *Limiter) CheckAndRecord(userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	kept := l.windows[userID][:0]
	for _, t := range l.windows[userID] {
		if now.Sub(t) < l.window {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.limit {
		l.windows[userID] = kept
		return false
	}

	l.windows[userID] = append(kept, now)
	return true
}

// Limit returns the maximum number of requests per window.
func (l *Limiter) Limit() int { return l.limit }

// Window returns the window length.
func (l *Limiter) Window() time.Duration { return l.window }

// Tracked reports how many users currently hold a window entry.
func (l *Limiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
