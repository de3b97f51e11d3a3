// Package ratelimit throttles outgoing API requests.
//
// The PluralKit API advertises its request budget through X-RateLimit-*
// response headers. Limiter tracks that budget locally (defaulting to the
// documented 2 requests per second) and blocks callers when it is exhausted,
// so the client self-throttles instead of provoking 429 responses. Server
// echoes override the local guess whenever they are present.
package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"
)

// Response headers consumed by UpdateFromHeaders.
const (
	HeaderLimit     = "X-RateLimit-Limit"
	HeaderRemaining = "X-RateLimit-Remaining"
	HeaderReset     = "X-RateLimit-Reset" // epoch milliseconds
)

const (
	// DefaultBudget is the request budget assumed before the server has
	// reported one.
	DefaultBudget = 2

	// DefaultWindow is the interval after which the local budget refills.
	DefaultWindow = time.Second
)

// Limiter tracks a remaining-request budget and its reset time.
//
// Wait suspends the caller until a unit of budget is available and consumes
// it. UpdateFromHeaders feeds the server's authoritative counters back in.
// Limiter is safe for concurrent use.
type Limiter struct {
	mu        sync.Mutex
	limit     int
	remaining int
	reset     time.Time
	window    time.Duration

	// Test seams. Both default to the real clock.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Limiter with the given per-window budget. A non-positive
// budget falls back to DefaultBudget.
func New(budget int) *Limiter {
	if budget <= 0 {
		budget = DefaultBudget
	}

	return &Limiter{
		limit:  budget,
		window: DefaultWindow,
		now:    time.Now,
		sleep:  sleepContext,
	}
}

// Wait blocks until at least one unit of budget is available, then consumes
// it. It returns early with the context's error if ctx is cancelled during
// the wait.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for l.remaining <= 0 {
		now := l.now()
		if !l.reset.After(now) {
			l.remaining = l.limit
			l.reset = now.Add(l.window)

			break
		}

		delay := l.reset.Sub(now)

		// Release the lock while sleeping so header updates from
		// in-flight responses can land.
		l.mu.Unlock()
		err := l.sleep(ctx, delay)
		l.mu.Lock()

		if err != nil {
			return errors.Wrap(err, "context cancelled while waiting for rate limit")
		}
	}

	l.remaining--

	return nil
}

// UpdateFromHeaders applies the server-echoed budget counters. Missing
// headers leave the corresponding local value unchanged; malformed values are
// ignored.
func (l *Limiter) UpdateFromHeaders(h http.Header) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v := h.Get(HeaderLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			l.limit = n
		}
	}

	if v := h.Get(HeaderRemaining); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			l.remaining = n
		}
	}

	if v := h.Get(HeaderReset); v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil && ms > 0 {
			l.reset = time.UnixMilli(ms)
		}
	}
}

// Remaining reports the locally tracked budget. Intended for logging.
func (l *Limiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.remaining
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewCeiling creates a token-bucket limiter capping overall request volume at
// requestsPerMinute. This sits alongside the budget Limiter as a coarse
// safety net: tokens replenish continuously at requestsPerMinute/60 per
// second with a burst of one second's worth.
func NewCeiling(requestsPerMinute int) *rate.Limiter {
	burst := requestsPerMinute / 60
	if burst < 1 {
		burst = 1
	}

	return rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst)
}
