package ratelimit

import (
	"context"
	"net/http"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives a Limiter deterministically: sleeping advances the clock
// instead of blocking.
type fakeClock struct {
	current time.Time
	slept   time.Duration
}

func (f *fakeClock) now() time.Time { return f.current }

func (f *fakeClock) sleep(_ context.Context, d time.Duration) error {
	f.current = f.current.Add(d)
	f.slept += d

	return nil
}

func newFakeLimiter(budget int) (*Limiter, *fakeClock) {
	clock := &fakeClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := New(budget)
	l.now = clock.now
	l.sleep = clock.sleep

	return l, clock
}

func TestWaitPacesRequests(t *testing.T) {
	t.Parallel()

	// With a budget of 2 per second, N requests must take at least
	// ceil(N/2)-1 seconds of sleeping.
	const calls = 7

	l, clock := newFakeLimiter(2)
	ctx := context.Background()

	for i := 0; i < calls; i++ {
		require.NoError(t, l.Wait(ctx))
	}

	wantMin := time.Duration((calls+1)/2-1) * time.Second
	assert.GreaterOrEqual(t, clock.slept, wantMin)
}

func TestWaitConsumesBudget(t *testing.T) {
	t.Parallel()

	l, clock := newFakeLimiter(2)
	ctx := context.Background()

	require.NoError(t, l.Wait(ctx))
	require.NoError(t, l.Wait(ctx))
	assert.Zero(t, clock.slept, "first window should not sleep")

	require.NoError(t, l.Wait(ctx))
	assert.Equal(t, time.Second, clock.slept, "third call waits for the reset")
}

func TestWaitCancellation(t *testing.T) {
	t.Parallel()

	l, _ := newFakeLimiter(1)
	l.sleep = func(ctx context.Context, _ time.Duration) error { return context.Canceled }

	ctx := context.Background()
	require.NoError(t, l.Wait(ctx))

	err := l.Wait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUpdateFromHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		headers       http.Header
		wantRemaining int
		wantLimit     int
	}{
		{
			name: "server echo overrides local state",
			headers: http.Header{
				textproto.CanonicalMIMEHeaderKey(HeaderLimit):     []string{"10"},
				textproto.CanonicalMIMEHeaderKey(HeaderRemaining): []string{"7"},
				textproto.CanonicalMIMEHeaderKey(HeaderReset):     []string{"1750000000000"},
			},
			wantRemaining: 7,
			wantLimit:     10,
		},
		{
			name:          "absent headers leave counters unchanged",
			headers:       http.Header{},
			wantRemaining: 0,
			wantLimit:     2,
		},
		{
			name: "malformed values are ignored",
			headers: http.Header{
				textproto.CanonicalMIMEHeaderKey(HeaderLimit):     []string{"lots"},
				textproto.CanonicalMIMEHeaderKey(HeaderRemaining): []string{"-3"},
				textproto.CanonicalMIMEHeaderKey(HeaderReset):     []string{"soon"},
			},
			wantRemaining: 0,
			wantLimit:     2,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l, _ := newFakeLimiter(2)
			l.UpdateFromHeaders(tt.headers)

			assert.Equal(t, tt.wantRemaining, l.remaining)
			assert.Equal(t, tt.wantLimit, l.limit)
		})
	}
}

func TestUpdateFromHeadersRefillsBudget(t *testing.T) {
	t.Parallel()

	l, clock := newFakeLimiter(1)
	ctx := context.Background()

	require.NoError(t, l.Wait(ctx))

	// The server reports spare budget, so the next call should not sleep.
	h := http.Header{}
	h.Set(HeaderRemaining, "5")
	l.UpdateFromHeaders(h)

	require.NoError(t, l.Wait(ctx))
	assert.Zero(t, clock.slept)
}

func TestNewCeiling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		requestsPerMinute int
		wantRate          float64
		wantBurst         int
	}{
		{name: "120 per minute", requestsPerMinute: 120, wantRate: 2.0, wantBurst: 2},
		{name: "60 per minute", requestsPerMinute: 60, wantRate: 1.0, wantBurst: 1},
		{name: "burst never drops below one", requestsPerMinute: 30, wantRate: 0.5, wantBurst: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			limiter := NewCeiling(tt.requestsPerMinute)
			require.NotNil(t, limiter)
			assert.InDelta(t, tt.wantRate, float64(limiter.Limit()), 1e-9)
			assert.Equal(t, tt.wantBurst, limiter.Burst())
		})
	}
}
