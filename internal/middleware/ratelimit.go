package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"

	"github.com/solweaver/go-pluralkit/internal/ratelimit"
	"github.com/solweaver/go-pluralkit/observability"
)

// RateLimitConfig configures the rate-limit middleware.
type RateLimitConfig struct {
	// Budget is the header-driven request budget limiter. Required.
	Budget *ratelimit.Limiter

	// Ceiling optionally caps overall request volume with a token bucket.
	Ceiling *rate.Limiter

	Logger observability.Logger
}

// RateLimit returns a middleware that throttles requests against the local
// budget, feeds server-echoed X-RateLimit-* headers back into it, and
// absorbs a single 429 by honoring its Retry-After header. A second 429 in a
// row is passed through for the caller's error mapping.
func RateLimit(cfg RateLimitConfig) func(http.RoundTripper) http.RoundTripper {
	if cfg.Logger == nil {
		cfg.Logger = observability.NoopLogger()
	}

	return func(next http.RoundTripper) http.RoundTripper {
		return &rateLimitTransport{
			next:    next,
			budget:  cfg.Budget,
			ceiling: cfg.Ceiling,
			logger:  cfg.Logger,
		}
	}
}

type rateLimitTransport struct {
	next    http.RoundTripper
	budget  *ratelimit.Limiter
	ceiling *rate.Limiter
	logger  observability.Logger
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.send(req)
	if err != nil || resp.StatusCode != http.StatusTooManyRequests {
		return resp, err
	}

	// The proactive throttle under-estimated the server's limits. Wait
	// out the advertised delay once and retry; if the server still
	// refuses, surface the 429 unchanged.
	delay, ok := retryAfter(resp.Header)
	if !ok {
		return resp, nil
	}

	t.logger.Warn("rate limited by server",
		observability.Field{Key: "path", Value: req.URL.Path},
		observability.Field{Key: "retry_after", Value: delay},
	)
	resp.Body.Close()

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-req.Context().Done():
		return nil, errors.Wrap(req.Context().Err(), "context cancelled during retry-after wait")
	}

	if req.GetBody != nil {
		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return nil, errors.Wrap(bodyErr, "rewind request body for retry")
		}

		req.Body = body
	}

	return t.send(req)
}

func (t *rateLimitTransport) send(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	if t.ceiling != nil {
		if err := t.ceiling.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "rate limit ceiling wait failed")
		}
	}

	if t.budget != nil {
		if err := t.budget.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "rate limit budget wait failed")
		}

		t.logger.Debug("rate limit slot acquired",
			observability.Field{Key: "path", Value: req.URL.Path},
			observability.Field{Key: "remaining", Value: t.budget.Remaining()},
		)
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err //nolint:wrapcheck // Passed through for the caller's wrapping
	}

	if t.budget != nil {
		t.budget.UpdateFromHeaders(resp.Header)
	}

	return resp, nil
}

func retryAfter(h http.Header) (time.Duration, bool) {
	v := h.Get("Retry-After")
	if v == "" {
		return 0, false
	}

	seconds, err := strconv.Atoi(v)
	if err != nil || seconds < 0 {
		return 0, false
	}

	return time.Duration(seconds) * time.Second, true
}
