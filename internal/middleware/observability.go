package middleware

import (
	"net/http"
	"time"

	"github.com/solweaver/go-pluralkit/observability"
)

// Observability returns a middleware that logs every request's outcome.
func Observability(logger observability.Logger) func(http.RoundTripper) http.RoundTripper {
	if logger == nil {
		logger = observability.NoopLogger()
	}

	return func(next http.RoundTripper) http.RoundTripper {
		return &observabilityTransport{next: next, logger: logger}
	}
}

type observabilityTransport struct {
	next   http.RoundTripper
	logger observability.Logger
}

func (t *observabilityTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	t.logger.Debug("request started",
		observability.Field{Key: "method", Value: req.Method},
		observability.Field{Key: "path", Value: req.URL.Path},
	)

	resp, err := t.next.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		t.logger.Error("request failed",
			observability.Field{Key: "method", Value: req.Method},
			observability.Field{Key: "path", Value: req.URL.Path},
			observability.Field{Key: "duration", Value: duration},
			observability.Field{Key: "error", Value: err.Error()},
		)

		return nil, err //nolint:wrapcheck // Logged and passed through unchanged
	}

	fields := []observability.Field{
		{Key: "method", Value: req.Method},
		{Key: "path", Value: req.URL.Path},
		{Key: "status", Value: resp.StatusCode},
		{Key: "duration", Value: duration},
	}

	if resp.StatusCode >= http.StatusBadRequest {
		t.logger.Warn("request completed with error status", fields...)
	} else {
		t.logger.Debug("request completed", fields...)
	}

	return resp, nil
}
