// Package testutil provides httptest helpers shared by the client tests.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewMockServer creates a test server answering a single endpoint. It checks
// the method, path, and Authorization header (when token is non-empty), and
// replies with generous X-RateLimit-* headers so tests never sleep in the
// client's limiter.
func NewMockServer(t *testing.T, method, path, token string, statusCode int, body string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, method, r.Method, "unexpected request method")
		assert.Equal(t, path, r.URL.Path, "unexpected request path")

		if token != "" {
			assert.Equal(t, token, r.Header.Get("Authorization"), "Authorization header should carry the raw token")
		}

		WriteJSON(t, w, statusCode, body)
	}))
}

// NewMockServerWithHandler creates a test server with a custom handler for
// scenarios that need to inspect bodies or serve several paths.
func NewMockServerWithHandler(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	return httptest.NewServer(handler)
}

// WriteJSON writes a JSON response with spare rate-limit budget advertised.
func WriteJSON(t *testing.T, w http.ResponseWriter, statusCode int, body string) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-RateLimit-Limit", "100")
	w.Header().Set("X-RateLimit-Remaining", "99")
	w.WriteHeader(statusCode)

	if body != "" {
		_, err := w.Write([]byte(body))
		require.NoError(t, err, "failed to write response body")
	}
}

// RoundTripCounter is an http.RoundTripper that refuses every request while
// counting attempts. Use it to prove client-side validation fails before any
// network call.
type RoundTripCounter struct {
	calls atomic.Int64
}

func (c *RoundTripCounter) RoundTrip(*http.Request) (*http.Response, error) {
	c.calls.Add(1)

	return nil, errors.New("unexpected network call")
}

// Calls reports how many requests reached the transport.
func (c *RoundTripCounter) Calls() int64 {
	return c.calls.Load()
}
