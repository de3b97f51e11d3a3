// Package httpclient provides the middleware-chained HTTP client the
// pluralkit package issues its requests through.
package httpclient

import (
	"net/http"
	"time"
)

// DefaultTimeout is applied when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Middleware wraps an http.RoundTripper to add behavior. Middleware is
// applied in order: the first middleware is outermost.
type Middleware func(http.RoundTripper) http.RoundTripper

// Client is an http.Client wrapper whose transport is built from a
// middleware chain.
type Client struct {
	base       *http.Client
	middleware []Middleware
}

// New builds a client from the given options and wires its middleware chain.
func New(opts ...Option) *Client {
	c := &Client{
		base: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	if len(c.middleware) > 0 {
		transport := c.base.Transport
		if transport == nil {
			transport = http.DefaultTransport
		}

		// Reverse order so the first middleware ends up outermost.
		for i := len(c.middleware) - 1; i >= 0; i-- {
			transport = c.middleware[i](transport)
		}

		c.base.Transport = transport
	}

	return c
}

// Do executes the request through the middleware chain.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.base.Do(req) //nolint:wrapcheck // Callers wrap with request context
}
