// Package middleware contains the http.RoundTripper layers the client's
// transport is assembled from: static headers, rate limiting, and request
// logging.
package middleware

import (
	"maps"
	"net/http"
)

// Headers returns a middleware that sets fixed headers on every request.
// The PluralKit API expects the raw token in Authorization (no scheme
// prefix). Empty values are skipped.
func Headers(headers map[string]string) func(http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		return &headersTransport{next: next, headers: headers}
	}
}

type headersTransport struct {
	next    http.RoundTripper
	headers map[string]string
}

func (t *headersTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = cloneRequest(req)

	for name, value := range t.headers {
		if value != "" {
			req.Header.Set(name, value)
		}
	}

	//nolint:wrapcheck // Middleware passes through errors from the next layer
	return t.next.RoundTrip(req)
}

// cloneRequest shallow-copies the request with its own header map, since
// RoundTrippers must not mutate the original request.
func cloneRequest(req *http.Request) *http.Request {
	r := new(http.Request)
	*r = *req
	r.Header = make(http.Header, len(req.Header))
	maps.Copy(r.Header, req.Header)

	return r
}
