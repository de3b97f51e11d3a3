package pluralkit

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/solweaver/go-pluralkit/internal/httpclient"
	"github.com/solweaver/go-pluralkit/internal/middleware"
	"github.com/solweaver/go-pluralkit/internal/ratelimit"
	"github.com/solweaver/go-pluralkit/observability"
)

const (
	// DefaultBaseURL is the PluralKit v2 API base URL.
	DefaultBaseURL = "https://api.pluralkit.me/v2"

	// DefaultRequestsPerSecond is the API's documented request budget.
	DefaultRequestsPerSecond = 2

	// DefaultRateLimitPerMinute caps total throughput; the per-second
	// budget above is the limit that actually bites in practice.
	DefaultRateLimitPerMinute = 120

	// DefaultUserAgent identifies this library to the API.
	DefaultUserAgent = "go-pluralkit"

	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 30 * time.Second
)

// Client is a PluralKit v2 API client. The zero value is not usable; build
// one with New or NewWithConfig. All methods are safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	http    *httpclient.Client
	logger  observability.Logger

	// Own system ID, cached after the first authenticated GetSystem.
	mu sync.Mutex
	id SystemID
}

// ClientConfig holds configuration for the PluralKit API client.
type ClientConfig struct {
	// Token is the PluralKit authorization token. Optional: without it
	// the client can still read public entities, but @me references and
	// private fields are unavailable.
	Token string

	// BaseURL overrides the API base URL (defaults to the public API).
	BaseURL string

	// UserAgent overrides the User-Agent header.
	UserAgent string

	// HTTPClient is the HTTP client to use (optional).
	HTTPClient *http.Client

	// RequestsPerSecond sets the request budget (defaults to 2, the
	// API's documented limit).
	RequestsPerSecond int

	// RateLimitPerMinute sets an additional per-minute throughput cap.
	RateLimitPerMinute int

	// Timeout sets the HTTP client timeout.
	Timeout time.Duration

	// Logger receives debug and warning events (defaults to a no-op).
	Logger observability.Logger
}

// New creates a client with default configuration. An empty token yields an
// unauthenticated client limited to public data.
func New(token string) *Client {
	return NewWithConfig(ClientConfig{Token: token})
}

// NewWithConfig creates a client from explicit configuration, applying
// defaults for anything unset.
func NewWithConfig(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	if cfg.RateLimitPerMinute == 0 {
		cfg.RateLimitPerMinute = DefaultRateLimitPerMinute
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.Logger == nil {
		cfg.Logger = observability.NoopLogger()
	}

	headers := map[string]string{
		"User-Agent":   cfg.UserAgent,
		"Content-Type": "application/json",
	}
	if cfg.Token != "" {
		headers["Authorization"] = cfg.Token
	}

	opts := []httpclient.Option{}

	if cfg.HTTPClient != nil {
		opts = append(opts, httpclient.WithHTTPClient(cfg.HTTPClient))
	}

	opts = append(opts,
		httpclient.WithTimeout(cfg.Timeout),
		httpclient.WithMiddleware(
			middleware.Observability(cfg.Logger),
			middleware.Headers(headers),
			middleware.RateLimit(middleware.RateLimitConfig{
				Budget:  ratelimit.New(cfg.RequestsPerSecond),
				Ceiling: ratelimit.NewCeiling(cfg.RateLimitPerMinute),
				Logger:  cfg.Logger,
			}),
		),
	)

	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http:    httpclient.New(opts...),
		logger:  cfg.Logger,
	}
}

// Authenticated reports whether the client carries a token.
func (c *Client) Authenticated() bool { return c.token != "" }

// ID returns the client's own system ID, fetching and caching it on first
// use. Requires a token.
func (c *Client) ID(ctx context.Context) (SystemID, error) {
	c.mu.Lock()
	cached := c.id
	c.mu.Unlock()

	if !cached.IsZero() {
		return cached, nil
	}

	system, err := c.GetOwnSystem(ctx)
	if err != nil {
		return SystemID{}, err
	}

	return system.ID, nil
}

// cacheID remembers the authenticated system's ID after a successful fetch.
func (c *Client) cacheID(id SystemID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.id.IsZero() {
		c.id = id
	}
}
