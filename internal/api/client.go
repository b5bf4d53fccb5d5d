package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client talks to the instrument feed. One Client is shared by the record and
// detail paths of a Remote source.
type Client struct {
	feedURL string
	apiKey  string
	agent   string
	hc      *http.Client
	logger  *slog.Logger

	// attempts beyond the first for 5xx and 429 answers
	retries  int
	retryGap time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient returns a feed client for feedURL, e.g. "https://feed.example.com/v1".
// Trailing slashes are dropped so paths join as "/instruments".
func NewClient(feedURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		feedURL:  strings.TrimRight(feedURL, "/"),
		apiKey:   apiKey,
		agent:    "voldash",
		hc:       &http.Client{Timeout: 10 * time.Second},
		logger:   slog.Default(),
		retries:  3,
		retryGap: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithTimeout bounds a single feed round trip, retries excluded.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.hc.Timeout = d
	}
}

// WithRetries sets how often a throttled or failing feed is retried and the
// first backoff gap, which doubles per attempt.
func WithRetries(n int, gap time.Duration) ClientOption {
	return func(c *Client) {
		c.retries = n
		c.retryGap = gap
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the transport, mostly for tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.hc = hc
	}
}

// WithUserAgent sets the User-Agent the feed sees; the binaries pass the
// build version.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.agent = ua
	}
}
