package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// requestIDHeader carries a per-call id the feed echoes into its own logs.
const requestIDHeader = "X-Request-ID"

// APIError is a non-2xx answer from the feed. Message is the feed's
// {"error": "..."} text when present, else the HTTP status text.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
	// RetryAfter is the feed's throttle hint on 429/503, zero when absent.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("feed api error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable reports whether the feed is throttling or failing, as opposed to
// rejecting the query.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// IsNotFound reports whether err is the feed saying an instrument code does
// not exist.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type feedError struct {
	Error string `json:"error"`
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	e := &APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
		Body:       body,
	}
	var fe feedError
	if json.Unmarshal(body, &fe) == nil && fe.Error != "" {
		e.Message = fe.Error
	}
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
		e.RetryAfter = time.Duration(secs) * time.Second
	}
	return e
}

// fetch makes one GET against the feed and returns the raw body.
func (c *Client) fetch(ctx context.Context, path string, query url.Values, reqID string) ([]byte, error) {
	target := c.feedURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, reqID)
	if c.agent != "" {
		req.Header.Set("User-Agent", c.agent)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read feed response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, newAPIError(resp, body)
	}
	return body, nil
}

// fetchWithRetry retries a throttled or failing feed. The gap doubles per
// attempt with jitter in [0.5, 1.5), and a longer Retry-After wins. Every
// attempt of one call shares the same request id.
func (c *Client) fetchWithRetry(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqID := uuid.NewString()
	gap := c.retryGap
	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			wait := gap/2 + time.Duration(rand.Int64N(int64(gap)+1))
			var apiErr *APIError
			if errors.As(lastErr, &apiErr) && apiErr.RetryAfter > wait {
				wait = apiErr.RetryAfter
			}
			c.logger.Debug("feed busy, retrying",
				"path", path,
				"request_id", reqID,
				"attempt", attempt,
				"wait", wait,
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
			gap *= 2
		}

		body, err := c.fetch(ctx, path, query, reqID)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.IsRetryable() {
			return nil, err
		}
	}

	return nil, fmt.Errorf("feed still failing after %d retries: %w", c.retries, lastErr)
}

// getJSON fetches path with retries and decodes the feed's JSON answer.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.fetchWithRetry(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode feed response for %s: %w", path, err)
	}
	return nil
}
