// Package httpx is the outbound HTTP layer: a client with token-bucket
// throttling and retry with exponential backoff.
package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client is an HTTP client with rate limiting and retry logic
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	config     Config
}

// NewClient creates a client with the given configuration
func NewClient(cfg Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
		config:  cfg,
	}
}

// NewClientDefault creates a client with default throttling and retries
func NewClientDefault() *Client {
	return NewClient(DefaultConfig())
}

// Get performs a GET request with throttling and retries
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, url, nil)
}

// Do performs an HTTP request with throttling and retries. Non-2xx
// non-retryable statuses fail immediately; retryable ones back off and
// retry up to MaxRetries before returning a RetryError.
func (c *Client) Do(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	var lastStatus int
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("User-Agent", "ComparekartCatalog/1.0")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < c.config.MaxRetries && ctx.Err() == nil {
				sleepCtx(ctx, CalculateBackoff(attempt, c.config))
				continue
			}
			return nil, &RetryError{URL: url, Attempts: attempt + 1, LastStatus: lastStatus, LastError: lastErr}
		}

		lastStatus = resp.StatusCode

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		if !IsRetryableStatus(resp.StatusCode) {
			resp.Body.Close()
			return nil, &RetryError{URL: url, Attempts: attempt + 1, LastStatus: resp.StatusCode}
		}

		if attempt == c.config.MaxRetries {
			resp.Body.Close()
			return nil, &RetryError{URL: url, Attempts: attempt + 1, LastStatus: resp.StatusCode}
		}

		var backoff time.Duration
		if resp.StatusCode == http.StatusTooManyRequests {
			backoff = CalculateRateLimitBackoff(attempt, c.config, resp.Header.Get("Retry-After"))
		} else {
			backoff = CalculateBackoff(attempt, c.config)
		}

		resp.Body.Close()
		sleepCtx(ctx, backoff)
	}

	return nil, &RetryError{URL: url, Attempts: c.config.MaxRetries + 1, LastStatus: lastStatus, LastError: lastErr}
}

// GetBytes performs a GET request and returns the body
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return data, nil
}

// sleepCtx sleeps for d unless the context ends first
func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
