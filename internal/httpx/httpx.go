// Package httpx is the paced HTTP client shared by the Wikipedia, Census,
// FRED and geocoding collectors.
//
// Every request waits on a token bucket that releases one request per
// configured interval, so consecutive calls to the same public API are
// spaced out. Requests are never retried.
package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/pfrederiksen/milb-data/internal/logger"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "milb-data/1.0 (github.com/pfrederiksen/milb-data)"
)

// StatusError reports a non-2xx response
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status code: %d", e.URL, e.StatusCode)
}

// Client wraps resty with request pacing
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
}

// Option configures a Client
type Option func(*Client)

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.resty.SetHeader("User-Agent", ua)
		}
	}
}

// WithHeaders adds default headers, for example those read from a
// user-agent file
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		c.resty.SetHeaders(headers)
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.resty.SetTimeout(d)
	}
}

// WithProxy routes every request through proxyURL
func WithProxy(proxyURL string) Option {
	return func(c *Client) {
		if proxyURL != "" {
			c.resty.SetProxy(proxyURL)
		}
	}
}

// WithInterval allows one request per interval; zero disables pacing
func WithInterval(d time.Duration) Option {
	return func(c *Client) {
		c.limiter = newLimiter(d)
	}
}

func newLimiter(d time.Duration) *rate.Limiter {
	if d <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(d), 1)
}

// New creates a client with the default timeout and no pacing
func New(opts ...Option) *Client {
	c := &Client{
		resty: resty.New().
			SetTimeout(DefaultTimeout).
			SetRetryCount(0).
			SetHeader("User-Agent", DefaultUserAgent),
		limiter: newLimiter(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches rawURL with the given query parameters and returns the body
func (c *Client) Get(ctx context.Context, rawURL string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	start := time.Now()
	req := c.resty.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	resp, err := req.Get(rawURL)
	logger.RecordTiming("http.get", time.Since(start))
	if err != nil {
		logger.IncrCounter("http.errors")
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}

	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		logger.IncrCounter("http.errors")
		return nil, &StatusError{
			URL:        rawURL,
			StatusCode: resp.StatusCode(),
			Body:       truncate(resp.String(), 512),
		}
	}

	logger.Debug("Fetched", logger.Fields{
		"url":    rawURL,
		"status": resp.StatusCode(),
		"bytes":  len(resp.Body()),
	})
	return resp.Body(), nil
}

// GetJSON fetches rawURL and decodes the JSON body into out
func (c *Client) GetJSON(ctx context.Context, rawURL string, query url.Values, out interface{}) error {
	body, err := c.Get(ctx, rawURL, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", rawURL, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
