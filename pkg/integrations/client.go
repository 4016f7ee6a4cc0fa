package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/matzehuels/deprep/pkg/cache"
	deperrors "github.com/matzehuels/deprep/pkg/errors"
	"github.com/matzehuels/deprep/pkg/httputil"
	"github.com/matzehuels/deprep/pkg/observability"
)

const (
	defaultAttempts   = 3
	defaultRetryDelay = time.Second
)

// Client provides shared HTTP functionality for all registry API clients.
// It handles in-process memoization, retry logic, and common request headers.
type Client struct {
	http       *http.Client
	cache      cache.Cache
	headers    map[string]string
	attempts   int
	retryDelay time.Duration
}

// NewClient creates a Client with the given cache and default headers.
// Headers are applied to all requests made through this client.
// A nil cache disables memoization.
func NewClient(c cache.Cache, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:       NewHTTPClient(),
		cache:      c,
		headers:    headers,
		attempts:   defaultAttempts,
		retryDelay: defaultRetryDelay,
	}
}

// SetRetry overrides the number of attempts and the initial backoff delay.
func (c *Client) SetRetry(attempts int, delay time.Duration) {
	c.attempts = max(attempts, 1)
	c.retryDelay = delay
}

// Cached retrieves a value from the cache or executes fetch and caches the
// result. The fetch function should populate v; it is retried for transient
// failures and, on success, v is stored as JSON under key.
func (c *Client) Cached(ctx context.Context, key string, v any, fetch func() error) error {
	if data, ok, _ := c.cache.Get(ctx, key); ok {
		if err := json.Unmarshal(data, v); err == nil {
			return nil
		}
	}
	if err := httputil.Retry(ctx, c.attempts, c.retryDelay, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		_ = c.cache.Set(ctx, key, data)
	}
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, rawURL string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	host := hostOf(rawURL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, http.MethodGet, host)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, http.MethodGet, host, err)
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %w", ErrNetwork, err)}
	}
	hooks.OnResponse(ctx, http.MethodGet, host, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		var re *httputil.RetryableError
		if resp.StatusCode == http.StatusTooManyRequests && errors.As(err, &re) {
			re.After = retryAfter(resp.Header.Get("Retry-After"))
			re.Err = &deperrors.RateLimitedError{RetryAfter: int(re.After / time.Second)}
		}
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests:
		return &httputil.RetryableError{Err: &deperrors.RateLimitedError{}}
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// retryAfter parses the delay-seconds form of a Retry-After header.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
