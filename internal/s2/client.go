// Package s2 provides a rate-limited client for the Semantic Scholar
// Academic Graph API, covering the two lookups the resolver needs:
// paper-by-DOI and relevance search.
package s2

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Academic Graph API base URL.
	BaseURL = "https://api.semanticscholar.org/graph/v1"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 15 * time.Second

	// RateLimit is 1 request per second, the unauthenticated S2 allowance.
	RateLimit = 1.0

	// DefaultSearchLimit is the default number of search candidates requested.
	DefaultSearchLimit = 10

	// paperFields are the fields requested for every paper lookup.
	paperFields = "title,year,externalIds,openAccessPdf,authors"
)

// RetryPolicy bounds retries on HTTP 429. Backoff is a fixed pause between
// attempts; after MaxAttempts the call surfaces ErrRateLimited.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultRetryPolicy matches the 45s pause the API documentation suggests,
// capped at three attempts.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, Backoff: 45 * time.Second}

// Client is a rate-limited HTTP client for the Academic Graph API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
	retry      RetryPolicy
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key. A key raises rate limits but is not required.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithRetryPolicy sets the 429 retry policy.
func WithRetryPolicy(p RetryPolicy) ClientOption {
	return func(c *Client) {
		c.retry = p
	}
}

// NewClient creates a new Academic Graph API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		retry:      DefaultRetryPolicy,
	}

	// Check for API key in environment
	if key := os.Getenv("SEMANTIC_SCHOLAR_API_KEY"); key != "" {
		c.apiKey = key
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs a rate-limited GET with bounded 429 retries and returns the
// response body.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	attempts := c.retry.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)
		if c.apiKey != "" {
			req.Header.Set("x-api-key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			if attempt >= attempts {
				return nil, fmt.Errorf("%w: giving up after %d attempts", ErrRateLimited, attempt)
			}
			if err := sleepContext(ctx, c.retry.Backoff); err != nil {
				return nil, err
			}
			continue
		}

		if err := checkHTTPErrors(resp); err != nil {
			resp.Body.Close()
			return nil, err
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading response: %w", err)
		}
		return body, nil
	}
}

const userAgent = "citeline/1.0 (research tool)"

// sleepContext pauses for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response) error {
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}
	return nil
}

// PaperByDOI fetches paper metadata for a DOI.
func (c *Client) PaperByDOI(ctx context.Context, doi string) (*Paper, error) {
	u := fmt.Sprintf("%s/paper/DOI:%s?fields=%s", c.baseURL, url.PathEscape(doi), paperFields)

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var paper Paper
	if err := json.Unmarshal(body, &paper); err != nil {
		return nil, fmt.Errorf("%w: parsing paper: %v", ErrInvalidResponse, err)
	}
	if paper.PaperID == "" && paper.Title == "" {
		return nil, ErrNotFound
	}

	return &paper, nil
}

// SearchPapers searches papers by keyword relevance and returns up to limit
// candidates.
func (c *Client) SearchPapers(ctx context.Context, query string, limit int) ([]Paper, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("limit", fmt.Sprint(limit))
	q.Set("fields", paperFields)
	u := fmt.Sprintf("%s/paper/search?%s", c.baseURL, q.Encode())

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Data []Paper `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, fmt.Errorf("%w: parsing search results: %v", ErrInvalidResponse, err)
	}

	return wrapper.Data, nil
}
