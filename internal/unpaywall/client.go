// Package unpaywall provides a client for the Unpaywall v2 API, which
// reports freely accessible copies of a paper (preprints, repository
// deposits) independent of the publisher's paywall status.
package unpaywall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Unpaywall API base URL.
	BaseURL = "https://api.unpaywall.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 10 * time.Second

	// RateLimit keeps well under Unpaywall's 100k requests/day policy.
	RateLimit = 5.0
)

// Common errors returned by the client.
var (
	// ErrNoEmail indicates the client was constructed without the contact
	// email Unpaywall's usage policy requires.
	ErrNoEmail = errors.New("unpaywall requires a contact email")

	// ErrNotFound indicates Unpaywall has no record for the DOI.
	ErrNotFound = errors.New("DOI not found in Unpaywall")
)

// Location is one reported open-access location for a paper.
type Location struct {
	URLForPDF string `json:"url_for_pdf"`
	URL       string `json:"url"`
	HostType  string `json:"host_type"` // publisher or repository
	Version   string `json:"version"`
}

// PDFURL returns the location's PDF link, preferring the direct PDF URL.
func (l Location) PDFURL() string {
	if l.URLForPDF != "" {
		return l.URLForPDF
	}
	return l.URL
}

// Record is the Unpaywall response for a DOI.
type Record struct {
	DOI            string     `json:"doi"`
	IsOA           bool       `json:"is_oa"`
	BestOALocation *Location  `json:"best_oa_location"`
	OALocations    []Location `json:"oa_locations"`
}

// Client is a rate-limited HTTP client for the Unpaywall API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	email      string
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

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

// NewClient creates an Unpaywall client. The email is mandatory per the
// service's usage policy and is sent with every request.
func NewClient(email string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		email:      email,
		baseURL:    BaseURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Lookup fetches the open-access record for a DOI.
func (c *Client) Lookup(ctx context.Context, doi string) (*Record, error) {
	if c.email == "" {
		return nil, ErrNoEmail
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	u := fmt.Sprintf("%s/v2/%s?email=%s", c.baseURL, url.PathEscape(doi), url.QueryEscape(c.email))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unpaywall request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unpaywall: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("parsing unpaywall response: %w", err)
	}

	return &rec, nil
}
