// Package download fetches PDFs from publisher and repository URLs,
// validating that the response is actually a PDF before keeping it.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/matsen/citeline/internal/reference"
)

const (
	// DefaultTimeout bounds a single download request.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries bounds retries on transient failures.
	DefaultMaxRetries = 3

	// minPDFSize rejects error pages served with a 200 status.
	minPDFSize = 1000

	// DefaultUserAgent mimics a browser; several publishers refuse
	// obvious bots outright.
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
)

// Common errors returned by the downloader.
var (
	// ErrNotPDF indicates the response body was not a PDF.
	ErrNotPDF = errors.New("response is not a PDF")

	// ErrAccessDenied indicates the server refused the request (403),
	// typically a paywall.
	ErrAccessDenied = errors.New("access denied (may require authentication)")

	// ErrNotFound indicates the URL returned 404.
	ErrNotFound = errors.New("PDF not found")
)

// Downloader fetches PDFs into a target directory.
type Downloader struct {
	httpClient   *http.Client
	dir          string
	maxRetries   int
	userAgent    string
	skipExisting bool
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(d *Downloader) {
		d.httpClient = hc
	}
}

// WithMaxRetries sets the transient-failure retry bound.
func WithMaxRetries(n int) Option {
	return func(d *Downloader) {
		if n > 0 {
			d.maxRetries = n
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(d *Downloader) {
		d.userAgent = ua
	}
}

// WithSkipExisting controls whether already-downloaded files are reused.
func WithSkipExisting(skip bool) Option {
	return func(d *Downloader) {
		d.skipExisting = skip
	}
}

// New creates a Downloader writing into dir.
func New(dir string, opts ...Option) *Downloader {
	d := &Downloader{
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		dir:          dir,
		maxRetries:   DefaultMaxRetries,
		userAgent:    DefaultUserAgent,
		skipExisting: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Download fetches rawURL into the download directory under filename.
// Transient failures (5xx, timeouts) retry with exponential backoff;
// 403/404 and non-PDF responses fail immediately.
func (d *Downloader) Download(ctx context.Context, rawURL, filename string) (string, error) {
	if rawURL == "" {
		return "", fmt.Errorf("empty URL")
	}

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return "", fmt.Errorf("creating download directory: %w", err)
	}

	outPath := filepath.Join(d.dir, filename)
	if d.skipExisting {
		if info, err := os.Stat(outPath); err == nil && info.Size() > minPDFSize {
			return outPath, nil
		}
	}

	var lastErr error
	for attempt := 0; attempt < d.maxRetries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(1<<(attempt-1)) * time.Second
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(wait):
			}
		}

		path, retryable, err := d.tryDownload(ctx, rawURL, outPath)
		if err == nil {
			return path, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
	}

	return "", fmt.Errorf("download failed after %d attempts: %w", d.maxRetries, lastErr)
}

// tryDownload performs one attempt. The boolean reports whether the
// failure is worth retrying.
func (d *Downloader) tryDownload(ctx context.Context, rawURL, outPath string) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "application/pdf,application/octet-stream,*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return "", false, ErrAccessDenied
	case resp.StatusCode == http.StatusNotFound:
		return "", false, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return "", true, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	head := make([]byte, 4)
	n, _ := io.ReadFull(resp.Body, head)
	contentType := resp.Header.Get("Content-Type")
	isPDF := strings.Contains(strings.ToLower(contentType), "pdf") ||
		strings.HasSuffix(rawURL, ".pdf") ||
		string(head[:n]) == "%PDF"
	if !isPDF {
		return "", false, fmt.Errorf("%w (content-type: %s)", ErrNotPDF, contentType)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return "", false, fmt.Errorf("creating file: %w", err)
	}
	if _, err := f.Write(head[:n]); err != nil {
		f.Close()
		os.Remove(outPath)
		return "", false, fmt.Errorf("writing file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(outPath)
		return "", true, fmt.Errorf("writing file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(outPath)
		return "", false, fmt.Errorf("closing file: %w", err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return "", false, err
	}
	if info.Size() < minPDFSize {
		os.Remove(outPath)
		return "", false, fmt.Errorf("%w: file too small (%d bytes)", ErrNotPDF, info.Size())
	}

	return outPath, false, nil
}

// FromResolution downloads a resolution's PDF, deriving the filename from
// the identifier and DOI (or URL path when no DOI exists).
func (d *Downloader) FromResolution(ctx context.Context, res *reference.Resolution, identifier string) (string, error) {
	if res == nil || res.PDFURL == "" {
		return "", fmt.Errorf("resolution has no PDF URL")
	}

	var filename string
	if res.DOI != "" {
		safeDOI := strings.NewReplacer("/", "_", ".", "_").Replace(res.DOI)
		filename = fmt.Sprintf("%s_%s.pdf", SanitizeFilename(identifier), safeDOI)
	} else {
		part := ""
		if u, err := url.Parse(res.PDFURL); err == nil {
			segs := strings.Split(u.Path, "/")
			part = segs[len(segs)-1]
			if len(part) > 30 {
				part = part[:30]
			}
		}
		filename = fmt.Sprintf("%s_%s.pdf", SanitizeFilename(identifier), SanitizeFilename(part))
	}

	return d.Download(ctx, res.PDFURL, filename)
}

var (
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRun        = regexp.MustCompile(`\s+`)
)

// SanitizeFilename makes text safe for use as a filename component.
func SanitizeFilename(text string) string {
	const maxLen = 50
	text = invalidFilenameChars.ReplaceAllString(text, "_")
	text = whitespaceRun.ReplaceAllString(text, "_")
	text = strings.TrimSuffix(text, ".pdf")
	if len(text) > maxLen {
		text = text[:maxLen]
	}
	return text
}
