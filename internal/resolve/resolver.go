// Package resolve turns free-form bibliographic references (URLs, DOIs,
// plain-text citations) into resolutions: a canonical paper identity plus
// a best-effort open-access PDF location. Results, including negative
// ones, are cached so identical references never hit external services
// twice.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/matsen/citeline/internal/cache"
	"github.com/matsen/citeline/internal/reference"
	"github.com/matsen/citeline/internal/s2"
	"github.com/matsen/citeline/internal/unpaywall"
)

// S2API is the subset of the Semantic Scholar client the resolver uses.
type S2API interface {
	PaperByDOI(ctx context.Context, doi string) (*s2.Paper, error)
	SearchPapers(ctx context.Context, query string, limit int) ([]s2.Paper, error)
}

// OAFinder looks up open-access locations for a DOI.
type OAFinder interface {
	Lookup(ctx context.Context, doi string) (*unpaywall.Record, error)
}

// Config holds resolver tuning knobs.
type Config struct {
	// MaxResults caps the number of search candidates scored per citation.
	MaxResults int
	// AcceptThreshold is the score a best candidate must exceed.
	AcceptThreshold int
	// RateLimitDelay paces top-level resolutions to respect external
	// service limits. Zero disables pacing (tests).
	RateLimitDelay time.Duration
}

// DefaultConfig returns the standard resolver configuration.
func DefaultConfig() Config {
	return Config{
		MaxResults:      s2.DefaultSearchLimit,
		AcceptThreshold: DefaultAcceptThreshold,
		RateLimitDelay:  time.Second,
	}
}

// Resolver classifies references and resolves them through a cascading
// chain of external lookups. All failure is scoped to a single reference;
// Resolve never panics on malformed input.
type Resolver struct {
	s2      S2API
	oa      OAFinder
	cache   *cache.Cache
	cfg     Config
	limiter *rate.Limiter
}

// New creates a Resolver. The cache is required: it is the sole
// deduplication mechanism. oa may be nil, disabling the Unpaywall step of
// the PDF-URL cascade.
func New(s2Client S2API, oa OAFinder, c *cache.Cache, cfg Config) *Resolver {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = s2.DefaultSearchLimit
	}
	if cfg.AcceptThreshold == 0 {
		cfg.AcceptThreshold = DefaultAcceptThreshold
	}

	r := &Resolver{
		s2:    s2Client,
		oa:    oa,
		cache: c,
		cfg:   cfg,
	}
	if cfg.RateLimitDelay > 0 {
		r.limiter = rate.NewLimiter(rate.Every(cfg.RateLimitDelay), 1)
	}
	return r
}

// Resolve resolves any type of reference. A nil resolution with a nil
// error means "could not resolve" and has been cached as such. The only
// non-nil errors are rate-limit exhaustion and context cancellation;
// everything else degrades to a cached negative result.
func (r *Resolver) Resolve(ctx context.Context, raw string) (*reference.Resolution, error) {
	ref := reference.Classify(raw)

	switch ref.Kind {
	case reference.KindEmpty:
		return nil, nil

	case reference.KindDirectPDF:
		// No external call, no cache entry: the URL is its own resolution.
		return &reference.Resolution{
			PDFURL: ref.Raw,
			Source: reference.SourceDirectURL,
		}, nil

	case reference.KindDOI:
		if err := r.pace(ctx); err != nil {
			return nil, err
		}
		return r.resolveDOI(ctx, ref.DOI)

	default:
		if err := r.pace(ctx); err != nil {
			return nil, err
		}
		return r.searchCitation(ctx, ref.Raw)
	}
}

// BatchResolve resolves references in caller-supplied order and returns
// the successful resolutions keyed by the original reference string.
func (r *Resolver) BatchResolve(ctx context.Context, refs []string) (map[string]*reference.Resolution, error) {
	results := make(map[string]*reference.Resolution)

	for _, raw := range refs {
		if raw == "" {
			continue
		}
		res, err := r.Resolve(ctx, raw)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return results, err
			}
			// Rate-limit exhaustion on one reference does not abort the batch.
			continue
		}
		if res != nil {
			results[raw] = res
		}
	}

	return results, nil
}

// pace enforces the per-resolution delay contract.
func (r *Resolver) pace(ctx context.Context) error {
	if r.limiter == nil {
		return nil
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("resolver pacing: %w", err)
	}
	return nil
}

// resolveDOI resolves a DOI to metadata plus a PDF location.
func (r *Resolver) resolveDOI(ctx context.Context, doi string) (*reference.Resolution, error) {
	key := cache.DOIKey(doi)
	if res, found, err := r.cache.Get(key); err != nil {
		return nil, err
	} else if found {
		return res, nil
	}

	paper, err := r.s2.PaperByDOI(ctx, doi)
	if err != nil {
		return r.lookupFailed(key, err)
	}

	res := &reference.Resolution{
		DOI:    doi,
		Title:  paper.Title,
		Year:   paper.Year,
		Source: reference.SourceSemanticScholar,
	}
	res.PDFURL, res.Paywalled = r.locatePDF(ctx, doi, paper.OpenAccessURL())

	if err := r.cache.Put(key, res); err != nil {
		return nil, err
	}
	return res, nil
}

// searchCitation resolves free citation text through search, scoring
// candidates and accepting the best only past the configured threshold.
func (r *Resolver) searchCitation(ctx context.Context, text string) (*reference.Resolution, error) {
	key := cache.CitationKey(text)
	if res, found, err := r.cache.Get(key); err != nil {
		return nil, err
	} else if found {
		return res, nil
	}

	targetAuthor, targetYear := parseCitation(text)

	candidates, err := r.s2.SearchPapers(ctx, text, r.cfg.MaxResults)
	if err != nil {
		return r.lookupFailed(key, err)
	}

	var best *s2.Paper
	bestScore := -1
	for i := range candidates {
		score, ok := ScoreCandidate(candidates[i], targetAuthor, targetYear)
		if !ok {
			continue
		}
		if score > bestScore {
			bestScore = score
			best = &candidates[i]
		}
	}

	if best == nil || bestScore <= r.cfg.AcceptThreshold {
		if err := r.cache.Put(key, nil); err != nil {
			return nil, err
		}
		return nil, nil
	}

	res := &reference.Resolution{
		DOI:        best.DOI(),
		Title:      best.Title,
		Year:       best.Year,
		Source:     reference.SourceSemanticScholar,
		Confidence: float64(bestScore) / float64(MaxScore),
	}
	res.PDFURL, res.Paywalled = r.locatePDF(ctx, best.DOI(), best.OpenAccessURL())

	if err := r.cache.Put(key, res); err != nil {
		return nil, err
	}
	return res, nil
}

// lookupFailed records a negative result unless the failure is transient.
// Rate-limit exhaustion and cancellation propagate without poisoning the
// cache; every other lookup failure is a cacheable "could not resolve".
func (r *Resolver) lookupFailed(key string, err error) (*reference.Resolution, error) {
	if s2.IsRateLimited(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	if putErr := r.cache.Put(key, nil); putErr != nil {
		return nil, putErr
	}
	return nil, nil
}

// urlStrategy is one step of the PDF-URL discovery cascade.
type urlStrategy struct {
	name string
	find func(ctx context.Context, doi, apiOA string) string
}

// locatePDF runs the PDF-URL cascade: the API's open-access link if not
// paywalled, then Unpaywall's locations, then publisher URL patterns.
// Each step is attempted only if the previous yielded nothing usable.
// The boolean flags a last-resort URL on a known paywalled domain.
func (r *Resolver) locatePDF(ctx context.Context, doi, apiOA string) (string, bool) {
	strategies := []urlStrategy{
		{"api_open_access", func(_ context.Context, _, apiOA string) string {
			if apiOA != "" && !IsPaywalled(apiOA) {
				return apiOA
			}
			return ""
		}},
		{"unpaywall", r.unpaywallPDF},
		{"publisher_pattern", func(_ context.Context, doi, _ string) string {
			return PublisherPDFURL(doi)
		}},
	}

	for _, s := range strategies {
		if url := s.find(ctx, doi, apiOA); url != "" {
			return url, IsPaywalled(url)
		}
	}
	return "", false
}

// unpaywallPDF asks Unpaywall for an open-access copy: the best location
// first, then a scan of all reported locations for a non-paywalled URL.
func (r *Resolver) unpaywallPDF(ctx context.Context, doi, _ string) string {
	if r.oa == nil || doi == "" {
		return ""
	}

	rec, err := r.oa.Lookup(ctx, doi)
	if err != nil {
		return ""
	}

	if rec.BestOALocation != nil {
		if url := rec.BestOALocation.PDFURL(); url != "" && !IsPaywalled(url) {
			return url
		}
	}
	for _, loc := range rec.OALocations {
		if url := loc.PDFURL(); url != "" && !IsPaywalled(url) {
			return url
		}
	}
	return ""
}
