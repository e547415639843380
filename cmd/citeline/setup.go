package main

import (
	"fmt"
	"net/http"

	"github.com/matsen/citeline/internal/anchor"
	"github.com/matsen/citeline/internal/cache"
	"github.com/matsen/citeline/internal/config"
	"github.com/matsen/citeline/internal/download"
	"github.com/matsen/citeline/internal/resolve"
	"github.com/matsen/citeline/internal/s2"
	"github.com/matsen/citeline/internal/unpaywall"
)

// buildResolver wires a Resolver and its cache from configuration.
// The caller owns the returned cache and must Close it.
func buildResolver(cfg *config.Config) (*resolve.Resolver, *cache.Cache, error) {
	rc := cfg.Resolver

	c, err := cache.Open(rc.CachePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening cache: %w", err)
	}

	s2Opts := []s2.ClientOption{
		s2.WithHTTPClient(&http.Client{Timeout: rc.SemanticScholar.Timeout()}),
		s2.WithRetryPolicy(s2.RetryPolicy{
			MaxAttempts: rc.Retry.MaxAttempts,
			Backoff:     rc.Retry.Backoff(),
		}),
	}
	if rc.SemanticScholar.APIKey != "" {
		s2Opts = append(s2Opts, s2.WithAPIKey(rc.SemanticScholar.APIKey))
	}
	s2Client := s2.NewClient(s2Opts...)

	var oa resolve.OAFinder
	if rc.UnpaywallEmail != "" {
		oa = unpaywall.NewClient(rc.UnpaywallEmail)
	}

	r := resolve.New(s2Client, oa, c, resolve.Config{
		MaxResults:      rc.SemanticScholar.MaxResults,
		AcceptThreshold: rc.AcceptThreshold,
		RateLimitDelay:  rc.RateLimitDelayDuration(),
	})
	return r, c, nil
}

// buildDownloader wires a Downloader from configuration.
func buildDownloader(cfg *config.Config) *download.Downloader {
	dc := cfg.Downloader
	opts := []download.Option{
		download.WithHTTPClient(&http.Client{Timeout: dc.Timeout()}),
		download.WithMaxRetries(dc.MaxRetries),
		download.WithSkipExisting(dc.SkipExisting),
	}
	if dc.UserAgent != "" {
		opts = append(opts, download.WithUserAgent(dc.UserAgent))
	}
	return download.New(dc.Dir, opts...)
}

// buildAnnotator wires an Annotator from configuration.
func buildAnnotator(cfg *config.Config) *anchor.Annotator {
	ac := cfg.Anchor
	opts := []anchor.Option{}
	if ac.MaxHighlightsPerClaim > 0 {
		opts = append(opts, anchor.WithMaxPerClaim(ac.MaxHighlightsPerClaim))
	}
	if len(ac.Colors) > 0 {
		overrides := make(map[string]anchor.RGB, len(ac.Colors))
		for field, rgb := range ac.Colors {
			if len(rgb) == 3 {
				overrides[field] = anchor.RGB{R: rgb[0], G: rgb[1], B: rgb[2]}
			}
		}
		opts = append(opts, anchor.WithColorOverrides(overrides))
	}
	return anchor.New(opts...)
}

// loadConfig loads the config file or exits with a config error.
func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "%s", err)
	}
	return cfg
}
