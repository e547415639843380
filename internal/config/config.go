// Package config handles citeline configuration: a YAML file with
// defaults for every knob, plus environment overrides for credentials.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted for credentials. Env wins over file.
const (
	EnvS2APIKey       = "SEMANTIC_SCHOLAR_API_KEY"
	EnvUnpaywallEmail = "UNPAYWALL_EMAIL"
)

// Config is the full citeline configuration.
type Config struct {
	Resolver   ResolverConfig   `yaml:"resolver"`
	Anchor     AnchorConfig     `yaml:"anchor"`
	Downloader DownloaderConfig `yaml:"downloader"`
}

// ResolverConfig configures reference resolution.
type ResolverConfig struct {
	SemanticScholar SemanticScholarConfig `yaml:"semantic_scholar"`
	UnpaywallEmail  string                `yaml:"unpaywall_email"`
	RateLimitDelay  float64               `yaml:"rate_limit_delay_seconds"`
	AcceptThreshold int                   `yaml:"accept_threshold"`
	CachePath       string                `yaml:"cache_path"`
	Retry           RetryConfig           `yaml:"retry"`
}

// SemanticScholarConfig configures the Academic Graph API client.
type SemanticScholarConfig struct {
	APIKey         string  `yaml:"api_key,omitempty"`
	TimeoutSeconds float64 `yaml:"timeout_seconds"`
	MaxResults     int     `yaml:"max_results"`
}

// RetryConfig bounds 429 retries.
type RetryConfig struct {
	MaxAttempts    int     `yaml:"max_attempts"`
	BackoffSeconds float64 `yaml:"backoff_seconds"`
}

// AnchorConfig configures PDF annotation.
type AnchorConfig struct {
	MaxHighlightsPerClaim int                  `yaml:"max_highlights_per_claim"`
	Legend                bool                 `yaml:"legend"`
	Colors                map[string][]float64 `yaml:"colors,omitempty"` // field -> [r, g, b]
}

// DownloaderConfig configures PDF downloads.
type DownloaderConfig struct {
	Dir            string  `yaml:"dir"`
	TimeoutSeconds float64 `yaml:"timeout_seconds"`
	MaxRetries     int     `yaml:"max_retries"`
	SkipExisting   bool    `yaml:"skip_existing"`
	UserAgent      string  `yaml:"user_agent,omitempty"`
}

// Default returns the standard configuration.
func Default() *Config {
	return &Config{
		Resolver: ResolverConfig{
			SemanticScholar: SemanticScholarConfig{
				TimeoutSeconds: 15,
				MaxResults:     10,
			},
			RateLimitDelay:  1,
			AcceptThreshold: 50,
			CachePath:       "resolution_cache.db",
			Retry: RetryConfig{
				MaxAttempts:    3,
				BackoffSeconds: 45,
			},
		},
		Anchor: AnchorConfig{
			MaxHighlightsPerClaim: 5,
			Legend:                true,
		},
		Downloader: DownloaderConfig{
			Dir:            "papers",
			TimeoutSeconds: 60,
			MaxRetries:     3,
			SkipExisting:   true,
		},
	}
}

// Load reads configuration from path, layered over defaults. A missing
// file is not an error: defaults plus environment overrides apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv applies environment credential overrides.
func (c *Config) applyEnv() {
	if key := os.Getenv(EnvS2APIKey); key != "" {
		c.Resolver.SemanticScholar.APIKey = key
	}
	if email := os.Getenv(EnvUnpaywallEmail); email != "" {
		c.Resolver.UnpaywallEmail = email
	}
}

// RateLimitDelayDuration returns the resolver pacing delay as a duration.
func (c *ResolverConfig) RateLimitDelayDuration() time.Duration {
	return time.Duration(c.RateLimitDelay * float64(time.Second))
}

// Timeout returns the Semantic Scholar HTTP timeout as a duration.
func (c *SemanticScholarConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

// Backoff returns the 429 pause as a duration.
func (c *RetryConfig) Backoff() time.Duration {
	return time.Duration(c.BackoffSeconds * float64(time.Second))
}

// Timeout returns the download HTTP timeout as a duration.
func (c *DownloaderConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}
