package main

import (
	"context"
	"errors"
	"os"

	"github.com/matsen/citeline/internal/reference"
	"github.com/matsen/citeline/internal/s2"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <reference>",
	Short: "Resolve a reference to a paper identity and PDF URL",
	Long: `Resolve a free-form reference to a canonical paper identity and a
best-effort open-access PDF location.

The reference may be a DOI, a DOI URL, a direct PDF URL, or a plain-text
citation. Results (including failures) are cached; a repeated reference
never hits external services twice.

Examples:
  citeline resolve "10.1038/nature12373"
  citeline resolve "https://doi.org/10.5194/cp-12-1-2016"
  citeline resolve "Smith et al. (2019) Holocene temperature trends"`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

// ResolveResult is the JSON output for the resolve command.
type ResolveResult struct {
	Reference  string  `json:"reference"`
	Resolved   bool    `json:"resolved"`
	DOI        string  `json:"doi,omitempty"`
	Title      string  `json:"title,omitempty"`
	Year       int     `json:"year,omitempty"`
	PDFURL     string  `json:"pdf_url,omitempty"`
	Source     string  `json:"source,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Paywalled  bool    `json:"paywalled,omitempty"`
}

func newResolveResult(ref string, res *reference.Resolution) ResolveResult {
	out := ResolveResult{Reference: ref}
	if res == nil {
		return out
	}
	out.Resolved = true
	out.DOI = res.DOI
	out.Title = res.Title
	out.Year = res.Year
	out.PDFURL = res.PDFURL
	out.Source = string(res.Source)
	out.Confidence = res.Confidence
	out.Paywalled = res.Paywalled
	return out
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	resolver, c, err := buildResolver(cfg)
	if err != nil {
		exitWithError(ExitConfigError, "%s", err)
	}
	defer c.Close()

	res, err := resolver.Resolve(context.Background(), args[0])
	if err != nil {
		if errors.Is(err, s2.ErrRateLimited) {
			exitWithError(ExitRateLimited, "%s", err)
		}
		return err
	}

	result := newResolveResult(args[0], res)
	if humanOutput {
		printResolveHuman(result)
	} else {
		if err := outputJSON(result); err != nil {
			return err
		}
	}
	if !result.Resolved {
		os.Exit(ExitNotFound)
	}
	return nil
}

func printResolveHuman(r ResolveResult) {
	if !r.Resolved {
		outputHuman("unresolved: %s\n", truncateString(r.Reference, ResultTitleMaxLen))
		return
	}
	if r.Title != "" {
		outputHuman("%s (%d)\n", truncateString(r.Title, ResultTitleMaxLen), r.Year)
	}
	if r.DOI != "" {
		outputHuman("  doi:        %s\n", r.DOI)
	}
	if r.PDFURL != "" {
		outputHuman("  pdf:        %s\n", r.PDFURL)
	}
	outputHuman("  source:     %s\n", r.Source)
	if r.Confidence > 0 {
		outputHuman("  confidence: %s\n", formatConfidence(r.Confidence))
	}
	if r.Paywalled {
		outputHuman("  paywalled:  yes\n")
	}
}
