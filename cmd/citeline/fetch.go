package main

import (
	"context"
	"errors"
	"os"

	"github.com/matsen/citeline/internal/download"
	"github.com/matsen/citeline/internal/s2"
	"github.com/spf13/cobra"
)

var fetchDir string

var fetchCmd = &cobra.Command{
	Use:   "fetch <reference>",
	Short: "Resolve a reference and download its PDF",
	Long: `Resolve a reference and, if an open-access PDF location is found,
download it. The filename is derived from the DOI when available,
otherwise from the reference text.

Examples:
  citeline fetch "10.5194/cp-12-1-2016"
  citeline fetch "https://example.org/paper.pdf" --dir downloads`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringVar(&fetchDir, "dir", "", "Download directory (default from config)")
}

// FetchResult is the JSON output for the fetch command.
type FetchResult struct {
	ResolveResult
	Path string `json:"path,omitempty"`
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if fetchDir != "" {
		cfg.Downloader.Dir = fetchDir
	}

	resolver, c, err := buildResolver(cfg)
	if err != nil {
		exitWithError(ExitConfigError, "%s", err)
	}
	defer c.Close()

	ctx := context.Background()
	res, err := resolver.Resolve(ctx, args[0])
	if err != nil {
		if errors.Is(err, s2.ErrRateLimited) {
			exitWithError(ExitRateLimited, "%s", err)
		}
		return err
	}
	if res == nil || res.PDFURL == "" {
		result := FetchResult{ResolveResult: newResolveResult(args[0], res)}
		if humanOutput {
			outputHuman("no pdf available for: %s\n", truncateString(args[0], ResultTitleMaxLen))
		} else {
			if err := outputJSON(result); err != nil {
				return err
			}
		}
		os.Exit(ExitNotFound)
	}

	dl := buildDownloader(cfg)
	path, err := dl.FromResolution(ctx, res, download.SanitizeFilename(args[0]))
	if err != nil {
		return err
	}

	result := FetchResult{ResolveResult: newResolveResult(args[0], res), Path: path}
	if humanOutput {
		printResolveHuman(result.ResolveResult)
		outputHuman("  saved:      %s\n", path)
		return nil
	}
	return outputJSON(result)
}
