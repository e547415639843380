// Package main provides the citeline CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// configPath is the optional YAML config file location
var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "citeline",
	Short: "Resolve references and anchor extracted values in PDFs",
	Long: `citeline resolves free-form bibliographic references (URLs, DOIs,
plain-text citations) to a canonical paper identity and a best-effort
open-access PDF location, and anchors extracted field values back to
the exact quoted passage in a PDF's text layer.

Resolutions are cached (including negative results) so identical
references never hit external services twice. All commands output JSON
by default; use --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env if present (for SEMANTIC_SCHOLAR_API_KEY, UNPAYWALL_EMAIL)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "citeline.yml", "Path to config file")
	rootCmd.Version = Version
}
