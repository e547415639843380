package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/matsen/citeline/internal/anchor"
	"github.com/spf13/cobra"
)

var (
	annotateOut    string
	annotateLegend bool
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <pdf> <claims.json>",
	Short: "Highlight claimed source passages in a PDF",
	Long: `Locate each claim's quoted source text in the PDF's text layer and
write a copy with color-coded highlight annotations. The input PDF is
never modified.

The claims file is a JSON array of objects:

  [{"field": "latitude", "value": 68.5,
    "source_text": "68.5 deg N", "page": 3}]

Matching degrades through increasingly lenient strategies (exact,
whitespace-collapsed, unicode-normalized, numeric tokens, leading and
trailing snippets). Claims no strategy can place are reported but do
not fail the run. If nothing can be placed, no output file is written.

Examples:
  citeline annotate paper.pdf claims.json
  citeline annotate paper.pdf claims.json -o paper_checked.pdf --legend=false`,
	Args: cobra.ExactArgs(2),
	RunE: runAnnotate,
}

func init() {
	rootCmd.AddCommand(annotateCmd)
	annotateCmd.Flags().StringVarP(&annotateOut, "out", "o", "", "Output PDF path (default <pdf>_annotated.pdf)")
	annotateCmd.Flags().BoolVar(&annotateLegend, "legend", true, "Draw a color legend on the first page")
}

// AnnotateResult is the JSON output for the annotate command.
type AnnotateResult struct {
	Input   string               `json:"input"`
	Output  string               `json:"output,omitempty"`
	Claims  int                  `json:"claims"`
	Placed  int                  `json:"placed"`
	Written bool                 `json:"written"`
	Failed  []anchor.FailedMatch `json:"failed,omitempty"`
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	pdfPath, claimsPath := args[0], args[1]

	claims, err := readClaims(claimsPath)
	if err != nil {
		exitWithError(ExitDataError, "%s", err)
	}

	outPath := annotateOut
	if outPath == "" {
		outPath = defaultAnnotatedPath(pdfPath)
	}

	cfg := loadConfig()
	if cmd.Flags().Changed("legend") {
		cfg.Anchor.Legend = annotateLegend
	}

	annotator := buildAnnotator(cfg)
	placed, err := annotator.Annotate(pdfPath, claims, outPath, cfg.Anchor.Legend)
	if err != nil {
		exitWithError(ExitDataError, "%s", err)
	}

	result := AnnotateResult{
		Input:   pdfPath,
		Claims:  len(claims),
		Placed:  placed,
		Written: placed > 0,
		Failed:  annotator.FailedMatches(),
	}
	if result.Written {
		result.Output = outPath
	}

	if humanOutput {
		outputHuman("placed %d/%d claims\n", result.Placed, result.Claims)
		if result.Written {
			outputHuman("wrote %s\n", result.Output)
		} else {
			outputHuman("nothing placed, no output written\n")
		}
		for _, f := range result.Failed {
			outputHuman("  unmatched [%s]: %s\n", f.Field, truncateString(f.Text, ResultTitleMaxLen))
		}
		return nil
	}
	return outputJSON(result)
}

// readClaims parses a JSON array of source claims.
func readClaims(path string) ([]anchor.SourceClaim, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading claims: %w", err)
	}
	var claims []anchor.SourceClaim
	if err := json.Unmarshal(data, &claims); err != nil {
		return nil, fmt.Errorf("parsing claims: %w", err)
	}
	return claims, nil
}

// defaultAnnotatedPath derives the output path from the input PDF name.
func defaultAnnotatedPath(pdfPath string) string {
	base := strings.TrimSuffix(pdfPath, ".pdf")
	return base + "_annotated.pdf"
}
