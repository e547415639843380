package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Resolve a file of references, one per line",
	Long: `Resolve every reference in a file, one per line. Blank lines are
skipped. Lookups are paced and cached, so re-running over the same file
only hits external services for references not seen before.

A rate-limit exhaustion on one reference does not abort the batch; the
remaining references are still attempted.

Examples:
  citeline batch refs.txt
  citeline batch refs.txt --human`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

// BatchResult is the JSON output for the batch command.
type BatchResult struct {
	Total      int             `json:"total"`
	Resolved   int             `json:"resolved"`
	Unresolved int             `json:"unresolved"`
	Results    []ResolveResult `json:"results"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	refs, err := readReferenceLines(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%s", err)
	}

	cfg := loadConfig()
	resolver, c, err := buildResolver(cfg)
	if err != nil {
		exitWithError(ExitConfigError, "%s", err)
	}
	defer c.Close()

	resolved, err := resolver.BatchResolve(context.Background(), refs)
	if err != nil {
		return err
	}

	out := BatchResult{Total: len(refs)}
	for _, ref := range refs {
		r := newResolveResult(ref, resolved[ref])
		if r.Resolved {
			out.Resolved++
		} else {
			out.Unresolved++
		}
		out.Results = append(out.Results, r)
	}

	if humanOutput {
		for _, r := range out.Results {
			printResolveHuman(r)
			outputHuman("\n")
		}
		outputHuman("%d/%d resolved\n", out.Resolved, out.Total)
		return nil
	}
	return outputJSON(out)
}

// readReferenceLines reads one reference per line, skipping blanks.
func readReferenceLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading references: %w", err)
	}
	defer f.Close()

	var refs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		refs = append(refs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading references: %w", err)
	}
	return refs, nil
}
