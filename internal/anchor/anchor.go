package anchor

import (
	"fmt"

	"github.com/matsen/citeline/internal/pdftext"
)

// DefaultMaxPerClaim caps highlight placements per located claim to bound
// visual clutter on repetitive text.
const DefaultMaxPerClaim = 5

// Annotator anchors source claims in PDFs and writes highlight
// annotations. Failure is scoped to a single claim; only an unreadable
// input PDF aborts a whole annotation pass.
type Annotator struct {
	colors      ColorMap
	maxPerClaim int
	failed      []FailedMatch
}

// Option configures an Annotator.
type Option func(*Annotator)

// WithColorOverrides sets explicit per-field colors that take precedence
// over keyword classification.
func WithColorOverrides(overrides map[string]RGB) Option {
	return func(a *Annotator) {
		a.colors = NewColorMap(overrides)
	}
}

// WithMaxPerClaim overrides the per-claim highlight cap.
func WithMaxPerClaim(n int) Option {
	return func(a *Annotator) {
		if n > 0 {
			a.maxPerClaim = n
		}
	}
}

// New creates an Annotator.
func New(opts ...Option) *Annotator {
	a := &Annotator{
		colors:      NewColorMap(nil),
		maxPerClaim: DefaultMaxPerClaim,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Annotate locates each claim's source text in the PDF at pdfPath and
// writes a highlighted copy to outPath. The input PDF is never mutated.
// Returns the number of claims successfully placed. Zero placements (or
// an empty claim list) is a no-op: no output file is produced and no
// error is returned. An unreadable PDF returns an error and nothing is
// written.
func (a *Annotator) Annotate(pdfPath string, claims []SourceClaim, outPath string, addLegend bool) (int, error) {
	a.failed = nil

	if len(claims) == 0 {
		return 0, nil
	}

	doc, err := pdftext.Load(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", pdfPath, err)
	}

	highlights, placed := a.Locate(doc.Pages, claims)
	if placed == 0 {
		return 0, nil
	}

	perPage := annotationsByPage(highlights)
	if addLegend && len(doc.Pages) > 0 {
		first := &doc.Pages[0]
		perPage[1] = append(perPage[1], legendAnnotations(first.Width, first.Height)...)
	}

	if err := writeAnnotations(pdfPath, outPath, perPage); err != nil {
		return 0, fmt.Errorf("writing annotations: %w", err)
	}
	return placed, nil
}

// Locate runs the per-claim search over pages and returns the highlight
// placements plus the count of claims that matched anywhere. Claims with
// an empty value or source text are skipped, not failed.
func (a *Annotator) Locate(pages []pdftext.Page, claims []SourceClaim) ([]Highlight, int) {
	var highlights []Highlight
	placed := 0

	for _, c := range claims {
		if c.empty() {
			continue
		}
		hs := a.locateClaim(pages, c)
		if hs == nil {
			a.failed = append(a.failed, FailedMatch{
				Field:    c.Field,
				Text:     c.SourceText,
				PageHint: c.Page,
			})
			continue
		}
		placed++
		highlights = append(highlights, hs...)
	}

	return highlights, placed
}

// locateClaim searches the hinted page first (when valid), then every
// page in document order, running the strategy cascade on each until one
// page yields matches.
func (a *Annotator) locateClaim(pages []pdftext.Page, c SourceClaim) []Highlight {
	hinted := -1
	if c.Page >= 1 && c.Page <= len(pages) {
		hinted = c.Page - 1
	}

	if hinted >= 0 {
		if hs := a.claimOnPage(&pages[hinted], c); hs != nil {
			return hs
		}
	}
	for i := range pages {
		if i == hinted {
			continue
		}
		if hs := a.claimOnPage(&pages[i], c); hs != nil {
			return hs
		}
	}
	return nil
}

func (a *Annotator) claimOnPage(page *pdftext.Page, c SourceClaim) []Highlight {
	matches, _ := searchPage(page, c)
	if len(matches) == 0 {
		return nil
	}
	if len(matches) > a.maxPerClaim {
		matches = matches[:a.maxPerClaim]
	}

	color := a.colors.ColorFor(c.Field)
	tooltip := fmt.Sprintf("[%s] %s", c.Field, c.Identifier)

	hs := make([]Highlight, 0, len(matches))
	for _, m := range matches {
		hs = append(hs, Highlight{
			Page:    page.Number,
			Quads:   m.Quads,
			Color:   color,
			Field:   c.Field,
			Tooltip: tooltip,
		})
	}
	return hs
}

// FailedMatches returns the claims the most recent Annotate (or Locate)
// pass could not place.
func (a *Annotator) FailedMatches() []FailedMatch {
	return a.failed
}
