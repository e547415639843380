// Package anchor locates previously-extracted field values back inside a
// PDF's text layer and emits color-coded highlight annotations, degrading
// through increasingly lenient matching strategies before giving up on a
// claim.
package anchor

import "github.com/matsen/citeline/internal/pdftext"

// SourceClaim pairs an extracted field value with the exact quote and page
// where the extractor reports having found it.
type SourceClaim struct {
	Field      string `json:"field"`
	Value      any    `json:"value"`
	SourceText string `json:"source_text"`
	Page       int    `json:"page,omitempty"` // 1-based hint, 0 = no hint
	Identifier string `json:"identifier,omitempty"`
}

// empty reports whether the claim carries nothing to anchor. Empty claims
// are skipped, not failures.
func (c SourceClaim) empty() bool {
	if c.SourceText == "" {
		return true
	}
	switch v := c.Value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	}
	return false
}

// FailedMatch records a claim no strategy could locate. Diagnostics only;
// it never affects control flow.
type FailedMatch struct {
	Field    string `json:"field"`
	Text     string `json:"text"`
	PageHint int    `json:"page_hint,omitempty"`
}

// Highlight is one placed annotation: the matched geometry on a page plus
// presentation.
type Highlight struct {
	Page    int // 1-based
	Quads   []pdftext.Quad
	Color   RGB
	Field   string
	Tooltip string
}
