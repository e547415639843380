// Package reference defines the core domain types for bibliographic
// reference resolution: the classified input reference and the resolution
// outcome (canonical identity plus best-effort PDF location).
package reference

import (
	"regexp"
	"strings"
)

// Kind classifies a raw reference string.
type Kind string

const (
	// KindDOI means a DOI could be extracted from the reference.
	KindDOI Kind = "doi"
	// KindDirectPDF means the reference is a URL pointing straight at a PDF.
	KindDirectPDF Kind = "direct_pdf"
	// KindCitation means the reference is free-text and needs search.
	KindCitation Kind = "citation"
	// KindEmpty means the reference is blank after trimming.
	KindEmpty Kind = "empty"
)

// Source identifies how a resolution was produced.
type Source string

const (
	// SourceSemanticScholar marks resolutions backed by the Semantic Scholar API.
	SourceSemanticScholar Source = "semantic_scholar"
	// SourceDirectURL marks resolutions taken verbatim from a PDF URL.
	SourceDirectURL Source = "direct_url"
)

// Reference is a classified raw reference string.
type Reference struct {
	Raw  string `json:"raw"`  // Input after prefix stripping and trimming
	Kind Kind   `json:"kind"` // Classification result
	DOI  string `json:"doi,omitempty"`
}

// Resolution is the outcome of resolving a reference. A nil *Resolution is
// the valid "could not resolve" outcome and is cacheable as such.
type Resolution struct {
	DOI        string  `json:"doi,omitempty"`
	Title      string  `json:"title,omitempty"`
	Year       int     `json:"year,omitempty"`
	PDFURL     string  `json:"pdf_url,omitempty"`
	Source     Source  `json:"source"`
	Confidence float64 `json:"confidence,omitempty"` // [0,1], search path only
	Paywalled  bool    `json:"paywalled,omitempty"`  // PDFURL is a last-resort publisher link
}

// noAccessPrefix is prepended by upstream spreadsheets to references whose
// PDFs were previously found inaccessible. It carries no identity information.
const noAccessPrefix = "(no access)"

// doiPattern matches a DOI embedded in a URL or free text.
var doiPattern = regexp.MustCompile(`(?i)(10\.\d{4,9}/[-._;()/:A-Z0-9]+)`)

// Classify parses a raw reference string. It never fails: blank input
// yields KindEmpty, anything unrecognized falls through to KindCitation.
// Classification is evaluated in order, first match wins:
//  1. extractable DOI
//  2. URL ending in .pdf
//  3. free-text citation
func Classify(raw string) Reference {
	s := strings.TrimSpace(raw)
	s = strings.TrimSpace(strings.TrimPrefix(s, noAccessPrefix))

	if s == "" {
		return Reference{Raw: s, Kind: KindEmpty}
	}

	if doi := ExtractDOI(s); doi != "" {
		return Reference{Raw: s, Kind: KindDOI, DOI: doi}
	}

	if strings.HasPrefix(s, "http") && strings.HasSuffix(s, ".pdf") {
		return Reference{Raw: s, Kind: KindDirectPDF}
	}

	return Reference{Raw: s, Kind: KindCitation}
}

// ExtractDOI pulls a DOI out of a URL or text fragment.
// Returns "" when no DOI pattern is present.
func ExtractDOI(s string) string {
	m := doiPattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	// Trailing sentence punctuation is never part of a DOI in practice.
	return strings.TrimRight(m[1], ".,;:")
}
