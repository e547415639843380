package anchor

import (
	"regexp"
	"strings"

	"github.com/matsen/citeline/internal/pdftext"
)

// snippetLen is the prefix/suffix length the truncation strategies fall
// back to when the full quote cannot be located.
const snippetLen = 30

// numericFieldKeywords gates the numeric-token strategy: only fields that
// plausibly hold coordinates or measurements get it.
var numericFieldKeywords = []string{"lat", "lon", "coord", "depth", "length", "temperature"}

// numberPattern matches signed decimal tokens.
var numberPattern = regexp.MustCompile(`-?\d+\.?\d*`)

// matchStrategy is one step of the escalating search cascade. Strategies
// are tried in table order on each candidate page until one yields a
// match; needles within a strategy are tried in order, first hit wins.
type matchStrategy struct {
	name    string
	applies func(c SourceClaim) bool
	needles func(c SourceClaim) []string
	level   pdftext.NormLevel
}

func always(SourceClaim) bool { return true }

func fullText(c SourceClaim) []string { return []string{c.SourceText} }

// matchStrategies is the fixed escalation order: exact, whitespace-
// normalized, unicode-normalized, numeric tokens, head snippet, tail
// snippet.
var matchStrategies = []matchStrategy{
	{
		name:    "exact",
		applies: always,
		needles: fullText,
		level:   pdftext.NormExact,
	},
	{
		name:    "whitespace",
		applies: always,
		needles: fullText,
		level:   pdftext.NormWhitespace,
	},
	{
		name:    "unicode",
		applies: always,
		needles: fullText,
		level:   pdftext.NormUnicode,
	},
	{
		name:    "numeric_tokens",
		applies: isNumericField,
		needles: func(c SourceClaim) []string {
			return numberPattern.FindAllString(c.SourceText, -1)
		},
		level: pdftext.NormWhitespace,
	},
	{
		name:    "head_snippet",
		applies: longerThanSnippet,
		needles: func(c SourceClaim) []string {
			return []string{string([]rune(c.SourceText)[:snippetLen])}
		},
		level: pdftext.NormUnicode,
	},
	{
		name:    "tail_snippet",
		applies: longerThanSnippet,
		needles: func(c SourceClaim) []string {
			r := []rune(c.SourceText)
			return []string{string(r[len(r)-snippetLen:])}
		},
		level: pdftext.NormUnicode,
	},
}

func isNumericField(c SourceClaim) bool {
	lower := strings.ToLower(c.Field)
	for _, kw := range numericFieldKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func longerThanSnippet(c SourceClaim) bool {
	return len([]rune(c.SourceText)) > snippetLen
}

// searchPage runs the strategy cascade against one page, returning the
// matches of the first strategy that succeeds and the strategy's name.
func searchPage(page *pdftext.Page, c SourceClaim) ([]pdftext.Match, string) {
	for _, s := range matchStrategies {
		if !s.applies(c) {
			continue
		}
		for _, needle := range s.needles(c) {
			if needle == "" {
				continue
			}
			if matches := page.Search(needle, s.level); len(matches) > 0 {
				return matches, s.name
			}
		}
	}
	return nil, ""
}
