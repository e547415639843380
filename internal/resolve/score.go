package resolve

import (
	"regexp"
	"strings"

	"github.com/matsen/citeline/internal/s2"
)

// Scoring weights for citation-search candidates. The maximum attainable
// score (author + exact year + open access) normalizes the confidence.
const (
	AuthorScore       = 60
	YearExactScore    = 40
	YearAdjacentScore = 15
	OpenAccessScore   = 50
	MaxScore          = AuthorScore + YearExactScore + OpenAccessScore

	// AuthorSimilarityThreshold gates candidates: below it, a candidate is
	// disqualified outright rather than scored lower.
	AuthorSimilarityThreshold = 0.8
)

// DefaultAcceptThreshold is the minimum score a best candidate must exceed
// to be accepted. Requiring only a partial signal is deliberate; the bar is
// configurable through Config.
const DefaultAcceptThreshold = 50

var (
	yearPattern        = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	leadingWordPattern = regexp.MustCompile(`^([A-Za-z]+)`)
)

// parseCitation extracts a best-effort publication year and first-author
// surname from free citation text. Absence of either is tolerated: a zero
// year or empty author simply skips the corresponding scoring signal.
func parseCitation(text string) (author string, year int) {
	if m := yearPattern.FindString(text); m != "" {
		// Pattern guarantees four digits.
		year = int(m[0]-'0')*1000 + int(m[1]-'0')*100 + int(m[2]-'0')*10 + int(m[3]-'0')
	}
	if m := leadingWordPattern.FindStringSubmatch(text); m != nil {
		author = m[1]
	}
	return author, year
}

// ScoreCandidate scores a search candidate against the parsed target author
// and year. The boolean reports whether the candidate survives the author
// gate: when a target author is known and no candidate surname is similar
// enough, the candidate is disqualified regardless of other signals.
func ScoreCandidate(cand s2.Paper, targetAuthor string, targetYear int) (score int, ok bool) {
	if targetAuthor != "" {
		matched := false
		for _, a := range cand.Authors {
			if Similarity(targetAuthor, a.Surname()) >= AuthorSimilarityThreshold {
				matched = true
				break
			}
		}
		if !matched {
			return 0, false
		}
		score += AuthorScore
	}

	if targetYear != 0 && cand.Year != 0 {
		switch diff := cand.Year - targetYear; {
		case diff == 0:
			score += YearExactScore
		case diff == 1 || diff == -1:
			score += YearAdjacentScore
		}
	}

	if cand.OpenAccessURL() != "" {
		score += OpenAccessScore
	}

	return score, true
}

// Similarity returns a normalized edit-distance ratio in [0,1] between two
// strings, case-insensitively. Identical strings score 1; strings with no
// characters in common score 0.
func Similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))

	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1
	}

	return 1 - float64(editDistance(ra, rb))/float64(maxLen)
}

// editDistance computes the Levenshtein distance between two rune slices.
func editDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
