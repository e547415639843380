package pdftext

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormLevel selects how much formatting noise a search tolerates. Levels
// escalate: each applies everything the previous one does.
type NormLevel int

const (
	// NormExact folds case only.
	NormExact NormLevel = iota
	// NormWhitespace additionally collapses whitespace runs to single spaces.
	NormWhitespace
	// NormUnicode additionally NFKD-normalizes and maps punctuation
	// variants (degree sign, plus/minus, dashes, curly quotes) to plain
	// equivalents.
	NormUnicode
)

// punctReplacements maps unicode punctuation variants to the plain forms
// extraction layers and LLM quotes disagree on.
var punctReplacements = map[rune]string{
	'°':      " ",
	'±':      "+/-",
	'−': "-", // minus sign
	'–':      "-",
	'—':      "-",
	'“':      `"`,
	'”':      `"`,
	'‘':      "'",
	'’':      "'",
}

// Match is one located occurrence of a needle, as highlight geometry:
// one quad per text line the occurrence spans.
type Match struct {
	Quads []Quad
}

// lineTolerance is the baseline distance within which words are treated
// as the same line when assembling quads.
const lineTolerance = 2.0

// indexedText is a page's concatenated text with a per-rune map back to
// the word each rune came from (-1 for layout separators).
type indexedText struct {
	runes []rune
	src   []int
}

// buildIndexedText concatenates words in content order, inserting a space
// for horizontal gaps and a newline between lines so that raw text keeps
// the layout's word boundaries.
func buildIndexedText(words []Word) indexedText {
	var t indexedText

	for i, w := range words {
		if i > 0 {
			prev := words[i-1]
			sep := separator(prev, w)
			if sep != 0 {
				t.runes = append(t.runes, sep)
				t.src = append(t.src, -1)
			}
		}
		for _, r := range w.S {
			t.runes = append(t.runes, r)
			t.src = append(t.src, i)
		}
	}

	return t
}

// separator decides what, if anything, belongs between two adjacent words:
// a newline on baseline change, a space on a horizontal gap, nothing when
// the runs abut.
func separator(prev, next Word) rune {
	if math.Abs(prev.Y-next.Y) > lineTolerance {
		return '\n'
	}
	gap := next.X - (prev.X + prev.W)
	if gap > 0.3*maxf(prev.H, 1) {
		return ' '
	}
	return 0
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Search finds occurrences of needle in the page text at the given
// normalization level, in page order. Both the page text and the needle
// are passed through the same transform, so a match at any level yields
// geometry in the original layout.
func (p *Page) Search(needle string, level NormLevel) []Match {
	hay, haySrc := transform(p.text.runes, p.text.src, level)
	nrunes, _ := transform([]rune(needle), nil, level)
	if len(nrunes) == 0 || len(hay) == 0 {
		return nil
	}

	var matches []Match
	for from := 0; ; {
		i := runeIndex(hay, nrunes, from)
		if i < 0 {
			break
		}
		if m := p.matchAt(haySrc, i, len(nrunes)); len(m.Quads) > 0 {
			matches = append(matches, m)
		}
		from = i + len(nrunes)
	}
	return matches
}

// Contains reports whether the needle occurs at the given level. It is
// cheaper than Search when geometry is not needed.
func (p *Page) Contains(needle string, level NormLevel) bool {
	hay, _ := transform(p.text.runes, p.text.src, level)
	nrunes, _ := transform([]rune(needle), nil, level)
	if len(nrunes) == 0 {
		return false
	}
	return runeIndex(hay, nrunes, 0) >= 0
}

// Text returns the page text at the given normalization level.
func (p *Page) Text(level NormLevel) string {
	out, _ := transform(p.text.runes, p.text.src, level)
	return string(out)
}

// transform applies a normalization level to runes, carrying the source
// map through so matched ranges stay tied to page geometry. src may be
// nil (needle side).
func transform(runes []rune, src []int, level NormLevel) ([]rune, []int) {
	var out []rune
	var outSrc []int
	inSpace := false

	emit := func(r rune, s int) {
		if level >= NormWhitespace && unicode.IsSpace(r) {
			if inSpace {
				return
			}
			inSpace = true
			r = ' '
		} else {
			inSpace = false
		}
		out = append(out, unicode.ToLower(r))
		if src != nil {
			outSrc = append(outSrc, s)
		}
	}

	for i, r := range runes {
		s := -1
		if src != nil {
			s = src[i]
		}

		if level >= NormUnicode {
			if repl, ok := punctReplacements[r]; ok {
				for _, rr := range repl {
					emit(rr, s)
				}
				continue
			}
			decomposed := norm.NFKD.String(string(r))
			for _, rr := range decomposed {
				// Drop combining marks produced by decomposition.
				if unicode.Is(unicode.Mn, rr) {
					continue
				}
				if repl, ok := punctReplacements[rr]; ok {
					for _, r3 := range repl {
						emit(r3, s)
					}
					continue
				}
				emit(rr, s)
			}
			continue
		}

		emit(r, s)
	}

	return out, outSrc
}

// runeIndex is a naive substring search over runes starting at from.
// Pages are small enough that this never matters.
func runeIndex(hay, needle []rune, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i+len(needle) <= len(hay); i++ {
		ok := true
		for j := range needle {
			if hay[i+j] != needle[j] {
				ok = false
				break
			}
		}
		if ok {
			return i
		}
	}
	return -1
}

// matchAt converts a matched rune range back into per-line quads from the
// contributing words.
func (p *Page) matchAt(haySrc []int, start, length int) Match {
	seen := make(map[int]bool)
	var wordIdx []int
	for i := start; i < start+length && i < len(haySrc); i++ {
		w := haySrc[i]
		if w >= 0 && !seen[w] {
			seen[w] = true
			wordIdx = append(wordIdx, w)
		}
	}
	if len(wordIdx) == 0 {
		return Match{}
	}

	var quads []Quad
	cur := wordQuad(p.words[wordIdx[0]])
	curY := p.words[wordIdx[0]].Y
	for _, wi := range wordIdx[1:] {
		w := p.words[wi]
		if math.Abs(w.Y-curY) <= lineTolerance {
			cur = mergeQuad(cur, wordQuad(w))
			continue
		}
		quads = append(quads, cur)
		cur = wordQuad(w)
		curY = w.Y
	}
	quads = append(quads, cur)

	return Match{Quads: quads}
}

// wordQuad computes the highlight region of a single word. The baseline
// sits a descender's worth above the region bottom.
func wordQuad(w Word) Quad {
	h := w.H
	if h <= 0 {
		h = 10
	}
	return Quad{
		X0: w.X,
		Y0: w.Y - 0.2*h,
		X1: w.X + w.W,
		Y1: w.Y + h,
	}
}

func mergeQuad(a, b Quad) Quad {
	return Quad{
		X0: math.Min(a.X0, b.X0),
		Y0: math.Min(a.Y0, b.Y0),
		X1: math.Max(a.X1, b.X1),
		Y1: math.Max(a.Y1, b.Y1),
	}
}

// CollapseWhitespace normalizes whitespace runs in s to single spaces.
// Exported for callers that need the needle-side normalization alone.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
