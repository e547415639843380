package pdftext

import (
	"strings"
	"testing"
)

// linePage lays out each string as one line of words, top to bottom,
// 12pt font, words 10pt apart horizontally.
func linePage(lines ...[]string) Page {
	var words []Word
	y := 700.0
	for _, line := range lines {
		x := 72.0
		for _, s := range line {
			w := float64(len(s)) * 6
			words = append(words, Word{S: s, X: x, Y: y, W: w, H: 12})
			x += w + 10
		}
		y -= 20
	}
	return NewPage(1, 612, 792, words)
}

func TestTextAssembly(t *testing.T) {
	p := linePage(
		[]string{"Mean", "annual", "temperature"},
		[]string{"was", "12.5"},
	)

	got := p.Text(NormExact)
	want := "mean annual temperature\nwas 12.5"
	if got != want {
		t.Errorf("Text = %q, want %q", got, want)
	}
}

func TestSearchExact(t *testing.T) {
	p := linePage([]string{"Mean", "annual", "temperature", "was", "12.5"})

	matches := p.Search("annual temperature", NormExact)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if len(matches[0].Quads) != 1 {
		t.Fatalf("got %d quads, want 1 for a single-line match", len(matches[0].Quads))
	}

	q := matches[0].Quads[0]
	if q.X1 <= q.X0 || q.Y1 <= q.Y0 {
		t.Errorf("degenerate quad: %+v", q)
	}
}

func TestSearchCaseFolds(t *testing.T) {
	p := linePage([]string{"MEAN", "ANNUAL", "TEMPERATURE"})

	if got := p.Search("mean annual", NormExact); len(got) != 1 {
		t.Errorf("case-folded search found %d matches, want 1", len(got))
	}
}

func TestSearchWhitespaceCollapse(t *testing.T) {
	// Two lines: the needle has a single space where the page has a newline.
	p := linePage(
		[]string{"mean", "annual"},
		[]string{"temperature", "rose"},
	)

	if got := p.Search("annual temperature", NormExact); len(got) != 0 {
		t.Errorf("exact search across a line break found %d matches, want 0", len(got))
	}

	matches := p.Search("annual temperature", NormWhitespace)
	if len(matches) != 1 {
		t.Fatalf("whitespace search found %d matches, want 1", len(matches))
	}
	if len(matches[0].Quads) != 2 {
		t.Errorf("cross-line match produced %d quads, want 2", len(matches[0].Quads))
	}
}

func TestSearchUnicodeDegreeSign(t *testing.T) {
	// Page has the degree sign; the quote spells " deg" differently.
	p := linePage([]string{"68.5°N,", "27.0°E"})

	if !p.Contains("68.5 n", NormUnicode) {
		t.Error("degree sign should normalize to a space at NormUnicode")
	}
	if p.Contains("68.5 n", NormExact) {
		t.Error("degree sign should not match at NormExact")
	}
}

func TestSearchUnicodePunctuationVariants(t *testing.T) {
	p := linePage([]string{"range", "1–5,", "error", "±0.3,", "“quoted”"})

	tests := []string{
		"1-5",
		"+/-0.3",
		`"quoted"`,
	}
	for _, needle := range tests {
		if !p.Contains(needle, NormUnicode) {
			t.Errorf("Contains(%q, NormUnicode) = false, want true", needle)
		}
	}
}

func TestSearchAccentFolding(t *testing.T) {
	p := linePage([]string{"Holocène", "température"})

	if !p.Contains("holocene temperature", NormUnicode) {
		t.Error("NFKD should strip combining accents at NormUnicode")
	}
}

func TestSearchMultipleOccurrences(t *testing.T) {
	p := linePage(
		[]string{"depth", "10", "cm"},
		[]string{"depth", "20", "cm"},
		[]string{"depth", "30", "cm"},
	)

	matches := p.Search("depth", NormExact)
	if len(matches) != 3 {
		t.Errorf("got %d matches, want 3", len(matches))
	}
}

func TestSearchNoMatch(t *testing.T) {
	p := linePage([]string{"nothing", "relevant", "here"})

	if got := p.Search("chironomid", NormUnicode); got != nil {
		t.Errorf("expected no matches, got %d", len(got))
	}
	if p.Contains("", NormExact) {
		t.Error("empty needle should never match")
	}
}

func TestQuadGeometryTracksWords(t *testing.T) {
	words := []Word{
		{S: "lake", X: 100, Y: 500, W: 24, H: 12},
		{S: "sediment", X: 134, Y: 500, W: 48, H: 12},
	}
	p := NewPage(1, 612, 792, words)

	matches := p.Search("lake sediment", NormExact)
	if len(matches) != 1 || len(matches[0].Quads) != 1 {
		t.Fatalf("unexpected match shape: %+v", matches)
	}

	q := matches[0].Quads[0]
	if q.X0 != 100 || q.X1 != 182 {
		t.Errorf("quad spans [%v, %v], want [100, 182]", q.X0, q.X1)
	}
	if q.Y0 >= 500 || q.Y1 <= 500 {
		t.Errorf("quad [%v, %v] should straddle the baseline 500", q.Y0, q.Y1)
	}
}

func TestCollapseWhitespace(t *testing.T) {
	in := "a\n  b\t\tc  "
	if got := CollapseWhitespace(in); got != "a b c" {
		t.Errorf("CollapseWhitespace(%q) = %q", in, got)
	}
}

func TestTextLevelsEscalate(t *testing.T) {
	p := linePage([]string{"A", "±B"})

	exact := p.Text(NormExact)
	if !strings.Contains(exact, "±") {
		t.Errorf("NormExact text lost the original rune: %q", exact)
	}
	uni := p.Text(NormUnicode)
	if !strings.Contains(uni, "+/-") {
		t.Errorf("NormUnicode text should map the variant: %q", uni)
	}
}
