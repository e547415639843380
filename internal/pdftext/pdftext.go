// Package pdftext models a PDF's text layer for provenance anchoring:
// per-page positioned text runs plus substring search that survives the
// formatting noise of real extractions (layout whitespace, unicode
// punctuation variants) and reports the matched geometry.
package pdftext

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// Default page size when no MediaBox is recoverable (US Letter, points).
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// Word is a positioned run of text on a page, in PDF user space
// (origin bottom-left).
type Word struct {
	S string
	X float64 // left edge
	Y float64 // baseline
	W float64 // advance width
	H float64 // nominal height (font size)
}

// Quad is an axis-aligned highlight region in PDF user space.
type Quad struct {
	X0, Y0, X1, Y1 float64
}

// Page is one page's text layer.
type Page struct {
	Number int // 1-based
	Width  float64
	Height float64

	words []Word
	text  indexedText
}

// Document is a loaded PDF text layer.
type Document struct {
	Path  string
	Pages []Page
}

// Load reads the text layer of every page of a PDF. A PDF that cannot be
// opened is an error; individual pages that fail to extract contribute an
// empty text layer rather than failing the load.
func Load(path string) (*Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	doc := &Document{Path: path}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			doc.Pages = append(doc.Pages, NewPage(i, defaultPageWidth, defaultPageHeight, nil))
			continue
		}

		width, height := pageSize(p)
		doc.Pages = append(doc.Pages, NewPage(i, width, height, extractWords(p)))
	}

	return doc, nil
}

// extractWords collects a page's positioned text runs. Content streams
// the library cannot decode make it panic, so a recover turns any such
// page into an empty one.
func extractWords(p pdf.Page) (words []Word) {
	defer func() {
		if recover() != nil {
			words = nil
		}
	}()
	for _, t := range p.Content().Text {
		if t.S == "" {
			continue
		}
		words = append(words, Word{S: t.S, X: t.X, Y: t.Y, W: t.W, H: t.FontSize})
	}
	return words
}

// NewPage builds a page text layer from positioned words. Words must be in
// content-stream order, which is reading order for the PDFs this tool
// targets.
func NewPage(number int, width, height float64, words []Word) Page {
	return Page{
		Number: number,
		Width:  width,
		Height: height,
		words:  words,
		text:   buildIndexedText(words),
	}
}

// Words exposes the page's positioned text runs.
func (p *Page) Words() []Word {
	return p.words
}

// pageSize resolves a page's MediaBox, walking up the page tree for
// inherited boxes.
func pageSize(p pdf.Page) (width, height float64) {
	v := p.V
	for !v.IsNull() {
		mb := v.Key("MediaBox")
		if !mb.IsNull() && mb.Len() == 4 {
			llx := mb.Index(0).Float64()
			lly := mb.Index(1).Float64()
			urx := mb.Index(2).Float64()
			ury := mb.Index(3).Float64()
			return urx - llx, ury - lly
		}
		v = v.Key("Parent")
	}
	return defaultPageWidth, defaultPageHeight
}
