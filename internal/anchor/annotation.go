package anchor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/matsen/citeline/internal/pdftext"
)

// highlightOpacity keeps the underlying text readable.
const highlightOpacity = 0.35

var (
	_ model.AnnotationRenderer = highlightAnnot{}
	_ model.AnnotationRenderer = squareAnnot{}
	_ model.AnnotationRenderer = freeTextAnnot{}
)

// highlightAnnot renders one Highlight as a PDF text-markup annotation.
type highlightAnnot struct {
	h Highlight
}

func (a highlightAnnot) Type() model.AnnotationType {
	return model.AnnHighLight
}

func (a highlightAnnot) RectString() string {
	r := boundingRect(a.h.Quads)
	return fmt.Sprintf("[%.2f %.2f %.2f %.2f]", r.X0, r.Y0, r.X1, r.Y1)
}

func (a highlightAnnot) ID() string {
	return ""
}

func (a highlightAnnot) ContentString() string {
	return a.h.Tooltip
}

func (a highlightAnnot) CustomTypeString() string {
	return ""
}

func (a highlightAnnot) APObjNrInt() int {
	return -1
}

func (a highlightAnnot) RenderDict(xRefTable *model.XRefTable, pageIndRef *types.IndirectRef) (types.Dict, error) {
	r := boundingRect(a.h.Quads)

	quadPoints := types.Array{}
	for _, q := range a.h.Quads {
		// Quad point order per PDF spec: upper-left, upper-right,
		// lower-left, lower-right.
		quadPoints = append(quadPoints,
			types.Float(q.X0), types.Float(q.Y1),
			types.Float(q.X1), types.Float(q.Y1),
			types.Float(q.X0), types.Float(q.Y0),
			types.Float(q.X1), types.Float(q.Y0),
		)
	}

	d := types.Dict(map[string]types.Object{
		"Type":       types.Name("Annot"),
		"Subtype":    types.Name("Highlight"),
		"Rect":       types.NewNumberArray(r.X0, r.Y0, r.X1, r.Y1),
		"QuadPoints": quadPoints,
		"C":          types.NewNumberArray(a.h.Color.R, a.h.Color.G, a.h.Color.B),
		"CA":         types.Float(highlightOpacity),
		"Contents":   types.StringLiteral(pdfString(a.h.Tooltip)),
		"T":          types.StringLiteral(pdfString(a.h.Field)),
		"M":          types.StringLiteral(types.DateString(time.Now())),
		"F":          types.Integer(4), // print
	})
	if pageIndRef != nil {
		d["P"] = *pageIndRef
	}

	return d, nil
}

// squareAnnot renders a filled rectangle (legend boxes and swatches).
type squareAnnot struct {
	rect    rect
	fill    RGB
	border  *RGB
	opacity float64
}

func (a squareAnnot) Type() model.AnnotationType {
	return model.AnnSquare
}

func (a squareAnnot) RectString() string {
	return fmt.Sprintf("[%.2f %.2f %.2f %.2f]", a.rect.X0, a.rect.Y0, a.rect.X1, a.rect.Y1)
}

func (a squareAnnot) ID() string {
	return ""
}

func (a squareAnnot) ContentString() string {
	return ""
}

func (a squareAnnot) CustomTypeString() string {
	return ""
}

func (a squareAnnot) APObjNrInt() int {
	return -1
}

func (a squareAnnot) RenderDict(xRefTable *model.XRefTable, pageIndRef *types.IndirectRef) (types.Dict, error) {
	opacity := a.opacity
	if opacity == 0 {
		opacity = 1
	}

	d := types.Dict(map[string]types.Object{
		"Type":    types.Name("Annot"),
		"Subtype": types.Name("Square"),
		"Rect":    types.NewNumberArray(a.rect.X0, a.rect.Y0, a.rect.X1, a.rect.Y1),
		"IC":      types.NewNumberArray(a.fill.R, a.fill.G, a.fill.B),
		"CA":      types.Float(opacity),
		"M":       types.StringLiteral(types.DateString(time.Now())),
		"F":       types.Integer(4),
	})
	if pageIndRef != nil {
		d["P"] = *pageIndRef
	}

	if a.border != nil {
		d["C"] = types.NewNumberArray(a.border.R, a.border.G, a.border.B)
		d["BS"] = types.Dict(map[string]types.Object{
			"W": types.Float(0.5),
			"S": types.Name("S"),
		})
	} else {
		// No border: zero-width border style.
		d["BS"] = types.Dict(map[string]types.Object{
			"W": types.Float(0),
		})
	}

	return d, nil
}

// freeTextAnnot renders a text label directly on the page (legend labels).
type freeTextAnnot struct {
	rect     rect
	text     string
	fontSize float64
}

func (a freeTextAnnot) Type() model.AnnotationType {
	return model.AnnFreeText
}

func (a freeTextAnnot) RectString() string {
	return fmt.Sprintf("[%.2f %.2f %.2f %.2f]", a.rect.X0, a.rect.Y0, a.rect.X1, a.rect.Y1)
}

func (a freeTextAnnot) ID() string {
	return ""
}

func (a freeTextAnnot) ContentString() string {
	return a.text
}

func (a freeTextAnnot) CustomTypeString() string {
	return ""
}

func (a freeTextAnnot) APObjNrInt() int {
	return -1
}

func (a freeTextAnnot) RenderDict(xRefTable *model.XRefTable, pageIndRef *types.IndirectRef) (types.Dict, error) {
	d := types.Dict(map[string]types.Object{
		"Type":     types.Name("Annot"),
		"Subtype":  types.Name("FreeText"),
		"Rect":     types.NewNumberArray(a.rect.X0, a.rect.Y0, a.rect.X1, a.rect.Y1),
		"Contents": types.StringLiteral(pdfString(a.text)),
		"DA":       types.StringLiteral(fmt.Sprintf("/Helv %.1f Tf 0 g", a.fontSize)),
		"M":        types.StringLiteral(types.DateString(time.Now())),
		"F":        types.Integer(4),
	})
	if pageIndRef != nil {
		d["P"] = *pageIndRef
	}

	return d, nil
}

// rect is a plain rectangle in PDF user space.
type rect struct {
	X0, Y0, X1, Y1 float64
}

func boundingRect(quads []pdftext.Quad) rect {
	if len(quads) == 0 {
		return rect{}
	}
	r := rect{quads[0].X0, quads[0].Y0, quads[0].X1, quads[0].Y1}
	for _, q := range quads[1:] {
		if q.X0 < r.X0 {
			r.X0 = q.X0
		}
		if q.Y0 < r.Y0 {
			r.Y0 = q.Y0
		}
		if q.X1 > r.X1 {
			r.X1 = q.X1
		}
		if q.Y1 > r.Y1 {
			r.Y1 = q.Y1
		}
	}
	return r
}

// pdfString strips characters that would break a PDF string literal.
func pdfString(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '(', ')', '\\':
			return ' '
		}
		if r < 32 {
			return ' '
		}
		return r
	}, s)
}

// annotationsByPage groups highlight renderers by 1-based page number.
func annotationsByPage(highlights []Highlight) map[int][]model.AnnotationRenderer {
	perPage := make(map[int][]model.AnnotationRenderer)
	for _, h := range highlights {
		perPage[h.Page] = append(perPage[h.Page], highlightAnnot{h: h})
	}
	return perPage
}

// writeAnnotations writes a copy of inPath with the annotations applied.
// The input file is never modified.
func writeAnnotations(inPath, outPath string, perPage map[int][]model.AnnotationRenderer) error {
	if dir := filepath.Dir(outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	return api.AddAnnotationsMapFile(inPath, outPath, perPage, nil, false)
}
