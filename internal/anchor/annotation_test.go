package anchor

import (
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/matsen/citeline/internal/pdftext"
)

func TestBoundingRect(t *testing.T) {
	quads := []pdftext.Quad{
		{X0: 100, Y0: 500, X1: 200, Y1: 512},
		{X0: 72, Y0: 480, X1: 150, Y1: 492},
	}

	r := boundingRect(quads)
	if r.X0 != 72 || r.Y0 != 480 || r.X1 != 200 || r.Y1 != 512 {
		t.Errorf("boundingRect = %+v", r)
	}
}

func TestPDFStringSanitizes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"with (parens)", "with  parens "},
		{`back\slash`, "back slash"},
		{"tab\there", "tab here"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := pdfString(tt.in); got != tt.want {
			t.Errorf("pdfString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAnnotationsByPage(t *testing.T) {
	highlights := []Highlight{
		{Page: 1, Quads: []pdftext.Quad{{X0: 0, Y0: 0, X1: 10, Y1: 10}}},
		{Page: 3, Quads: []pdftext.Quad{{X0: 0, Y0: 0, X1: 10, Y1: 10}}},
		{Page: 1, Quads: []pdftext.Quad{{X0: 20, Y0: 0, X1: 30, Y1: 10}}},
	}

	perPage := annotationsByPage(highlights)
	if len(perPage[1]) != 2 {
		t.Errorf("page 1 has %d annotations, want 2", len(perPage[1]))
	}
	if len(perPage[3]) != 1 {
		t.Errorf("page 3 has %d annotations, want 1", len(perPage[3]))
	}
	if len(perPage) != 2 {
		t.Errorf("annotations spread over %d pages, want 2", len(perPage))
	}
}

func TestRenderDict(t *testing.T) {
	h := Highlight{
		Page:    1,
		Quads:   []pdftext.Quad{{X0: 100, Y0: 500, X1: 200, Y1: 512}},
		Color:   RGB{0, 0.4, 1},
		Field:   "latitude",
		Tooltip: "[latitude] smith2019",
	}
	pageRef := types.NewIndirectRef(3, 0)

	// Render through the interface pdfcpu calls.
	renderers := []model.AnnotationRenderer{
		highlightAnnot{h: h},
		squareAnnot{rect: rect{10, 10, 30, 30}, fill: RGB{1, 1, 1}},
		freeTextAnnot{rect: rect{10, 10, 30, 30}, text: "label", fontSize: 7},
	}
	for _, r := range renderers {
		if r.ID() != "" || r.CustomTypeString() != "" {
			t.Errorf("%T: ID/CustomTypeString should be empty", r)
		}
		if r.APObjNrInt() != -1 {
			t.Errorf("%T: APObjNrInt = %d, want -1 (no appearance stream)", r, r.APObjNrInt())
		}

		d, err := r.RenderDict(nil, pageRef)
		if err != nil {
			t.Fatalf("%T: RenderDict failed: %v", r, err)
		}
		if d["Type"] != types.Name("Annot") {
			t.Errorf("%T: Type entry = %v", r, d["Type"])
		}
		if _, ok := d["P"]; !ok {
			t.Errorf("%T: page reference not set", r)
		}

		// A nil page reference must not be dereferenced.
		d, err = r.RenderDict(nil, nil)
		if err != nil {
			t.Fatalf("%T: RenderDict(nil page) failed: %v", r, err)
		}
		if _, ok := d["P"]; ok {
			t.Errorf("%T: P entry set without a page reference", r)
		}
	}
}

func TestHighlightRenderDictGeometry(t *testing.T) {
	h := Highlight{
		Page: 1,
		Quads: []pdftext.Quad{
			{X0: 100, Y0: 500, X1: 200, Y1: 512},
			{X0: 72, Y0: 480, X1: 150, Y1: 492},
		},
		Color:   RGB{1, 0.5, 0},
		Tooltip: "[core_depth] smith2019",
	}

	d, err := highlightAnnot{h: h}.RenderDict(nil, types.NewIndirectRef(3, 0))
	if err != nil {
		t.Fatalf("RenderDict failed: %v", err)
	}

	if d["Subtype"] != types.Name("Highlight") {
		t.Errorf("Subtype = %v", d["Subtype"])
	}
	qp, ok := d["QuadPoints"].(types.Array)
	if !ok {
		t.Fatalf("QuadPoints is %T", d["QuadPoints"])
	}
	if len(qp) != 8*len(h.Quads) {
		t.Errorf("QuadPoints has %d numbers, want %d", len(qp), 8*len(h.Quads))
	}
}

func TestLegendAnnotations(t *testing.T) {
	anns := legendAnnotations(612, 792)

	// Border box, title, then a swatch and label per category.
	want := 2 + 2*len(legendEntries)
	if len(anns) != want {
		t.Fatalf("legend has %d annotations, want %d", len(anns), want)
	}

	// The border box hugs the top-right corner.
	box, ok := anns[0].(squareAnnot)
	if !ok {
		t.Fatalf("first legend annotation is %T, want squareAnnot", anns[0])
	}
	if box.rect.X1 != 612-legendRightGap {
		t.Errorf("box right edge = %v, want %v", box.rect.X1, 612-legendRightGap)
	}
	if box.rect.Y1 != 792-legendTopGap {
		t.Errorf("box top edge = %v, want %v", box.rect.Y1, 792-legendTopGap)
	}
	if got := box.rect.X1 - box.rect.X0; got != legendWidth {
		t.Errorf("box width = %v, want %v", got, legendWidth)
	}
}
