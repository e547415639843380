package anchor

import "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

// Legend layout, anchored to the page's top-right corner. Offsets are
// top-down and converted to PDF coordinates at render time.
const (
	legendWidth     = 220.0
	legendRightGap  = 10.0
	legendTopGap    = 10.0
	legendRowHeight = 15.0
	legendPadding   = 25.0
	legendFontSize  = 7.0
	legendTitleSize = 9.0
)

// legendEntry is one legend row. The legend always lists all seven
// categories, independent of which were actually used on the page.
type legendEntry struct {
	label    string
	category Category
}

var legendEntries = []legendEntry{
	{"Location (lat/lon, coordinates)", CategoryLocation},
	{"Environment (marine, terrestrial, etc.)", CategoryEnvironment},
	{"Measurements (depth, length, size)", CategoryMeasurement},
	{"Methods (analysis, techniques)", CategoryMethod},
	{"Instruments (machines, equipment)", CategoryInstrument},
	{"Statistical (counts, p-values)", CategoryStatistical},
	{"Other information", CategoryOther},
}

const legendTitle = "Extraction legend"

// legendAnnotations builds the legend block for a page of the given size:
// a bordered white box, a title, and a swatch plus label per category.
func legendAnnotations(pageWidth, pageHeight float64) []model.AnnotationRenderer {
	boxX := pageWidth - legendWidth - legendRightGap
	boxTop := legendTopGap // top-down offset of the box's upper edge
	boxH := float64(len(legendEntries))*legendRowHeight + legendPadding

	// Converts a top-down offset to a PDF y coordinate.
	y := func(topDown float64) float64 {
		return pageHeight - topDown
	}

	var anns []model.AnnotationRenderer

	white := RGB{1, 1, 1}
	black := RGB{0, 0, 0}
	anns = append(anns, squareAnnot{
		rect:   rect{boxX, y(boxTop + boxH), boxX + legendWidth, y(boxTop)},
		fill:   white,
		border: &black,
	})

	anns = append(anns, freeTextAnnot{
		rect:     rect{boxX + 5, y(boxTop + 16), boxX + legendWidth - 5, y(boxTop + 4)},
		text:     legendTitle,
		fontSize: legendTitleSize,
	})

	for i, entry := range legendEntries {
		rowBaseline := boxTop + 28 + float64(i)*legendRowHeight

		anns = append(anns, squareAnnot{
			rect: rect{boxX + 5, y(rowBaseline + 2), boxX + 15, y(rowBaseline - 6)},
			fill: CategoryColors[entry.category],
		})
		anns = append(anns, freeTextAnnot{
			rect:     rect{boxX + 20, y(rowBaseline + 3), boxX + legendWidth - 5, y(rowBaseline - 7)},
			text:     entry.label,
			fontSize: legendFontSize,
		})
	}

	return anns
}
