package anchor

import "strings"

// RGB is a color with components in [0,1].
type RGB struct {
	R, G, B float64
}

// Category classifies a field name for coloring.
type Category string

// The seven fixed highlight categories.
const (
	CategoryLocation    Category = "location"
	CategoryEnvironment Category = "environment"
	CategoryMeasurement Category = "measurement"
	CategoryMethod      Category = "method"
	CategoryInstrument  Category = "instrument"
	CategoryStatistical Category = "statistical"
	CategoryOther       Category = "other"
)

// CategoryColors assigns each category its fixed color.
var CategoryColors = map[Category]RGB{
	CategoryLocation:    {0.0, 0.4, 1.0}, // blue
	CategoryEnvironment: {0.0, 0.7, 0.3}, // green
	CategoryMeasurement: {1.0, 0.5, 0.0}, // orange
	CategoryMethod:      {0.6, 0.0, 0.8}, // purple
	CategoryInstrument:  {1.0, 0.0, 0.0}, // red
	CategoryStatistical: {0.8, 0.7, 0.0}, // yellow
	CategoryOther:       {0.5, 0.5, 0.5}, // gray
}

// colorRule is one (keyword set, category) pair. A field name may match
// several keyword sets, so rules are evaluated top-to-bottom and the first
// match wins.
type colorRule struct {
	category Category
	keywords []string
}

var colorRules = []colorRule{
	{CategoryLocation, []string{"lat", "lon", "coord", "location", "address"}},
	{CategoryEnvironment, []string{"marine", "terrestrial", "environment", "climate", "sediment", "rock"}},
	{CategoryMeasurement, []string{"depth", "length", "size", "temperature", "weight", "volume"}},
	{CategoryMethod, []string{"method", "technique", "procedure", "analysis", "application"}},
	{CategoryInstrument, []string{"machine", "instrument", "equipment", "device", "tool"}},
	{CategoryStatistical, []string{"count", "amount", "number", "sample", "data", "p_value", "statistical"}},
}

// CategoryForField classifies a field name by keyword membership.
func CategoryForField(field string) Category {
	lower := strings.ToLower(field)
	for _, rule := range colorRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return CategoryOther
}

// ColorMap resolves field colors: an explicit per-field override takes
// precedence, otherwise the field is classified by the rule table.
type ColorMap struct {
	overrides map[string]RGB
}

// NewColorMap builds a ColorMap with optional per-field overrides.
func NewColorMap(overrides map[string]RGB) ColorMap {
	return ColorMap{overrides: overrides}
}

// ColorFor returns the highlight color for a field.
func (m ColorMap) ColorFor(field string) RGB {
	if c, ok := m.overrides[field]; ok {
		return c
	}
	return CategoryColors[CategoryForField(field)]
}
