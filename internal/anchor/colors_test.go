package anchor

import "testing"

func TestCategoryForField(t *testing.T) {
	tests := []struct {
		field string
		want  Category
	}{
		{"latitude", CategoryLocation},
		{"longitude", CategoryLocation},
		{"site_coordinates", CategoryLocation},
		{"marine_or_terrestrial", CategoryEnvironment},
		{"sediment_type", CategoryEnvironment},
		{"core_depth", CategoryMeasurement},
		{"mean_temperature", CategoryMeasurement},
		{"dating_method", CategoryMethod},
		{"instrument_model", CategoryInstrument},
		{"sample_count", CategoryStatistical},
		{"p_value", CategoryStatistical},
		{"author_note", CategoryOther},
		{"", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if got := CategoryForField(tt.field); got != tt.want {
				t.Errorf("CategoryForField(%q) = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestCategoryRuleOrderFirstMatchWins(t *testing.T) {
	// "location" and "depth" both appear; the location rule sits first.
	if got := CategoryForField("location_depth"); got != CategoryLocation {
		t.Errorf("CategoryForField = %q, want %q", got, CategoryLocation)
	}
	// "sediment" (environment) precedes "depth" (measurement).
	if got := CategoryForField("sediment_depth"); got != CategoryEnvironment {
		t.Errorf("CategoryForField = %q, want %q", got, CategoryEnvironment)
	}
}

func TestColorMapOverrides(t *testing.T) {
	custom := RGB{0.1, 0.2, 0.3}
	m := NewColorMap(map[string]RGB{"latitude": custom})

	if got := m.ColorFor("latitude"); got != custom {
		t.Errorf("override ignored: got %+v", got)
	}
	// Unoverridden fields still classify by rule.
	if got := m.ColorFor("longitude"); got != CategoryColors[CategoryLocation] {
		t.Errorf("ColorFor(longitude) = %+v", got)
	}
}

func TestEveryCategoryHasAColor(t *testing.T) {
	categories := []Category{
		CategoryLocation, CategoryEnvironment, CategoryMeasurement,
		CategoryMethod, CategoryInstrument, CategoryStatistical, CategoryOther,
	}
	for _, c := range categories {
		if _, ok := CategoryColors[c]; !ok {
			t.Errorf("category %q has no color", c)
		}
	}
}
