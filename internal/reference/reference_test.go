package reference

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Kind
		wantDOI string
	}{
		{
			name:    "bare DOI",
			raw:     "10.1038/nature12373",
			want:    KindDOI,
			wantDOI: "10.1038/nature12373",
		},
		{
			name:    "DOI URL",
			raw:     "https://doi.org/10.5194/cp-12-1-2016",
			want:    KindDOI,
			wantDOI: "10.5194/cp-12-1-2016",
		},
		{
			name:    "DOI embedded in citation text",
			raw:     "Smith et al. 2019, doi:10.1029/2018JD029522",
			want:    KindDOI,
			wantDOI: "10.1029/2018JD029522",
		},
		{
			name: "direct PDF URL",
			raw:  "https://example.org/papers/smith2019.pdf",
			want: KindDirectPDF,
		},
		{
			name: "PDF URL containing a DOI classifies as DOI",
			raw:  "https://link.springer.com/content/pdf/10.1007/s00382-019-04865-3.pdf",
			want: KindDOI,
			// Trailing .pdf survives the pattern; the DOI still identifies the paper.
			wantDOI: "10.1007/s00382-019-04865-3.pdf",
		},
		{
			name: "free-text citation",
			raw:  "Smith, J. and Jones, K. (2019) Holocene temperature trends",
			want: KindCitation,
		},
		{
			name: "empty",
			raw:  "",
			want: KindEmpty,
		},
		{
			name: "whitespace only",
			raw:  "   \t ",
			want: KindEmpty,
		},
		{
			name:    "no access prefix stripped before classification",
			raw:     "(no access) 10.1016/j.quascirev.2020.106281",
			want:    KindDOI,
			wantDOI: "10.1016/j.quascirev.2020.106281",
		},
		{
			name: "no access prefix with nothing after it",
			raw:  "(no access)",
			want: KindEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := Classify(tt.raw)
			if ref.Kind != tt.want {
				t.Errorf("Classify(%q).Kind = %q, want %q", tt.raw, ref.Kind, tt.want)
			}
			if ref.DOI != tt.wantDOI {
				t.Errorf("Classify(%q).DOI = %q, want %q", tt.raw, ref.DOI, tt.wantDOI)
			}
		})
	}
}

func TestExtractDOI(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", "10.1038/nature12373", "10.1038/nature12373"},
		{"https doi.org", "https://doi.org/10.1038/nature12373", "10.1038/nature12373"},
		{"dx.doi.org", "http://dx.doi.org/10.1002/jqs.3344", "10.1002/jqs.3344"},
		{"trailing period stripped", "see 10.1038/nature12373.", "10.1038/nature12373"},
		{"trailing comma stripped", "10.1038/nature12373,", "10.1038/nature12373"},
		{"case insensitive scheme", "HTTPS://DOI.ORG/10.1038/NATURE12373", "10.1038/NATURE12373"},
		{"no DOI", "Smith et al. 2019", ""},
		{"short registrant rejected", "10.103/too-short", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDOI(tt.in); got != tt.want {
				t.Errorf("ExtractDOI(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
