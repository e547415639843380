package resolve

import "testing"

func TestPublisherPDFURL(t *testing.T) {
	tests := []struct {
		name string
		doi  string
		want string
	}{
		{
			name: "AGU via wiley",
			doi:  "10.1029/2018JD029522",
			want: "https://agupubs.onlinelibrary.wiley.com/doi/pdfdirect/10.1029/2018JD029522",
		},
		{
			name: "wiley",
			doi:  "10.1002/jqs.3344",
			want: "https://onlinelibrary.wiley.com/doi/pdfdirect/10.1002/jqs.3344",
		},
		{
			name: "wiley journals",
			doi:  "10.1111/bor.12598",
			want: "https://onlinelibrary.wiley.com/doi/pdfdirect/10.1111/bor.12598",
		},
		{
			name: "nature uses the DOI suffix",
			doi:  "10.1038/nature12373",
			want: "https://www.nature.com/articles/nature12373.pdf",
		},
		{
			name: "springer",
			doi:  "10.1007/s00382-019-04865-3",
			want: "https://link.springer.com/content/pdf/10.1007/s00382-019-04865-3.pdf",
		},
		{
			name: "mdpi",
			doi:  "10.3390/quat2040039",
			want: "https://www.mdpi.com/10.3390/quat2040039/pdf",
		},
		{
			name: "copernicus climate of the past",
			doi:  "10.5194/cp-12-1-2016",
			want: "https://cp.copernicus.org/articles/12/1/2016/cp-12-1-2016.pdf",
		},
		{
			name: "copernicus biogeosciences",
			doi:  "10.5194/bg-17-1701-2020",
			want: "https://bg.copernicus.org/articles/17/1701/2020/bg-17-1701-2020.pdf",
		},
		{
			name: "copernicus unknown journal code",
			doi:  "10.5194/gmd-13-1-2020",
			want: "",
		},
		{
			name: "unknown publisher",
			doi:  "10.1016/j.quascirev.2020.106281",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PublisherPDFURL(tt.doi); got != tt.want {
				t.Errorf("PublisherPDFURL(%q) = %q, want %q", tt.doi, got, tt.want)
			}
		})
	}
}

func TestIsPaywalled(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://onlinelibrary.wiley.com/doi/pdf/10.1002/jqs.3344", true},
		{"https://agupubs.onlinelibrary.wiley.com/doi/pdfdirect/10.1029/x", true},
		{"https://www.sciencedirect.com/science/article/pii/S0277379120X", true},
		{"https://link.springer.com/content/pdf/10.1007/x.pdf", true},
		{"https://academic.oup.com/article/123", true},
		{"https://cp.copernicus.org/articles/12/1/2016/cp-12-1-2016.pdf", false},
		{"https://www.nature.com/articles/nature12373.pdf", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsPaywalled(tt.url); got != tt.want {
			t.Errorf("IsPaywalled(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
