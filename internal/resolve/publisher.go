package resolve

import (
	"fmt"
	"regexp"
	"strings"
)

// publisherPattern maps a DOI prefix to a URL builder. The table is the
// last resort of the PDF-URL cascade: some of these hosts require
// authentication, which the resolver flags on the resulting resolution.
type publisherPattern struct {
	prefix string
	build  func(doi string) string
}

// publisherPatterns is evaluated in order, first matching prefix wins.
var publisherPatterns = []publisherPattern{
	{"10.1029", func(doi string) string {
		return "https://agupubs.onlinelibrary.wiley.com/doi/pdfdirect/" + doi
	}},
	{"10.1002", func(doi string) string {
		return "https://onlinelibrary.wiley.com/doi/pdfdirect/" + doi
	}},
	{"10.1111", func(doi string) string {
		return "https://onlinelibrary.wiley.com/doi/pdfdirect/" + doi
	}},
	{"10.1038", func(doi string) string {
		parts := strings.Split(doi, "/")
		return fmt.Sprintf("https://www.nature.com/articles/%s.pdf", parts[len(parts)-1])
	}},
	{"10.1007", func(doi string) string {
		return fmt.Sprintf("https://link.springer.com/content/pdf/%s.pdf", doi)
	}},
	{"10.3390", func(doi string) string {
		return fmt.Sprintf("https://www.mdpi.com/%s/pdf", doi)
	}},
}

// copernicusPattern matches Copernicus journal DOIs, which encode journal,
// volume, page and year directly in the suffix.
var copernicusPattern = regexp.MustCompile(`10\.5194/(cp|cpd|sd|se|bg)-(\d+)-(\d+)-(\d+)`)

// PublisherPDFURL constructs a PDF URL from a DOI using known publisher
// patterns. Returns "" when no pattern applies.
func PublisherPDFURL(doi string) string {
	for _, p := range publisherPatterns {
		if strings.HasPrefix(doi, p.prefix) {
			return p.build(doi)
		}
	}

	if strings.Contains(doi, "10.5194/") {
		if m := copernicusPattern.FindStringSubmatch(doi); m != nil {
			journal, vol, page, year := m[1], m[2], m[3], m[4]
			return fmt.Sprintf("https://%s.copernicus.org/articles/%s/%s/%s/%s-%s-%s-%s.pdf",
				journal, vol, page, year, journal, vol, page, year)
		}
	}

	return ""
}
