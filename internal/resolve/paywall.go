package resolve

import "strings"

// PaywalledDomains lists publisher hosts known to require authentication
// for PDF access. URLs on these hosts are deprioritized: they are only
// assigned when no open-access alternative exists, and flagged when they
// are.
var PaywalledDomains = []string{
	"onlinelibrary.wiley.com",
	"agupubs.onlinelibrary.wiley.com",
	"sciencedirect.com",
	"tandfonline.com",
	"springerlink.com",
	"link.springer.com",
	"journals.sagepub.com",
	"academic.oup.com",
}

// IsPaywalled reports whether a URL points at a known paywalled domain.
func IsPaywalled(url string) bool {
	if url == "" {
		return false
	}
	for _, domain := range PaywalledDomains {
		if strings.Contains(url, domain) {
			return true
		}
	}
	return false
}
