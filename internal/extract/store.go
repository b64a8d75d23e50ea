package extract

import (
	"net/url"
	"regexp"
	"strings"
)

// merchantDomains maps known merchant host fragments to normalized names
var merchantDomains = []struct {
	fragment string
	name     string
}{
	{"amazon.", "amazon"},
	{"flipkart.", "flipkart"},
	{"myntra.", "myntra"},
	{"ajio.", "ajio"},
	{"croma.", "croma"},
	{"snapdeal.", "snapdeal"},
	{"tatacliq.", "tata cliq"},
	{"ebay.", "ebay"},
	{"walmart.", "walmart"},
	{"bestbuy.", "bestbuy"},
}

// storePhrase matches "on Amazon" / "at Flipkart" style mentions
var storePhrase = regexp.MustCompile(`\b(?:on|at)\s+([A-Z][A-Za-z0-9]+)`)

// Store infers a normalized merchant name for a deal. It checks the link's
// domain against the known-merchant table first, then looks for an
// "on/at <Name>" phrase in the descriptive text, and falls back to the given
// default (typically the source tag) when neither matches.
func Store(link, text, fallback string) string {
	if u, err := url.Parse(link); err == nil {
		host := strings.ToLower(u.Hostname())
		for _, m := range merchantDomains {
			if strings.Contains(host, m.fragment) {
				return m.name
			}
		}
	}

	if m := storePhrase.FindStringSubmatch(text); len(m) > 1 {
		return strings.ToLower(m[1])
	}

	return fallback
}
