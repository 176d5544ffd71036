package buyhatke

import (
	"net/url"
	"regexp"
)

// marketplacePositions maps each supported marketplace to its numeric position
// on the aggregator API. The table is closed; anything else is unsupported.
var marketplacePositions = map[string]int{
	"amazon":   63,
	"flipkart": 2,
}

var marketplacePatterns = map[string]*regexp.Regexp{
	"amazon":   regexp.MustCompile(`(?i)(?:^|\.)amazon\.(?:in|com)$`),
	"flipkart": regexp.MustCompile(`(?i)(?:^|\.)flipkart\.com$`),
}

// DetectMarketplace maps a product URL to a supported marketplace tag, or ""
// when the hostname matches no known marketplace.
func DetectMarketplace(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	for tag, pattern := range marketplacePatterns {
		if pattern.MatchString(host) {
			return tag
		}
	}
	return ""
}

// IsSupportedMarketplace reports whether tag has an aggregator API position.
func IsSupportedMarketplace(tag string) bool {
	_, ok := marketplacePositions[tag]
	return ok
}

var (
	amazonIDPattern = regexp.MustCompile(`/(?:dp|gp/product)/([A-Z0-9]{10})`)
	flipkartPidScan = regexp.MustCompile(`pid=([A-Za-z0-9]+)`)
)

// ExtractProductID derives the marketplace-specific product identifier from a
// product URL. Amazon uses the 10-character token after /dp/ or /gp/product/;
// Flipkart uses the pid query parameter, with a raw-text scan as fallback for
// malformed query strings. An empty result means no identifier was found.
func ExtractProductID(rawURL, marketplace string) string {
	switch marketplace {
	case "amazon":
		if m := amazonIDPattern.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
	case "flipkart":
		if u, err := url.Parse(rawURL); err == nil {
			if pid := u.Query().Get("pid"); pid != "" {
				return pid
			}
		}
		if m := flipkartPidScan.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
	}
	return ""
}
