package buyhatke

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"PricePulse/models"
)

// Known seller logos on the aggregator CDN, keyed by lowercase seller name.
var sellerLogos = map[string]string{
	"amazon":           "https://compare.buyhatke.com/images/site_icons_m/amazon.png",
	"flipkart":         "https://compare.buyhatke.com/images/site_icons_m/flipkart1.png",
	"shopsy":           "https://compare.buyhatke.com/images/site_icons_m/shopsy.png",
	"myntra":           "https://compare.buyhatke.com/images/site_icons_m/myntra1.png",
	"ajio":             "https://compare.buyhatke.com/images/site_icons_m/ajio.png",
	"ajio lux":         "https://compare.buyhatke.com/images/site_icons_m/ajioLuxe.png",
	"tatacliq":         "https://compare.buyhatke.com/images/site_icons_m/tatacliq.png",
	"nykaa":            "https://compare.buyhatke.com/images/site_icons_m/nykaa.png",
	"jiomart":          "https://compare.buyhatke.com/images/site_icons_m/jiomart.png",
	"croma":            "https://compare.buyhatke.com/images/site_icons_m/croma.png",
	"blinkit":          "https://compare.buyhatke.com/images/site_icons_m/blinkit.png",
	"bigbasket":        "https://compare.buyhatke.com/images/site_icons_m/bigBasket.png",
	"zepto":            "https://compare.buyhatke.com/images/site_icons_m/zepto.png",
	"reliance digital": "https://compare.buyhatke.com/images/site_icons_m/reliancedigital.png",
	"vijay sales":      "https://compare.buyhatke.com/images/site_icons_m/vsales.png",
	"boat":             "https://compare.buyhatke.com/images/site_icons_m/boatLifestyle.png",
	"boat-lifestyle":   "https://compare.buyhatke.com/images/site_icons_m/boatLifestyle.png",
	"snapdeal":         "https://compare.buyhatke.com/images/site_icons_m/snapdeal.png",
	"meesho":           "https://compare.buyhatke.com/images/site_icons_m/meesho.png",
}

// Known seller position ids used in the aggregator's tracking redirect URLs.
var sellerPositions = map[string]int{
	"amazon":           63,
	"flipkart":         2,
	"shopsy":           8702,
	"myntra":           111,
	"ajio":             76,
	"ajio lux":         76,
	"snapdeal":         18,
	"meesho":           8714,
	"nykaa":            8695,
	"tatacliq":         8703,
	"jiomart":          8708,
	"croma":            8704,
	"reliance digital": 8706,
	"vijay sales":      8707,
	"blinkit":          8710,
	"zepto":            8717,
	"bigbasket":        8711,
}

// sellerLogoKeys is the deterministic lookup order for substring matches.
var sellerLogoKeys = func() []string {
	keys := make([]string, 0, len(sellerLogos))
	for k := range sellerLogos {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()

// FormatPrice renders a price for display: a thousands-grouped integer with
// the rupee symbol when the value is whole, the same grouping with exactly two
// decimals otherwise, "N/A" when the price is unknown.
func FormatPrice(price *float64) string {
	if price == nil {
		return "N/A"
	}
	v := *price
	if v == math.Trunc(v) {
		return "₹" + groupDigits(strconv.FormatInt(int64(v), 10))
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	dot := strings.IndexByte(s, '.')
	return "₹" + groupDigits(s[:dot]) + s[dot:]
}

func groupDigits(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}

// fingerprint identifies an offer for within-pass deduplication only.
func fingerprint(o models.AlternativeOffer) string {
	if o.Price == nil {
		return o.Seller + "|"
	}
	return o.Seller + "|" + strconv.FormatFloat(*o.Price, 'f', -1, 64)
}

// dedupeOffers drops fingerprint duplicates, keeping the first occurrence so
// its link and logo metadata win.
func dedupeOffers(offers []models.AlternativeOffer) []models.AlternativeOffer {
	seen := make(map[string]bool, len(offers))
	out := make([]models.AlternativeOffer, 0, len(offers))
	for _, o := range offers {
		fp := fingerprint(o)
		if seen[fp] {
			continue
		}
		seen[fp] = true
		out = append(out, o)
	}
	return out
}

// sortOffers orders offers ascending by price. Offers with an unknown price
// sort after every priced offer and keep their insertion order.
func sortOffers(offers []models.AlternativeOffer) {
	sort.SliceStable(offers, func(i, j int) bool {
		pi, pj := offers[i].Price, offers[j].Price
		if pi == nil {
			return false
		}
		if pj == nil {
			return true
		}
		return *pi < *pj
	})
}

// resolveLogoURL returns an absolute logo URL: the scraped raw URL when it can
// be made absolute, else the CDN table keyed by seller name (exact match, then
// substring containment), else "".
func (s *Scraper) resolveLogoURL(raw, seller string) string {
	if raw != "" {
		u := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(u, "//"):
			u = "https:" + u
		case strings.HasPrefix(u, "/images/"):
			u = s.CompareHost + u
		case strings.HasPrefix(u, "/"):
			u = s.Host + u
		}
		if strings.HasPrefix(u, "http") {
			return u
		}
	}
	normalized := strings.ToLower(strings.TrimSpace(seller))
	if logo, ok := sellerLogos[normalized]; ok {
		return logo
	}
	for _, key := range sellerLogoKeys {
		if strings.Contains(normalized, key) {
			return sellerLogos[key]
		}
	}
	return ""
}

func parseFloat(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}

// asFloat converts any JSON scalar that looks numeric; nil otherwise.
func asFloat(value any) *float64 {
	switch v := value.(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case json.Number:
		return parseFloat(v.String())
	case string:
		return parseFloat(v)
	}
	return nil
}

// stringify renders a JSON scalar as trimmed text; "" for anything else.
func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	}
	return ""
}

// firstString returns the first non-empty scalar under keys, in key order.
func firstString(m map[string]any, keys []string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s := stringify(v); s != "" {
				return s
			}
		}
	}
	return ""
}
