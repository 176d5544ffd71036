package buyhatke

import (
	"encoding/json"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"PricePulse/models"
)

// ParseDocument parses raw tracker-page HTML into a goquery document.
func ParseDocument(body string) (*goquery.Document, error) {
	node, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromNode(node), nil
}

// ExtractOffers runs the fallback chain over a tracker document: the bundled
// bootstrap array first, then rendered markup with hydration link backfill,
// then a full hydration-payload walk. The first strategy yielding at least
// one offer wins. It never fails; a document no strategy understands yields
// an empty list.
func (s *Scraper) ExtractOffers(doc *goquery.Document, trackerURL string) []models.AlternativeOffer {
	strategies := []func(*goquery.Document, string) []models.AlternativeOffer{
		s.offersFromBootstrap,
		s.offersFromMarkup,
		s.offersFromHydration,
	}
	for _, strategy := range strategies {
		if offers := strategy(doc, trackerURL); len(offers) > 0 {
			return offers
		}
	}
	return nil
}

// ── Strategy A: script-bundled bootstrap array ──────────────────────────────

const bootstrapMarker = `dealsList:[`

var (
	siteNamePattern  = regexp.MustCompile(`site_name:"([^"]*)"`)
	dealLinkPattern  = regexp.MustCompile(`\blink:"([^"]*)"`)
	positionPattern  = regexp.MustCompile(`\bposition:(\d+)`)
	dealPricePattern = regexp.MustCompile(`\bprice:(\d+(?:\.\d+)?)`)
	siteLogoPattern  = regexp.MustCompile(`site_logo:"([^"]*)"`)
	siteImagePattern = regexp.MustCompile(`site_image:"([^"]*)"`)
)

func (s *Scraper) offersFromBootstrap(doc *goquery.Document, _ string) []models.AlternativeOffer {
	var offers []models.AlternativeOffer
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		txt := sel.Text()
		idx := strings.Index(txt, bootstrapMarker)
		if idx < 0 {
			return true
		}
		body, ok := scanArrayBody(txt, idx+len(bootstrapMarker))
		if !ok {
			return false
		}
		for _, obj := range splitTopLevelObjects(body) {
			name := siteNamePattern.FindStringSubmatch(obj)
			link := dealLinkPattern.FindStringSubmatch(obj)
			pos := positionPattern.FindStringSubmatch(obj)
			if name == nil || link == nil || pos == nil {
				continue
			}
			seller := strings.TrimSpace(name[1])
			destination := strings.TrimSpace(link[1])
			position, _ := strconv.Atoi(pos[1])

			var price *float64
			if m := dealPricePattern.FindStringSubmatch(obj); m != nil {
				price = parseFloat(m[1])
			}

			logo := ""
			if m := siteLogoPattern.FindStringSubmatch(obj); m != nil {
				logo = strings.TrimSpace(m[1])
			} else if m := siteImagePattern.FindStringSubmatch(obj); m != nil {
				logo = strings.TrimSpace(m[1])
			}
			logo = s.resolveLogoURL(logo, seller)

			offers = append(offers, models.AlternativeOffer{
				Seller:       seller,
				Price:        price,
				PriceDisplay: FormatPrice(price),
				Link:         s.trackingLink(position, destination),
				LogoURL:      logo,
			})
		}
		// the first script carrying the array decides this strategy
		return false
	})
	offers = dedupeOffers(offers)
	sortOffers(offers)
	return offers
}

// ── Strategy B: rendered markup + hydration link map ────────────────────────

// containerLookups is the ordered set of heuristics for locating the offers
// list in rendered markup, loosest last. Upstream markup changes usually only
// need a new entry here.
var containerLookups = []func(*goquery.Document) *goquery.Selection{
	func(doc *goquery.Document) *goquery.Selection {
		return doc.Find("section.grid").First().Find("div.overflow-y-auto").First()
	},
	func(doc *goquery.Document) *goquery.Selection {
		return doc.Find("div.overflow-y-auto.scroll-hide").First()
	},
	func(doc *goquery.Document) *goquery.Selection {
		var found *goquery.Selection
		doc.Find("div.overflow-y-auto").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if sel.Find("button, li").Length() > 0 {
				found = sel
				return false
			}
			return true
		})
		return found
	},
	func(doc *goquery.Document) *goquery.Selection {
		return doc.Find("ul").First()
	},
}

func findOffersContainer(doc *goquery.Document) *goquery.Selection {
	for _, lookup := range containerLookups {
		if c := lookup(doc); c != nil && c.Length() > 0 {
			return c
		}
	}
	return nil
}

func (s *Scraper) offersFromMarkup(doc *goquery.Document, trackerURL string) []models.AlternativeOffer {
	container := findOffersContainer(doc)
	if container == nil {
		return nil
	}
	items := container.ChildrenFiltered("button")
	if items.Length() == 0 {
		items = container.Find("button")
	}
	if items.Length() == 0 {
		items = container.Find("li")
	}

	var offers []models.AlternativeOffer
	items.Each(func(_ int, item *goquery.Selection) {
		seller := sellerFromMarkup(item)
		price := priceFromMarkup(item)
		if seller == "N/A" && price == nil {
			return
		}
		offers = append(offers, models.AlternativeOffer{
			Seller:       seller,
			Price:        price,
			PriceDisplay: FormatPrice(price),
			Link:         linkFromMarkup(item, trackerURL),
			LogoURL:      s.resolveLogoURL(rawLogoFromMarkup(item), seller),
		})
	})
	if len(offers) == 0 {
		return nil
	}

	// markup rarely carries direct seller links; backfill from the hydration
	// payload, falling back to the tracker page itself
	linkMap := s.hydrationLinkMap(doc)
	for i := range offers {
		if offers[i].Link != "" {
			continue
		}
		offers[i].Link = lookupSellerLink(linkMap, offers[i].Seller)
		if offers[i].Link == "" {
			offers[i].Link = trackerURL
		}
	}

	offers = dedupeOffers(offers)
	sortOffers(offers)
	return offers
}

func sellerFromMarkup(item *goquery.Selection) string {
	if alt := strings.TrimSpace(item.Find("img").First().AttrOr("alt", "")); alt != "" {
		return alt
	}
	name := item.Find(`p[class*=capitalize]`).First()
	if text := strings.TrimSpace(name.Text()); text != "" {
		return text
	}
	return "N/A"
}

var (
	numberPattern = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)
	rupeePattern  = regexp.MustCompile(`₹\s*([\d,]+(?:\.\d+)?)`)
)

func priceFromMarkup(item *goquery.Selection) *float64 {
	if p := item.Find(`p[class*=font-bold]`).First(); p.Length() > 0 {
		if m := numberPattern.FindString(strings.TrimSpace(p.Text())); m != "" {
			if v := parseFloat(strings.ReplaceAll(m, ",", "")); v != nil {
				return v
			}
		}
	}
	if m := rupeePattern.FindStringSubmatch(item.Text()); m != nil {
		return parseFloat(strings.ReplaceAll(m[1], ",", ""))
	}
	return nil
}

var onclickURLPattern = regexp.MustCompile(`https?://[^'")\s]+`)

func linkFromMarkup(item *goquery.Selection, trackerURL string) string {
	if goquery.NodeName(item) == "a" {
		if href, ok := item.Attr("href"); ok {
			return resolveRef(trackerURL, href)
		}
	}
	if anchor := item.Find("a[href]").First(); anchor.Length() > 0 {
		return resolveRef(trackerURL, anchor.AttrOr("href", ""))
	}
	for _, attr := range []string{"data-url", "data-href", "data-link"} {
		if val, ok := item.Attr(attr); ok && val != "" {
			return resolveRef(trackerURL, val)
		}
	}
	if onclick, ok := item.Attr("onclick"); ok {
		if m := onclickURLPattern.FindString(onclick); m != "" {
			return m
		}
	}
	return ""
}

func rawLogoFromMarkup(item *goquery.Selection) string {
	img := item.Find("img").First()
	if img.Length() == 0 {
		return ""
	}
	if src := img.AttrOr("src", ""); src != "" {
		return src
	}
	if src := img.AttrOr("data-src", ""); src != "" {
		return src
	}
	if srcset := img.AttrOr("srcset", ""); srcset != "" {
		first := strings.TrimSpace(strings.Split(srcset, ",")[0])
		return strings.Split(first, " ")[0]
	}
	return ""
}

func resolveRef(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return b.ResolveReference(r).String()
}

func lookupSellerLink(linkMap map[string]string, seller string) string {
	key := strings.ToLower(strings.TrimSpace(seller))
	if link, ok := linkMap[key]; ok {
		return link
	}
	keys := make([]string, 0, len(linkMap))
	for k := range linkMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, mapKey := range keys {
		if strings.Contains(mapKey, key) || strings.Contains(key, mapKey) {
			return linkMap[mapKey]
		}
	}
	return ""
}

// ── hydration payload ───────────────────────────────────────────────────────

var (
	hydrationSellerKeys = []string{"site_name", "siteName", "seller", "store", "source"}
	hydrationURLKeys    = []string{"url", "buy_url", "buyUrl", "affiliate_url", "affiliateUrl", "offerUrl", "offer_url", "deep_link", "deeplink", "link"}
	hydrationPosKeys    = []string{"site_pos", "sitePos", "pos"}
)

func hydrationPayload(doc *goquery.Document) any {
	script := doc.Find(`script#__NEXT_DATA__`).First()
	if script.Length() == 0 {
		return nil
	}
	var payload any
	if err := json.Unmarshal([]byte(script.Text()), &payload); err != nil {
		return nil
	}
	return payload
}

// hydrationLinkMap walks the hydration payload collecting lowercase seller
// name → destination URL, wrapped in a tracking link when a seller position
// is known. First sighting of a seller wins.
func (s *Scraper) hydrationLinkMap(doc *goquery.Document) map[string]string {
	payload := hydrationPayload(doc)
	if payload == nil {
		return nil
	}
	out := make(map[string]string)
	walkJSON(payload, 0, func(node any, _ int) bool {
		m, ok := node.(map[string]any)
		if !ok {
			return true
		}
		seller := firstString(m, hydrationSellerKeys)
		rawURL := firstString(m, hydrationURLKeys)
		if seller == "" || rawURL == "" {
			return true
		}
		key := strings.ToLower(strings.TrimSpace(seller))
		u := strings.TrimSpace(rawURL)
		if strings.HasPrefix(u, "//") {
			u = "https:" + u
		}
		if !strings.HasPrefix(u, "http") {
			return true
		}
		if _, exists := out[key]; exists {
			return true
		}
		if pos := s.resolvePosition(m, key); pos != 0 {
			out[key] = s.trackingLink(pos, u)
		} else {
			out[key] = u
		}
		return true
	})
	return out
}

// resolvePosition reads the seller tracking position from the node itself,
// falling back to the static seller table.
func (s *Scraper) resolvePosition(m map[string]any, sellerKey string) int {
	for _, k := range hydrationPosKeys {
		if v := asFloat(m[k]); v != nil && *v != 0 {
			return int(*v)
		}
	}
	return sellerPositions[sellerKey]
}

// ── Strategy C: hydration-payload full extraction ───────────────────────────

// defaultMinOfferListLen is how many elements of a list must parse as offers
// before the list is trusted as an offer list. One lone match is usually an
// unrelated product blob, not a comparison table.
const defaultMinOfferListLen = 2

var (
	offerPriceKeys  = []string{"price", "cur_price", "selling_price", "sp", "mrp"}
	offerSellerKeys = []string{"site_name", "siteName", "seller", "store", "source", "name"}
	offerLinkKeys   = []string{"buy_url", "buyUrl", "link", "url", "deep_link", "deeplink", "affiliate_url", "affiliateUrl"}
	offerLogoKeys   = []string{"logo", "logo_url", "logoUrl", "site_logo", "siteLogo", "icon", "image"}
)

func (s *Scraper) offersFromHydration(doc *goquery.Document, _ string) []models.AlternativeOffer {
	payload := hydrationPayload(doc)
	if payload == nil {
		return nil
	}
	minLen := s.MinOfferListLen
	if minLen <= 0 {
		minLen = defaultMinOfferListLen
	}

	var offers []models.AlternativeOffer
	walkJSON(payload, 0, func(node any, _ int) bool {
		list, ok := node.([]any)
		if !ok {
			return true
		}
		parsed := make([]models.AlternativeOffer, 0, len(list))
		for _, item := range list {
			if offer, ok := s.parseOfferNode(item); ok {
				parsed = append(parsed, offer)
			}
		}
		if len(parsed) >= minLen {
			offers = append(offers, parsed...)
			// a qualifying list is taken whole; recursing would double-count
			// shapes nested inside it
			return false
		}
		return true
	})
	offers = dedupeOffers(offers)
	sortOffers(offers)
	return offers
}

// parseOfferNode accepts a node as an offer only when it carries both a
// recognizable price field and a recognizable seller field.
func (s *Scraper) parseOfferNode(item any) (models.AlternativeOffer, bool) {
	m, ok := item.(map[string]any)
	if !ok {
		return models.AlternativeOffer{}, false
	}
	lowered := make(map[string]any, len(m))
	for k, v := range m {
		lowered[strings.ToLower(k)] = v
	}

	var price *float64
	for _, k := range offerPriceKeys {
		if price = asFloat(lowered[k]); price != nil {
			break
		}
	}
	seller := firstString(m, offerSellerKeys)
	if price == nil || seller == "" {
		return models.AlternativeOffer{}, false
	}

	link := ""
	if raw := firstString(m, offerLinkKeys); raw != "" {
		if strings.HasPrefix(raw, "//") {
			raw = "https:" + raw
		}
		if strings.HasPrefix(raw, "http") {
			if pos := s.resolvePosition(m, strings.ToLower(seller)); pos != 0 {
				link = s.trackingLink(pos, raw)
			} else {
				link = raw
			}
		}
	}

	return models.AlternativeOffer{
		Seller:       seller,
		Price:        price,
		PriceDisplay: FormatPrice(price),
		Link:         link,
		LogoURL:      s.resolveLogoURL(firstString(m, offerLogoKeys), seller),
	}, true
}
