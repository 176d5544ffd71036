package buyhatke

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"

	"PricePulse/models"
	"PricePulse/utils"
)

// Source tags every result and history record with the aggregator it came from.
const Source = "buyhatke"

// Scraper resolves a marketplace product against the aggregator API and
// extracts competing seller offers from the product's tracker page. The host
// fields default to the live aggregator and exist so tests can point the
// scraper at a local server.
type Scraper struct {
	APIBase      string // productData endpoint
	Host         string // tracker pages and root-relative logos
	CompareHost  string // logo CDN
	TrackingHost string // redirect endpoint

	// MinOfferListLen is the Strategy C qualification threshold; zero means
	// the default of 2.
	MinOfferListLen int

	fetcher *fetcher
	log     *log.Logger
}

// NewScraper builds a Scraper with live aggregator hosts.
func NewScraper(cfg Config, logger *log.Logger) *Scraper {
	if logger == nil {
		logger = log.Default()
	}
	return &Scraper{
		APIBase:      "https://buyhatke.com/api/productData",
		Host:         "https://buyhatke.com",
		CompareHost:  "https://compare.buyhatke.com",
		TrackingHost: "https://tracking.buyhatke.com",
		fetcher:      newFetcher(cfg),
		log:          logger,
	}
}

// Scrape looks the product up on the aggregator and assembles the comparison
// result. marketplace may be empty, in which case it is detected from the URL.
// Failure of the alternatives extraction is not a failure of the scrape; the
// canonical product data is still returned.
func (s *Scraper) Scrape(rawURL, marketplace string) (*models.ScrapeResult, error) {
	if marketplace == "" {
		marketplace = DetectMarketplace(rawURL)
	}
	pos, ok := marketplacePositions[marketplace]
	if !ok {
		return nil, ErrUnsupportedMarketplace
	}

	productID := ExtractProductID(rawURL, marketplace)
	if productID == "" {
		return nil, &ScraperError{Msg: "could not extract product identifier from URL"}
	}

	payload, err := s.getJSON(fmt.Sprintf("%s?pos=%d&pid=%s", s.APIBase, pos, url.QueryEscape(productID)))
	if err != nil {
		return nil, err
	}
	data, ok := payload["data"].(map[string]any)
	if !ok {
		return nil, &ScraperError{Msg: "unexpected upstream response structure"}
	}

	title := stringify(data["name"])
	if title == "" {
		title = "Unknown Product"
	}
	price := asFloat(data["cur_price"])

	imageURL := ""
	var thumbnails []string
	if raw, ok := data["thumbnailImages"].([]any); ok && len(raw) > 0 {
		for _, t := range raw {
			if thumb := stringify(t); thumb != "" {
				thumbnails = append(thumbnails, thumb)
			}
		}
		if len(thumbnails) > 0 {
			imageURL = thumbnails[0]
		}
	} else if img, ok := data["image"].(string); ok && img != "" {
		imageURL = img
		thumbnails = []string{img}
	}

	trackerURL := s.buildTrackerURL(marketplace, title, data["site_pos"], data["internalPid"])

	var alternatives []models.AlternativeOffer
	if trackerURL != "" {
		alternatives, err = s.scrapeAlternatives(trackerURL)
		if err != nil {
			s.log.Printf("alternative scraping failed: tracker_url=%s err=%v", trackerURL, err)
			alternatives = nil
		}
	}

	return &models.ScrapeResult{
		Title:           title,
		Price:           price,
		ImageURL:        imageURL,
		ThumbnailImages: thumbnails,
		Source:          Source,
		Marketplace:     marketplace,
		TrackerURL:      trackerURL,
		Alternatives:    alternatives,
	}, nil
}

// buildTrackerURL composes the aggregator's per-product tracker page URL.
// Both the site position and the internal product id must be present;
// otherwise there is no tracker page and alternatives are skipped.
func (s *Scraper) buildTrackerURL(marketplace, title string, sitePos, internalPid any) string {
	pos := stringify(sitePos)
	pid := stringify(internalPid)
	if pos == "" || pid == "" {
		return ""
	}
	slug := utils.Slugify(title)
	if slug == "" {
		slug = "product-" + pid
	}
	return fmt.Sprintf("%s/%s-%s-price-in-india-%s-%s", s.Host, marketplace, slug, pos, pid)
}

func (s *Scraper) scrapeAlternatives(trackerURL string) ([]models.AlternativeOffer, error) {
	body, err := s.fetcher.Get(trackerURL)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(string(body))
	if err != nil {
		return nil, &ScraperError{Msg: "parsing tracker page", Err: err}
	}
	return s.ExtractOffers(doc, trackerURL), nil
}

// trackingLink wraps a destination seller URL in the aggregator's redirect.
func (s *Scraper) trackingLink(pos int, destination string) string {
	return fmt.Sprintf("%s/Navigation/?pos=%d&source=price-tracker&ext1=product_deal_card&ext2=&link=%s",
		s.TrackingHost, pos, url.QueryEscape(destination))
}

func (s *Scraper) getJSON(apiURL string) (map[string]any, error) {
	body, err := s.fetcher.Get(apiURL)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &ScraperError{Msg: "upstream returned invalid JSON", Err: err}
	}
	return payload, nil
}
