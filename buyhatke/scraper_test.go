package buyhatke

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newScrapeServer serves the aggregator API at /api/productData and the named
// tracker page; everything else 404s.
func newScrapeServer(t *testing.T, productJSON, trackerPath, trackerHTML string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/productData", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(productJSON))
	})
	if trackerPath != "" {
		mux.HandleFunc(trackerPath, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(trackerHTML))
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func scraperFor(srv *httptest.Server) *Scraper {
	s := newTestScraper()
	s.APIBase = srv.URL + "/api/productData"
	s.Host = srv.URL
	return s
}

const sampleProductJSON = `{"data":{
	"name":"Sample Product!!",
	"cur_price":4999,
	"site_pos":1,
	"internalPid":2,
	"thumbnailImages":["https://img.example/1.png","https://img.example/2.png"]
}}`

func TestScrape(t *testing.T) {
	srv := newScrapeServer(t, sampleProductJSON,
		"/amazon-sample-product-price-in-india-1-2", bootstrapPage)
	s := scraperFor(srv)

	result, err := s.Scrape("https://www.amazon.in/dp/B0ABCDEFGH", "")
	if err != nil {
		t.Fatal(err)
	}
	if result.Title != "Sample Product!!" {
		t.Errorf("title = %q", result.Title)
	}
	if result.Price == nil || *result.Price != 4999 {
		t.Errorf("price = %v", result.Price)
	}
	if result.Marketplace != "amazon" || result.Source != Source {
		t.Errorf("marketplace = %q source = %q", result.Marketplace, result.Source)
	}
	if result.ImageURL != "https://img.example/1.png" || len(result.ThumbnailImages) != 2 {
		t.Errorf("images = %q %v", result.ImageURL, result.ThumbnailImages)
	}
	wantTracker := srv.URL + "/amazon-sample-product-price-in-india-1-2"
	if result.TrackerURL != wantTracker {
		t.Errorf("tracker URL = %q, want %q", result.TrackerURL, wantTracker)
	}
	if len(result.Alternatives) != 2 || result.Alternatives[0].Seller != "Flipkart" {
		t.Errorf("alternatives = %+v", result.Alternatives)
	}
}

func TestScrapeTrackerFailureIsNotFatal(t *testing.T) {
	// tracker path not registered, so the alternatives fetch 404s
	srv := newScrapeServer(t, sampleProductJSON, "", "")
	s := scraperFor(srv)

	result, err := s.Scrape("https://www.amazon.in/dp/B0ABCDEFGH", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Alternatives) != 0 {
		t.Errorf("alternatives = %+v", result.Alternatives)
	}
	if result.Title != "Sample Product!!" {
		t.Errorf("title = %q", result.Title)
	}
}

func TestScrapeWithoutTrackerIdentifiers(t *testing.T) {
	srv := newScrapeServer(t, `{"data":{"name":"Bare Product","cur_price":100}}`, "", "")
	s := scraperFor(srv)

	result, err := s.Scrape("https://www.amazon.in/dp/B0ABCDEFGH", "")
	if err != nil {
		t.Fatal(err)
	}
	if result.TrackerURL != "" {
		t.Errorf("tracker URL should be empty without site_pos/internalPid, got %q", result.TrackerURL)
	}
	if len(result.Alternatives) != 0 {
		t.Errorf("alternatives = %+v", result.Alternatives)
	}
}

func TestScrapeUnsupportedMarketplace(t *testing.T) {
	s := newTestScraper()
	if _, err := s.Scrape("https://www.ebay.com/itm/123", ""); !errors.Is(err, ErrUnsupportedMarketplace) {
		t.Fatalf("err = %v", err)
	}
	// explicit override of a supported URL with an unsupported tag
	if _, err := s.Scrape("https://www.amazon.in/dp/B0ABCDEFGH", "ebay"); !errors.Is(err, ErrUnsupportedMarketplace) {
		t.Fatalf("err = %v", err)
	}
}

func TestScrapeMissingProductID(t *testing.T) {
	s := newTestScraper()
	_, err := s.Scrape("https://www.amazon.in/s?k=phone", "")
	var serr *ScraperError
	if !errors.As(err, &serr) || !strings.Contains(serr.Msg, "product identifier") {
		t.Fatalf("err = %v", err)
	}
}

func TestScrapeUpstreamStatuses(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, ErrUpstreamNotFound},
		{http.StatusServiceUnavailable, ErrBotDetected},
	}
	for _, tc := range cases {
		status := tc.status
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		s := scraperFor(srv)
		if _, err := s.Scrape("https://www.amazon.in/dp/B0ABCDEFGH", ""); !errors.Is(err, tc.want) {
			t.Errorf("status %d: err = %v, want %v", tc.status, err, tc.want)
		}
		srv.Close()
	}
}

func TestScrapeUpstreamServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	s := scraperFor(srv)

	_, err := s.Scrape("https://www.amazon.in/dp/B0ABCDEFGH", "")
	var serr *ScraperError
	if !errors.As(err, &serr) || serr.Status != http.StatusInternalServerError {
		t.Fatalf("err = %v", err)
	}
}

func TestScrapeInvalidUpstreamJSON(t *testing.T) {
	srv := newScrapeServer(t, `{"data": <broken>`, "", "")
	s := scraperFor(srv)

	_, err := s.Scrape("https://www.amazon.in/dp/B0ABCDEFGH", "")
	var serr *ScraperError
	if !errors.As(err, &serr) || !strings.Contains(serr.Msg, "invalid JSON") {
		t.Fatalf("err = %v", err)
	}
}

func TestScrapeUnexpectedStructure(t *testing.T) {
	srv := newScrapeServer(t, `{"status":"ok"}`, "", "")
	s := scraperFor(srv)

	_, err := s.Scrape("https://www.amazon.in/dp/B0ABCDEFGH", "")
	var serr *ScraperError
	if !errors.As(err, &serr) || !strings.Contains(serr.Msg, "response structure") {
		t.Fatalf("err = %v", err)
	}
}

func TestScrapeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()
	s := NewScraper(Config{Timeout: 50 * time.Millisecond}, testLogger())
	s.APIBase = srv.URL + "/api/productData"
	s.Host = srv.URL

	if _, err := s.Scrape("https://www.amazon.in/dp/B0ABCDEFGH", ""); !errors.Is(err, ErrUpstreamTimeout) {
		t.Fatalf("err = %v", err)
	}
}

func TestBuildTrackerURL(t *testing.T) {
	s := newTestScraper()
	s.Host = "https://buyhatke.com"

	got := s.buildTrackerURL("amazon", "Sample Product!!", 1.0, 2.0)
	want := "https://buyhatke.com/amazon-sample-product-price-in-india-1-2"
	if got != want {
		t.Errorf("buildTrackerURL = %q, want %q", got, want)
	}

	if got := s.buildTrackerURL("amazon", "!!!", 1.0, 2.0); got != "https://buyhatke.com/amazon-product-2-price-in-india-1-2" {
		t.Errorf("empty slug fallback = %q", got)
	}

	if got := s.buildTrackerURL("amazon", "Sample", nil, 2.0); got != "" {
		t.Errorf("missing site_pos must yield no tracker URL, got %q", got)
	}
	if got := s.buildTrackerURL("amazon", "Sample", 1.0, nil); got != "" {
		t.Errorf("missing internalPid must yield no tracker URL, got %q", got)
	}
}

func TestScraperErrorMessage(t *testing.T) {
	err := &ScraperError{Msg: "upstream HTTP error", Status: 500}
	if got := err.Error(); got != "upstream HTTP error: 500" {
		t.Errorf("Error() = %q", got)
	}
	plain := &ScraperError{Msg: "parsing tracker page"}
	if got := plain.Error(); got != "parsing tracker page" {
		t.Errorf("Error() = %q", got)
	}
}
