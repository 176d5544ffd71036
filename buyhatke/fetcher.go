package buyhatke

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/Danny-Dasilva/CycleTLS/cycletls"
	fhttp "github.com/saucesteals/fhttp"
	"github.com/saucesteals/mimic"
)

// DefaultUserAgent is sent when no USER_AGENT is configured.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const chromeVersion = "126.0.6478.127"

// Config carries the outbound request settings for the scraper.
type Config struct {
	Timeout   time.Duration
	UserAgent string
}

// fetcher performs single-attempt GETs with browser-shaped headers. The
// aggregator answers 503 when it suspects an automated caller, so requests
// carry ordered Chrome headers and client hints. Transport and status
// failures are classified onto the error taxonomy here; there is no retry.
type fetcher struct {
	cfg Config
	m   *mimic.ClientSpec
}

func newFetcher(cfg Config) *fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	m, _ := mimic.Chromium(mimic.BrandChrome, chromeVersion)
	return &fetcher{cfg: cfg, m: m}
}

func (f *fetcher) Get(url string) ([]byte, error) {
	client := &fhttp.Client{
		Timeout: f.cfg.Timeout,
	}

	req, err := fhttp.NewRequest("GET", url, nil)
	if err != nil {
		return nil, &ScraperError{Msg: "building upstream request", Err: err}
	}

	headerOrder := []string{
		"sec-ch-ua", "sec-ch-ua-mobile", "sec-ch-ua-platform",
		"user-agent", "accept", "sec-fetch-site", "sec-fetch-mode",
		"sec-fetch-dest", "accept-encoding", "accept-language",
	}
	req.Header = fhttp.Header{
		"sec-ch-ua":           {f.m.ClientHintUA()},
		"sec-ch-ua-mobile":    {"?0"},
		"sec-ch-ua-platform":  {`"Windows"`},
		"user-agent":          {f.cfg.UserAgent},
		"accept":              {"text/html,application/json,*/*"},
		"sec-fetch-site":      {"none"},
		"sec-fetch-mode":      {"navigate"},
		"sec-fetch-dest":      {"document"},
		"accept-encoding":     {"gzip, deflate, br"},
		"accept-language":     {"en-US,en;q=0.9"},
		fhttp.HeaderOrderKey:  headerOrder,
		fhttp.PHeaderOrderKey: f.m.PseudoHeaderOrder(),
	}

	resp, err := client.Do(req)
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return nil, ErrUpstreamTimeout
		}
		return nil, &ScraperError{Msg: "upstream request failed", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrUpstreamNotFound
	case resp.StatusCode == http.StatusServiceUnavailable:
		return nil, ErrBotDetected
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &ScraperError{Msg: "upstream HTTP error", Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ScraperError{Msg: fmt.Sprintf("reading upstream response from %s", url), Err: err}
	}

	decoded := cycletls.DecompressBody(body, resp.Header["Content-Encoding"], resp.Header["Content-Type"])
	return []byte(decoded), nil
}
