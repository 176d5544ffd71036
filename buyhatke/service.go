package buyhatke

import (
	"context"
	"log"
	"time"

	"PricePulse/models"
)

// Recorder receives one record per comparison attempt. *HistoryStore
// implements it; a nil Recorder disables persistence.
type Recorder interface {
	Insert(ctx context.Context, record models.SearchHistory) error
}

// PriceComparisonService wraps the scraper with history recording and a live
// feed of completed attempts for the websocket stream.
type PriceComparisonService struct {
	scraper *Scraper
	history Recorder
	log     *log.Logger

	// Results carries every recorded attempt; sends are dropped when no
	// consumer is draining.
	Results chan models.SearchHistory
}

func NewPriceComparisonService(scraper *Scraper, history Recorder, logger *log.Logger) *PriceComparisonService {
	if logger == nil {
		logger = log.Default()
	}
	return &PriceComparisonService{
		scraper: scraper,
		history: history,
		log:     logger,
		Results: make(chan models.SearchHistory, 100),
	}
}

// Compare runs one comparison and records the attempt, success or failure.
func (p *PriceComparisonService) Compare(ctx context.Context, rawURL, marketplace string) (*models.ScrapeResult, error) {
	resolved := marketplace
	if resolved == "" {
		resolved = "auto-detect"
	}
	p.log.Printf("search started: url=%s marketplace=%s", rawURL, resolved)

	result, err := p.scraper.Scrape(rawURL, marketplace)
	if err != nil {
		resolved = marketplace
		if resolved == "" {
			resolved = DetectMarketplace(rawURL)
		}
		if resolved == "" {
			resolved = "unknown"
		}
		p.record(ctx, models.SearchHistory{
			URL:          rawURL,
			Marketplace:  resolved,
			Source:       Source,
			Status:       "Failed",
			ErrorMessage: err.Error(),
			Timestamp:    time.Now().UTC(),
		})
		p.log.Printf("comparison failed: url=%s marketplace=%s err=%v", rawURL, resolved, err)
		return nil, err
	}

	p.record(ctx, models.SearchHistory{
		URL:           rawURL,
		Marketplace:   result.Marketplace,
		Source:        result.Source,
		DetectedPrice: result.Price,
		Status:        "Success",
		Timestamp:     time.Now().UTC(),
	})
	p.log.Printf("search succeeded: url=%s marketplace=%s price=%s alternatives=%d",
		rawURL, result.Marketplace, FormatPrice(result.Price), len(result.Alternatives))
	return result, nil
}

func (p *PriceComparisonService) record(ctx context.Context, rec models.SearchHistory) {
	if p.history != nil {
		if err := p.history.Insert(ctx, rec); err != nil {
			p.log.Printf("recording search history: %v", err)
		}
	}
	select {
	case p.Results <- rec:
	default:
		// live feed is best effort
	}
}
