package buyhatke

import (
	"context"
	"testing"

	"PricePulse/models"
)

type memoryRecorder struct {
	records []models.SearchHistory
	err     error
}

func (m *memoryRecorder) Insert(_ context.Context, rec models.SearchHistory) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

func TestCompareRecordsSuccess(t *testing.T) {
	srv := newScrapeServer(t, sampleProductJSON,
		"/amazon-sample-product-price-in-india-1-2", bootstrapPage)
	rec := &memoryRecorder{}
	svc := NewPriceComparisonService(scraperFor(srv), rec, testLogger())

	result, err := svc.Compare(context.Background(), "https://www.amazon.in/dp/B0ABCDEFGH", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.records) != 1 {
		t.Fatalf("records = %d", len(rec.records))
	}
	got := rec.records[0]
	if got.Status != "Success" || got.Marketplace != "amazon" || got.Source != Source {
		t.Errorf("record = %+v", got)
	}
	if got.DetectedPrice == nil || *got.DetectedPrice != *result.Price {
		t.Errorf("recorded price = %v", got.DetectedPrice)
	}
	if got.Timestamp.IsZero() {
		t.Error("record timestamp not set")
	}

	select {
	case live := <-svc.Results:
		if live.Status != "Success" {
			t.Errorf("live record = %+v", live)
		}
	default:
		t.Error("no live record on the results channel")
	}
}

func TestCompareRecordsFailure(t *testing.T) {
	rec := &memoryRecorder{}
	svc := NewPriceComparisonService(newTestScraper(), rec, testLogger())

	if _, err := svc.Compare(context.Background(), "https://www.ebay.com/itm/123", ""); err == nil {
		t.Fatal("expected an error")
	}
	if len(rec.records) != 1 {
		t.Fatalf("records = %d", len(rec.records))
	}
	got := rec.records[0]
	if got.Status != "Failed" || got.ErrorMessage == "" {
		t.Errorf("record = %+v", got)
	}
	if got.Marketplace != "unknown" {
		t.Errorf("marketplace = %q, want unknown", got.Marketplace)
	}
}

func TestCompareFailureKeepsDetectedMarketplace(t *testing.T) {
	rec := &memoryRecorder{}
	svc := NewPriceComparisonService(newTestScraper(), rec, testLogger())

	// amazon URL without a product identifier: detection succeeds, scrape fails
	if _, err := svc.Compare(context.Background(), "https://www.amazon.in/s?k=phone", ""); err == nil {
		t.Fatal("expected an error")
	}
	if rec.records[0].Marketplace != "amazon" {
		t.Errorf("marketplace = %q, want amazon", rec.records[0].Marketplace)
	}
}

func TestCompareWithoutRecorder(t *testing.T) {
	srv := newScrapeServer(t, sampleProductJSON, "", "")
	svc := NewPriceComparisonService(scraperFor(srv), nil, testLogger())

	if _, err := svc.Compare(context.Background(), "https://www.amazon.in/dp/B0ABCDEFGH", ""); err != nil {
		t.Fatal(err)
	}
}
