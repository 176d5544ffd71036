package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"PricePulse/buyhatke"
)

// One-shot comparison from the command line, without the server or the
// history database. Prints the assembled result as JSON.
func main() {
	rawURL := flag.String("url", "", "product URL on a supported marketplace")
	marketplace := flag.String("marketplace", "", "marketplace override (amazon|flipkart)")
	timeout := flag.Int("timeout", 15, "request timeout in seconds")
	flag.Parse()

	if *rawURL == "" {
		log.Fatal("missing -url")
	}

	cfg := buyhatke.Config{Timeout: time.Duration(*timeout) * time.Second}
	scraper := buyhatke.NewScraper(cfg, log.Default())
	service := buyhatke.NewPriceComparisonService(scraper, nil, log.Default())

	result, err := service.Compare(context.Background(), *rawURL, *marketplace)
	if err != nil {
		log.Fatal(err)
	}

	out, err := json.MarshalIndent(result, "", "\t")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}
