package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/gocolly/colly"

	"PricePulse/buyhatke"
)

// Tracker-page inspector: fetches an aggregator tracker page and prints the
// offers each extraction pass produces. Useful when upstream markup shifts
// and the container heuristics need retuning.
func main() {
	trackerURL := flag.String("url", "", "aggregator tracker page URL")
	flag.Parse()

	if *trackerURL == "" {
		log.Fatal("missing -url")
	}

	c := colly.NewCollector(
		colly.UserAgent(buyhatke.DefaultUserAgent),
	)

	var body string
	c.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
	})
	if err := c.Visit(*trackerURL); err != nil {
		log.Fatal(err)
	}

	doc, err := buyhatke.ParseDocument(body)
	if err != nil {
		log.Fatal(err)
	}

	scraper := buyhatke.NewScraper(buyhatke.Config{}, log.Default())
	offers := scraper.ExtractOffers(doc, *trackerURL)

	out, err := json.MarshalIndent(offers, "", "\t")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%d offers\n%s\n", len(offers), string(out))
}
