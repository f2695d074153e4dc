package source

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/econpulse/internal/infra"
	"github.com/seenimoa/econpulse/pkg/models"
)

// CNBC scrapes the CNBC world-economy listing. Titles live in
// "Card-titleContainer" blocks, timestamps in the matching
// "Card-cardFooter" blocks; the two lists are positionally paired.
type CNBC struct {
	url     string
	limiter *infra.RateLimiter
}

// NewCNBC creates the CNBC scraper for the given listing URL.
func NewCNBC(url string, limiter *infra.RateLimiter) *CNBC {
	return &CNBC{url: url, limiter: limiter}
}

// ID implements Source.
func (c *CNBC) ID() models.SourceID { return models.SourceCNBC }

// Fetch implements Source.
func (c *CNBC) Fetch(ctx context.Context) ([]models.NewsItem, error) {
	doc, err := fetchDocument(ctx, infra.HTTPClient, c.limiter, c.url)
	if err != nil {
		return nil, err
	}

	var titles []string
	doc.Find("div.Card-titleContainer").Each(func(_ int, sel *goquery.Selection) {
		titles = append(titles, strings.TrimSpace(sel.Find("a").First().Text()))
	})

	var dates []string
	doc.Find("div.Card-cardFooter").Each(func(_ int, sel *goquery.Selection) {
		dates = append(dates, strings.TrimSpace(sel.Find("span.Card-time").First().Text()))
	})

	return zip(c.ID(), titles, dates), nil
}
