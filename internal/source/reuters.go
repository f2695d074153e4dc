package source

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/econpulse/internal/infra"
	"github.com/seenimoa/econpulse/pkg/models"
)

// Reuters scrapes the Reuters economic news archive. Headlines live in
// "story-content" blocks, timestamps in separate "article-time"
// elements, positionally paired.
type Reuters struct {
	url     string
	limiter *infra.RateLimiter
}

// NewReuters creates the Reuters scraper for the given archive URL.
func NewReuters(url string, limiter *infra.RateLimiter) *Reuters {
	return &Reuters{url: url, limiter: limiter}
}

// ID implements Source.
func (r *Reuters) ID() models.SourceID { return models.SourceReuters }

// Fetch implements Source.
func (r *Reuters) Fetch(ctx context.Context) ([]models.NewsItem, error) {
	doc, err := fetchDocument(ctx, infra.HTTPClient, r.limiter, r.url)
	if err != nil {
		return nil, err
	}

	var titles []string
	doc.Find("div.story-content").Each(func(_ int, sel *goquery.Selection) {
		titles = append(titles, strings.TrimSpace(sel.Find("a").First().Text()))
	})

	var dates []string
	doc.Find("time.article-time").Each(func(_ int, sel *goquery.Selection) {
		dates = append(dates, strings.TrimSpace(sel.Find("span.timestamp").First().Text()))
	})

	return zip(r.ID(), titles, dates), nil
}
