package source

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/econpulse/internal/infra"
	"github.com/seenimoa/econpulse/pkg/models"
)

// BusinessStandard scrapes the Business Standard international economy
// listing. Each list entry carries its own headline (h2) and date (p),
// so no positional pairing is needed.
type BusinessStandard struct {
	url     string
	limiter *infra.RateLimiter
}

// NewBusinessStandard creates the Business Standard scraper.
func NewBusinessStandard(url string, limiter *infra.RateLimiter) *BusinessStandard {
	return &BusinessStandard{url: url, limiter: limiter}
}

// ID implements Source.
func (b *BusinessStandard) ID() models.SourceID { return models.SourceBusinessStandard }

// Fetch implements Source.
func (b *BusinessStandard) Fetch(ctx context.Context) ([]models.NewsItem, error) {
	doc, err := fetchDocument(ctx, infra.HTTPClient, b.limiter, b.url)
	if err != nil {
		return nil, err
	}

	var items []models.NewsItem
	doc.Find("div.listing-panel li").Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Find("h2").First().Text())
		date := strings.TrimSpace(sel.Find("p").First().Text())
		if title == "" || date == "" {
			return
		}
		items = append(items, models.NewsItem{
			Title:   title,
			Source:  b.ID(),
			RawDate: date,
		})
	})

	return items, nil
}
