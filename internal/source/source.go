// Package source implements the per-site news listing scrapers. Each
// scraper fetches one listing page and extracts (title, raw date text)
// pairs; interpreting the date text is the freshness package's job.
//
// Scrapers are partial-failure tolerant: an entry with a missing title
// or date is skipped, never fatal. Only a failed fetch or an unparsable
// page fails the whole source, and even then the error is scoped to
// that source by the collector.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/econpulse/internal/infra"
	"github.com/seenimoa/econpulse/pkg/models"
)

// ErrFetch is returned when a listing page cannot be fetched or parsed.
var ErrFetch = errors.New("source fetch failed")

// Source is one news listing scraper.
type Source interface {
	// ID returns the source identifier items are tagged with.
	ID() models.SourceID

	// Fetch downloads the listing page and extracts all entries,
	// regardless of publication date.
	Fetch(ctx context.Context) ([]models.NewsItem, error)
}

// fetchDocument downloads url and parses it into a goquery document.
// The limiter, when set, throttles across all scrapers sharing it.
func fetchDocument(ctx context.Context, client *http.Client, limiter *infra.RateLimiter, url string) (*goquery.Document, error) {
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	body, _, err := infra.DoGet(ctx, client, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrFetch, url, err)
	}
	return doc, nil
}

// zip pairs parallel title/date lists extracted from separate DOM
// subtrees, dropping entries with a missing half. Listings sometimes
// render a card without its footer; pairing stops at the shorter list.
func zip(id models.SourceID, titles, dates []string) []models.NewsItem {
	n := len(titles)
	if len(dates) < n {
		n = len(dates)
	}

	items := make([]models.NewsItem, 0, n)
	for i := 0; i < n; i++ {
		if titles[i] == "" || dates[i] == "" {
			continue
		}
		items = append(items, models.NewsItem{
			Title:   titles[i],
			Source:  id,
			RawDate: dates[i],
		})
	}
	return items
}
