// Package ingest runs all source scrapers and merges their fresh items
// into one ordered list.
package ingest

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/econpulse/internal/freshness"
	"github.com/seenimoa/econpulse/internal/source"
	"github.com/seenimoa/econpulse/pkg/models"
)

// Collector fetches every source concurrently, applies the matching
// freshness rule, and concatenates today's items in fixed source order.
//
// Failures are isolated per source: an unreachable or unparsable
// listing contributes an empty slice and a warning, never an error.
// An unrecognized date excludes only that item. "No news today" is a
// valid result, not a failure.
type Collector struct {
	sources      []source.Source
	fetchTimeout time.Duration
	log          *logrus.Logger
}

// NewCollector creates a collector over the given sources. fetchTimeout
// bounds each source fetch independently; zero disables the bound.
func NewCollector(sources []source.Source, fetchTimeout time.Duration, log *logrus.Logger) *Collector {
	return &Collector{
		sources:      sources,
		fetchTimeout: fetchTimeout,
		log:          log,
	}
}

// CollectToday returns all items published on now's calendar day,
// ordered by source registration order and, within a source, by
// listing order.
func (c *Collector) CollectToday(ctx context.Context, now time.Time) []models.NewsItem {
	// Fetch into per-source slots so the merge preserves order no
	// matter which fetch finishes first.
	results := make([][]models.NewsItem, len(c.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range c.sources {
		i, src := i, src
		g.Go(func() error {
			fctx := gctx
			if c.fetchTimeout > 0 {
				var cancel context.CancelFunc
				fctx, cancel = context.WithTimeout(gctx, c.fetchTimeout)
				defer cancel()
			}

			items, err := src.Fetch(fctx)
			if err != nil {
				c.log.WithField("source", src.ID()).Warnf("fetch failed: %v", err)
				return nil // non-fatal: the other sources still count
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait() // goroutines only return nil

	var today []models.NewsItem
	for i, src := range c.sources {
		today = append(today, c.filterToday(src.ID(), results[i], now)...)
	}
	return today
}

// filterToday applies the source's freshness rule to each item.
func (c *Collector) filterToday(id models.SourceID, items []models.NewsItem, now time.Time) []models.NewsItem {
	rule, ok := freshness.ForSource(id)
	if !ok {
		c.log.WithField("source", id).Warn("no freshness rule registered, dropping source")
		return nil
	}

	log := c.log.WithField("source", id)

	var fresh []models.NewsItem
	for _, item := range items {
		isToday, err := rule.IsToday(item.RawDate, now)
		if err != nil {
			log.WithField("raw_date", item.RawDate).Warnf("date not recognized: %v", err)
			continue
		}
		if isToday {
			fresh = append(fresh, item)
		}
	}

	log.WithFields(logrus.Fields{"scraped": len(items), "today": len(fresh)}).Debug("source filtered")
	return fresh
}
