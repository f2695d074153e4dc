// Package pipeline wires the daily run end to end: collect today's
// headlines, score them, fold them into the daily mean, land the value
// in the stored series, and derive the cumulative view.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/seenimoa/econpulse/internal/classify"
	"github.com/seenimoa/econpulse/internal/config"
	"github.com/seenimoa/econpulse/internal/history"
	"github.com/seenimoa/econpulse/internal/infra"
	"github.com/seenimoa/econpulse/internal/ingest"
	"github.com/seenimoa/econpulse/internal/source"
	"github.com/seenimoa/econpulse/internal/store"
	"github.com/seenimoa/econpulse/pkg/dateutil"
	"github.com/seenimoa/econpulse/pkg/models"
)

// Scorer classifies a batch of news items, one-to-one and in order.
type Scorer interface {
	Score(ctx context.Context, items []models.NewsItem) ([]models.ScoredNewsItem, error)
}

// Pipeline runs the daily collect → score → persist sequence.
type Pipeline struct {
	collector *ingest.Collector
	scorer    Scorer
	store     store.Store
	loc       *time.Location
	log       *logrus.Logger

	// now is swapped in tests to pin the calendar day.
	now func() time.Time
}

// New creates a pipeline over the given components. loc is the
// timezone "today" is evaluated in; nil means the host timezone.
func New(collector *ingest.Collector, scorer Scorer, st store.Store, loc *time.Location, log *logrus.Logger) *Pipeline {
	if loc == nil {
		loc = time.Local
	}
	return &Pipeline{
		collector: collector,
		scorer:    scorer,
		store:     st,
		loc:       loc,
		log:       log,
		now:       time.Now,
	}
}

// FromConfig builds a fully wired pipeline from configuration.
func FromConfig(cfg *config.Config, log *logrus.Logger) (*Pipeline, error) {
	loc := dateutil.Location(cfg.Timezone)

	limiter := infra.NewRateLimiter(cfg.Sources.RequestsPerSecond, time.Second)
	sources := []source.Source{
		source.NewCNBC(cfg.Sources.CNBCURL, limiter),
		source.NewReuters(cfg.Sources.ReutersURL, limiter),
		source.NewBusinessStandard(cfg.Sources.BusinessStandardURL, limiter),
	}
	collector := ingest.NewCollector(sources, cfg.Sources.FetchTimeout(), log)

	scorer, err := classify.NewClient(cfg.Classifier.URL, classify.WithTimeout(cfg.Classifier.Timeout()))
	if err != nil {
		return nil, fmt.Errorf("build classifier client: %w", err)
	}

	st, err := OpenStore(cfg, log)
	if err != nil {
		return nil, err
	}

	return New(collector, scorer, st, loc, log), nil
}

// OpenStore creates the configured series store.
func OpenStore(cfg *config.Config, log *logrus.Logger) (store.Store, error) {
	switch cfg.Store.Driver {
	case "memory":
		return store.NewMemory(), nil
	case "elasticsearch", "":
		return store.NewElastic(
			cfg.Store.Address, cfg.Store.APIKey,
			cfg.Store.Index, cfg.Store.DocumentID,
			dateutil.Location(cfg.Timezone), log,
		)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// Run executes one daily run and returns its outcome. Store and
// classifier failures abort the run; the series is never written from
// a partially scored day.
func (p *Pipeline) Run(ctx context.Context) (*models.RunResult, error) {
	now := p.now().In(p.loc)
	result := &models.RunResult{
		RunID: uuid.NewString(),
		Date:  dateutil.DayStart(now),
	}
	log := p.log.WithFields(logrus.Fields{"run_id": result.RunID, "date": dateutil.DayKey(now)})

	items := p.collector.CollectToday(ctx, now)
	if len(items) == 0 {
		log.Info("no news published today, nothing to persist")
		result.Action = models.PersistNone
		if err := p.attachSeries(ctx, result); err != nil {
			return nil, err
		}
		return result, nil
	}
	result.NewsFound = true
	log.WithField("items", len(items)).Info("collected today's headlines")

	scored, err := p.scorer.Score(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("score headlines: %w", err)
	}
	result.Items = scored

	points := make([]int, len(scored))
	for i, s := range scored {
		points[i] = s.Points
	}
	result.DailyValue = history.Mean(points)
	log.WithField("daily_value", result.DailyValue).Info("daily sentiment computed")

	series, err := p.store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read series: %w", err)
	}

	action, err := history.Apply(ctx, p.store, series, now, result.DailyValue)
	if err != nil {
		return nil, err
	}
	result.Action = action
	log.WithField("action", action).Info("series persisted")

	// Read back so the result reflects what actually landed, not what
	// we think we wrote.
	if err := p.attachSeries(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// History returns the stored series and its cumulative view without
// running a collection. The cumulative series is derived fresh on
// every call, never cached.
func (p *Pipeline) History(ctx context.Context) (*models.HistorySeries, models.CumulativeSeries, error) {
	series, err := p.store.Read(ctx)
	if err != nil {
		return nil, models.CumulativeSeries{}, fmt.Errorf("read series: %w", err)
	}
	return series, history.BuildCumulative(series), nil
}

// CollectToday exposes the raw collection step for inspection without
// scoring or persisting anything.
func (p *Pipeline) CollectToday(ctx context.Context) []models.NewsItem {
	return p.collector.CollectToday(ctx, p.now().In(p.loc))
}

// Store exposes the underlying series store for health checks.
func (p *Pipeline) Store() store.Store { return p.store }

func (p *Pipeline) attachSeries(ctx context.Context, result *models.RunResult) error {
	series, cum, err := p.History(ctx)
	if err != nil {
		return err
	}
	result.Series = series
	result.Cumulative = cum
	return nil
}
