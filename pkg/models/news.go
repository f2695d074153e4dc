// Package models defines the shared data types passed between the
// ingestion, classification, and history layers.
package models

// SourceID identifies one configured news source.
type SourceID string

// Supported news sources.
const (
	SourceCNBC             SourceID = "cnbc"
	SourceReuters          SourceID = "reuters"
	SourceBusinessStandard SourceID = "business-standard"
)

// AllSources lists the sources in their fixed ingestion order.
// The merged "today" list preserves this order across sources.
var AllSources = []SourceID{
	SourceCNBC,
	SourceReuters,
	SourceBusinessStandard,
}

// NewsItem is one extracted listing entry. RawDate keeps the source's
// own date text untouched; the freshness rules interpret it.
// Items are immutable once extracted and are never persisted.
type NewsItem struct {
	Title   string   `json:"title"`
	Source  SourceID `json:"source"`
	RawDate string   `json:"raw_date"`
}

// Sentiment is the discrete label assigned by the classifier.
type Sentiment string

// Sentiment labels.
const (
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentPositive Sentiment = "positive"
)

// ScoredNewsItem is a NewsItem with its classification attached.
// Points is always one of -1, 0, +1. Probs keeps the raw class
// probability vector for display; it is not used downstream.
type ScoredNewsItem struct {
	NewsItem
	Label  Sentiment `json:"label"`
	Points int       `json:"points"`
	Probs  []float64 `json:"probs,omitempty"`
}
