package models

import (
	"fmt"
	"time"
)

// DailyPoint is one entry of the historical series: the mean sentiment
// of all news found on one calendar day.
type DailyPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// HistorySeries mirrors the stored document: two parallel arrays keyed
// by position. Dates and Points must stay equal-length and equal-order;
// every write path goes through the store adapter, which preserves the
// pairing. Insertion order is chronological under normal operation, but
// readers locate "today" via the last element's date, never by sorting.
type HistorySeries struct {
	Dates  []time.Time `json:"dates"`
	Points []float64   `json:"points"`
}

// Len returns the number of stored days.
func (s *HistorySeries) Len() int { return len(s.Dates) }

// Last returns the most recently inserted point, or false when the
// series is empty.
func (s *HistorySeries) Last() (DailyPoint, bool) {
	if s.Len() == 0 {
		return DailyPoint{}, false
	}
	i := s.Len() - 1
	return DailyPoint{Date: s.Dates[i], Value: s.Points[i]}, true
}

// Validate checks the parallel-array pairing invariant.
func (s *HistorySeries) Validate() error {
	if len(s.Dates) != len(s.Points) {
		return fmt.Errorf("history series corrupted: %d dates vs %d points", len(s.Dates), len(s.Points))
	}
	return nil
}

// CumulativeSeries is the running-sum view derived from a
// HistorySeries. Never persisted; rebuilt on every read.
type CumulativeSeries struct {
	Dates  []time.Time `json:"dates"`
	Totals []float64   `json:"totals"`
}

// PersistAction records what the append-or-update decision did with
// the computed daily value.
type PersistAction string

// Persistence outcomes of one run.
const (
	// PersistAppended — first run of the day, a new point was appended.
	PersistAppended PersistAction = "appended"
	// PersistUpdated — a point for today existed and its value changed.
	PersistUpdated PersistAction = "updated"
	// PersistUnchanged — a point for today existed with the same value.
	PersistUnchanged PersistAction = "unchanged"
	// PersistNone — no news today, nothing was written.
	PersistNone PersistAction = "none"
)

// RunResult is the read-only view data one pipeline run produces for
// the CLI and the HTTP API.
type RunResult struct {
	RunID      string           `json:"run_id"`
	Date       time.Time        `json:"date"`
	NewsFound  bool             `json:"news_found"`
	Items      []ScoredNewsItem `json:"items,omitempty"`
	DailyValue float64          `json:"daily_value"`
	Action     PersistAction    `json:"action"`
	Series     *HistorySeries   `json:"series"`
	Cumulative CumulativeSeries `json:"cumulative"`
}
