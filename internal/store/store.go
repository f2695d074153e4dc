// Package store owns the historical series document: a single logical
// document holding two parallel arrays, dates and points, under a
// fixed key. Every operation works on the whole document; there are no
// partial-row updates. Callers must treat a Read result as a snapshot
// that may be stale by the time a write lands.
package store

import (
	"context"
	"errors"

	"github.com/seenimoa/econpulse/pkg/models"
)

// Sentinel errors. All of them are fatal to a pipeline run; the
// computed daily value is simply recomputed on the next run.
var (
	// ErrUnavailable — the document store cannot be reached or read.
	ErrUnavailable = errors.New("history store unavailable")

	// ErrWriteFailed — a write against the document failed.
	ErrWriteFailed = errors.New("history store write failed")

	// ErrConflict — the document changed between read and write.
	// A concurrent run won the race; retrying the whole run converges
	// to the same stored value, so callers just surface this.
	ErrConflict = errors.New("history store version conflict")
)

// Store is the append-or-update series document contract.
type Store interface {
	// Read returns the full series. A missing document is an empty
	// series, not an error.
	Read(ctx context.Context) (*models.HistorySeries, error)

	// Append grows both arrays by one entry at the same index.
	Append(ctx context.Context, p models.DailyPoint) error

	// OverwriteLast replaces the last value in place, leaving the
	// dates array untouched. Fails on an empty series.
	OverwriteLast(ctx context.Context, value float64) error

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}
