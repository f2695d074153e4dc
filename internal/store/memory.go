package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/seenimoa/econpulse/pkg/models"
)

// Memory is an in-process Store used by tests and offline runs.
// It enforces the same contract as the document store, including the
// parallel-array invariant.
type Memory struct {
	mu     sync.Mutex
	series models.HistorySeries
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Read implements Store. The returned series is a copy; mutating it
// does not touch the stored document.
func (m *Memory) Read(_ context.Context) (*models.HistorySeries, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := &models.HistorySeries{
		Dates:  append([]time.Time(nil), m.series.Dates...),
		Points: append([]float64(nil), m.series.Points...),
	}
	return out, nil
}

// Append implements Store.
func (m *Memory) Append(_ context.Context, p models.DailyPoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.series.Dates = append(m.series.Dates, p.Date)
	m.series.Points = append(m.series.Points, p.Value)
	return nil
}

// OverwriteLast implements Store.
func (m *Memory) OverwriteLast(_ context.Context, value float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.series.Len() == 0 {
		return fmt.Errorf("%w: cannot overwrite last value of an empty series", ErrWriteFailed)
	}
	m.series.Points[m.series.Len()-1] = value
	return nil
}

// Ping implements Store.
func (m *Memory) Ping(_ context.Context) error { return nil }
