// Package history holds the series arithmetic: the daily mean, the
// append-or-update decision against the stored document, and the
// derived cumulative view.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/seenimoa/econpulse/internal/store"
	"github.com/seenimoa/econpulse/pkg/dateutil"
	"github.com/seenimoa/econpulse/pkg/models"
)

// Mean returns the average of the day's point values. Callers must not
// invoke it with an empty slice; a no-news day never reaches the mean,
// it short-circuits the run instead. The zero return for an empty input
// is a guard, not a meaningful value.
func Mean(points []int) float64 {
	if len(points) == 0 {
		return 0
	}
	sum := 0
	for _, p := range points {
		sum += p
	}
	return float64(sum) / float64(len(points))
}

// Apply lands today's value in the stored series and reports what it
// did. The decision looks only at the last element:
//
//   - last date is today, same value   → nothing to write
//   - last date is today, value moved  → overwrite the last point
//   - otherwise                        → append a new point
//
// Running the pipeline twice on the same inputs is therefore a no-op,
// and a later run the same day refines the morning's value in place.
func Apply(ctx context.Context, st store.Store, series *models.HistorySeries, today time.Time, value float64) (models.PersistAction, error) {
	last, ok := series.Last()
	if ok && dateutil.SameDay(last.Date, today) {
		if last.Value == value {
			return models.PersistUnchanged, nil
		}
		if err := st.OverwriteLast(ctx, value); err != nil {
			return models.PersistUnchanged, fmt.Errorf("update today's value: %w", err)
		}
		return models.PersistUpdated, nil
	}

	point := models.DailyPoint{Date: dateutil.DayStart(today), Value: value}
	if err := st.Append(ctx, point); err != nil {
		return models.PersistUnchanged, fmt.Errorf("append today's value: %w", err)
	}
	return models.PersistAppended, nil
}

// BuildCumulative derives the running-sum view from a stored series.
// Totals carry the full running sum, except that the first day's total
// is pinned to zero: [2, 3, -1] derives [0, 5, 4]. That zeroed first
// entry matches the totals this system has always produced; changing
// it would shift every historical chart.
func BuildCumulative(series *models.HistorySeries) models.CumulativeSeries {
	out := models.CumulativeSeries{
		Dates:  append([]time.Time(nil), series.Dates...),
		Totals: make([]float64, series.Len()),
	}
	var run float64
	for i, p := range series.Points {
		run += p
		out.Totals[i] = run
	}
	if len(out.Totals) > 0 {
		out.Totals[0] = 0
	}
	return out
}
