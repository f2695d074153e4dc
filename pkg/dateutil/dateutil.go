// Package dateutil provides the day-granularity helpers used for
// freshness decisions and series keying.
package dateutil

import "time"

// DayKeyLayout is the canonical day format used in the stored document.
const DayKeyLayout = "2006-01-02"

// SameDay reports whether a and b fall on the same calendar day,
// evaluated in b's location. The reference "now" is always passed as b
// so that the comparison happens in the run's timezone.
func SameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DayStart truncates t to midnight in its own location.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayKey formats t as the canonical day key.
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// ParseDayKey parses a canonical day key in the given location.
func ParseDayKey(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DayKeyLayout, s, loc)
}

// Location resolves a timezone name from configuration. "Local" and ""
// map to the host timezone; an unknown name falls back to UTC rather
// than failing the run.
func Location(name string) *time.Location {
	switch name {
	case "", "Local":
		return time.Local
	case "UTC":
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
