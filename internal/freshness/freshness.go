// Package freshness decides whether a scraped news item was published
// on the current calendar day. Every source encodes dates differently,
// so each source gets its own state-free rule; none of them share a
// parser. A rule never aborts ingestion: an unrecognized format is
// reported as ErrUnrecognizedDate and the item is treated as older.
package freshness

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/seenimoa/econpulse/pkg/dateutil"
	"github.com/seenimoa/econpulse/pkg/models"
)

// ErrUnrecognizedDate is returned when a rule cannot interpret the raw
// date text for its source. Callers log a warning and classify the
// item as not-today.
var ErrUnrecognizedDate = errors.New("unrecognized date format")

// Rule classifies one source's raw date text against a reference time.
type Rule interface {
	// IsToday reports whether rawDate denotes the same calendar day as
	// now, in now's location.
	IsToday(rawDate string, now time.Time) (bool, error)
}

// rules maps each source to its rule. Rules are stateless, so the
// shared instances are safe for concurrent use.
var rules = map[models.SourceID]Rule{
	models.SourceCNBC:             CNBCRule{},
	models.SourceReuters:          ReutersRule{},
	models.SourceBusinessStandard: BusinessStandardRule{},
}

// ForSource returns the rule registered for the given source.
func ForSource(id models.SourceID) (Rule, bool) {
	r, ok := rules[id]
	return r, ok
}

// --- CNBC ---

// CNBCRule interprets CNBC card footer timestamps. Fresh items carry a
// relative marker ("19 min ago", "2 hours ago"); older items carry an
// absolute form like "Wed, Dec 21st 2022": a weekday prefix, an
// ordinal day suffix, and the year at the end. The absolute form is
// taken apart by fixed offsets, not by a general parser.
type CNBCRule struct{}

// cnbcDayLayout parses the reassembled "21 Dec 2022" form.
const cnbcDayLayout = "2 Jan 2006"

// IsToday implements Rule.
func (CNBCRule) IsToday(rawDate string, now time.Time) (bool, error) {
	if strings.Contains(rawDate, "hour") || strings.Contains(rawDate, "min") {
		return true, nil
	}

	// Strip the "Wed, " weekday prefix, then slice month, day, and
	// year out of the remainder. "Dec 21st 2022" → month [0:3],
	// day [4:len-7], year last five characters.
	if len(rawDate) < 5+len("Jan 2nd 2006") {
		return false, fmt.Errorf("%w: cnbc date %q too short", ErrUnrecognizedDate, rawDate)
	}
	rest := rawDate[5:]
	month := rest[:3]
	day := strings.TrimSpace(rest[4 : len(rest)-7])
	year := strings.TrimSpace(rest[len(rest)-5:])

	d, err := time.ParseInLocation(cnbcDayLayout, day+" "+month+" "+year, now.Location())
	if err != nil {
		return false, fmt.Errorf("%w: cnbc date %q", ErrUnrecognizedDate, rawDate)
	}
	return dateutil.SameDay(d, now), nil
}

// --- Reuters ---

// ReutersRule interprets Reuters archive timestamps. The archive shows
// a clock time with a US-Eastern zone abbreviation only for same-day
// items ("11:22am EST"); everything older carries a plain date. Any
// text without those markers is therefore older by convention, never
// an error.
type ReutersRule struct{}

// IsToday implements Rule.
func (ReutersRule) IsToday(rawDate string, _ time.Time) (bool, error) {
	if strings.Contains(rawDate, "EST") || strings.Contains(rawDate, "EDT") ||
		strings.Contains(rawDate, "am") || strings.Contains(rawDate, "pm") {
		return true, nil
	}
	return false, nil
}

// --- Business Standard ---

// BusinessStandardRule interprets Business Standard listing dates,
// which are always absolute: "December 21, 2022, Wednesday".
type BusinessStandardRule struct{}

// bsLayout matches the listing's long date form.
const bsLayout = "January 2, 2006, Monday"

// IsToday implements Rule.
func (BusinessStandardRule) IsToday(rawDate string, now time.Time) (bool, error) {
	d, err := time.ParseInLocation(bsLayout, strings.TrimSpace(rawDate), now.Location())
	if err != nil {
		return false, fmt.Errorf("%w: business-standard date %q", ErrUnrecognizedDate, rawDate)
	}
	return dateutil.SameDay(d, now), nil
}
