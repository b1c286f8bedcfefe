// Package period resolves accounting periods from the free-text labels
// found in trial-balance sheets. A period is one calendar month, keyed
// by its last day.
package period

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the format used for period dates in persisted artifacts.
const DateFormat = "2006-01-02"

// ErrParse means the label contained no recognizable month/year pattern.
var ErrParse = errors.New("no month and year found")

// ErrUnknownMonth means the month token matched none of the twelve
// Spanish month names.
var ErrUnknownMonth = errors.New("unknown month name")

// months maps lowercase Spanish month names to calendar months.
var months = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,
}

// labelPattern matches a month word followed by a four-digit year,
// anywhere in the label.
var labelPattern = regexp.MustCompile(`([A-Za-zñÑáéíóúÁÉÍÓÚ]+)\s+(\d{4})`)

// Period is one accounting month, represented by its last calendar day
// at midnight UTC.
type Period struct {
	end time.Time
}

// New returns the Period for the given year and month.
func New(year int, month time.Month) Period {
	// Day zero of the next month normalizes to the last day of this one.
	return Period{end: time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)}
}

// Parse extracts a Spanish "Month Year" pattern from a free-text label
// and returns the matching Period.
func Parse(label string) (Period, error) {
	m := labelPattern.FindStringSubmatch(label)
	if m == nil {
		return Period{}, fmt.Errorf("%w in %q", ErrParse, label)
	}

	month, ok := months[strings.ToLower(m[1])]
	if !ok {
		return Period{}, fmt.Errorf("%w: %q", ErrUnknownMonth, m[1])
	}

	year, err := strconv.Atoi(m[2])
	if err != nil {
		return Period{}, fmt.Errorf("%w in %q", ErrParse, label)
	}

	return New(year, month), nil
}

// ParseEnd parses a persisted period date back into a Period, so that
// equality checks against freshly resolved periods are exact.
func ParseEnd(s string) (Period, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period date %q: %w", s, err)
	}
	return Period{end: t}, nil
}

// End returns the last day of the period.
func (p Period) End() time.Time { return p.end }

// Year returns the period's year.
func (p Period) Year() int { return p.end.Year() }

// Month returns the period's month.
func (p Period) Month() time.Month { return p.end.Month() }

// Equal reports whether two periods denote the same month.
func (p Period) Equal(o Period) bool { return p.end.Equal(o.end) }

// Before reports whether p ends before o.
func (p Period) Before(o Period) bool { return p.end.Before(o.end) }

// IsZero reports whether p is the zero Period.
func (p Period) IsZero() bool { return p.end.IsZero() }

// String formats the period date in its persisted form.
func (p Period) String() string { return p.end.Format(DateFormat) }
