// Package timerange turns free-text time expressions into concrete
// [start, end] intervals. Resolution never fails: underspecified or
// ambiguous phrases degrade to a safe default instead of an error.
package timerange

import (
	"regexp"
	"strings"
	"time"
)

// Interval is a concrete time range. Start is always <= End and both
// bounds are always set.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns End - Start.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Contains reports whether t falls inside the interval, bounds included.
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && !t.After(i.End)
}

var (
	ordinalRe = regexp.MustCompile(`(\d+)(st|nd|rd|th)`)
	digitRe   = regexp.MustCompile(`\d`)
)

// Date layouts tried in order; first match wins.
var dateLayouts = []string{
	"2006-01-02",     // "2025-09-12"
	"2 January 2006", // "12 September 2025"
	"January 2 2006", // "September 12 2025"
}

// Resolve parses a natural-language or date string into a concrete interval,
// evaluated against the wall clock.
func Resolve(phrase string) Interval {
	return ResolveAt(phrase, time.Now())
}

// ResolveAt is Resolve with an explicit reference time.
//
// Priority order: explicit date, relative keyword, ambiguous-numeric
// degrade, 30-day default.
func ResolveAt(phrase string, now time.Time) Interval {
	todayStart := midnight(now)

	if phrase == "" {
		return Interval{Start: now.AddDate(0, 0, -30), End: now}
	}

	lower := strings.ToLower(phrase)

	// Specific date strings take precedence over relative keywords.
	if day, ok := parseDateFlexible(strings.SplitN(phrase, "T", 2)[0], now.Location()); ok {
		return Interval{
			Start: day,
			End:   day.Add(24*time.Hour - time.Microsecond),
		}
	}

	switch {
	case strings.Contains(lower, "today"):
		return Interval{Start: todayStart, End: now}

	case strings.Contains(lower, "yesterday"):
		return Interval{
			Start: todayStart.AddDate(0, 0, -1),
			End:   todayStart.Add(-time.Microsecond),
		}

	case strings.Contains(lower, "this week"):
		return Interval{Start: todayStart.AddDate(0, 0, -daysSinceMonday(now)), End: now}

	case strings.Contains(lower, "last week"):
		// Midnight of the most recent Sunday, then back six days to Monday.
		endOfLastWeek := todayStart.AddDate(0, 0, -(daysSinceMonday(now) + 1))
		return Interval{
			Start: endOfLastWeek.AddDate(0, 0, -6),
			End:   endOfLastWeek.Add(24*time.Hour - time.Second),
		}

	case strings.Contains(lower, "this month"):
		return Interval{Start: firstOfMonth(now), End: now}

	case strings.Contains(lower, "last month"):
		lastMonthEnd := firstOfMonth(now).Add(-time.Microsecond)
		return Interval{Start: firstOfMonth(lastMonthEnd), End: lastMonthEnd}
	}

	// A phrase with a digit that made it past every parser is probably a
	// date we cannot interpret. Returning a zero-duration interval yields
	// zero matching records downstream, which beats guessing a date.
	if digitRe.MatchString(lower) && !strings.Contains(lower, "year") {
		return Interval{Start: now, End: now}
	}

	return Interval{Start: now.AddDate(0, 0, -30), End: now}
}

// parseDateFlexible tries to parse a date string from various common
// formats, normalizing ordinal suffixes ("1st" -> "1") first. The returned
// time is midnight of the parsed day.
func parseDateFlexible(s string, loc *time.Location) (time.Time, bool) {
	s = ordinalRe.ReplaceAllString(s, "$1")

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return midnight(t), true
		}
	}
	return time.Time{}, false
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// daysSinceMonday maps Go's Sunday-first weekday to a Monday-first offset.
func daysSinceMonday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
