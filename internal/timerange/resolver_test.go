package timerange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Wednesday, 2025-09-10 15:04:05.123456 local time.
var refNow = time.Date(2025, time.September, 10, 15, 4, 5, 123456000, time.UTC)

func TestResolveAt_EmptyPhraseDefaultsToThirtyDays(t *testing.T) {
	got := ResolveAt("", refNow)

	assert.Equal(t, refNow.AddDate(0, 0, -30), got.Start)
	assert.Equal(t, refNow, got.End)
}

func TestResolveAt_ExplicitDateFormats(t *testing.T) {
	wantStart := time.Date(2025, time.September, 12, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, time.September, 12, 23, 59, 59, 999999000, time.UTC)

	tests := []struct {
		name   string
		phrase string
	}{
		{"iso date", "2025-09-12"},
		{"day month year", "12 September 2025"},
		{"month day year", "September 12 2025"},
		{"ordinal suffix stripped", "12th September 2025"},
		{"time component ignored", "2025-09-12T10:30:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveAt(tt.phrase, refNow)
			assert.Equal(t, wantStart, got.Start)
			assert.Equal(t, wantEnd, got.End)
		})
	}
}

func TestResolveAt_Today(t *testing.T) {
	got := ResolveAt("today", refNow)

	assert.Equal(t, time.Date(2025, time.September, 10, 0, 0, 0, 0, time.UTC), got.Start)
	assert.Equal(t, refNow, got.End)
}

func TestResolveAt_Yesterday(t *testing.T) {
	got := ResolveAt("what did I spend yesterday", refNow)

	todayStart := time.Date(2025, time.September, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, todayStart.AddDate(0, 0, -1), got.Start)
	assert.Equal(t, todayStart.Add(-time.Microsecond), got.End)
}

func TestResolveAt_ThisWeekStartsMonday(t *testing.T) {
	got := ResolveAt("this week", refNow)

	// refNow is a Wednesday, so this week's Monday is the 8th.
	assert.Equal(t, time.Date(2025, time.September, 8, 0, 0, 0, 0, time.UTC), got.Start)
	assert.Equal(t, refNow, got.End)
}

func TestResolveAt_LastWeek(t *testing.T) {
	got := ResolveAt("last week", refNow)

	assert.Equal(t, time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC), got.Start)
	assert.Equal(t, time.Date(2025, time.September, 7, 23, 59, 59, 0, time.UTC), got.End)
}

func TestResolveAt_ThisMonth(t *testing.T) {
	got := ResolveAt("this month", refNow)

	assert.Equal(t, time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC), got.Start)
	assert.Equal(t, refNow, got.End)
}

func TestResolveAt_LastMonth(t *testing.T) {
	got := ResolveAt("last month", refNow)

	assert.Equal(t, time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC), got.Start)
	assert.Equal(t, time.Date(2025, time.August, 31, 23, 59, 59, 999999000, time.UTC), got.End)
}

func TestResolveAt_AmbiguousNumericYieldsZeroDuration(t *testing.T) {
	got := ResolveAt("order 5", refNow)

	assert.Equal(t, refNow, got.Start)
	assert.Equal(t, refNow, got.End)
	assert.Zero(t, got.Duration())
}

func TestResolveAt_NumericWithYearFallsBackToDefault(t *testing.T) {
	got := ResolveAt("about 2 years ago", refNow)

	assert.Equal(t, refNow.AddDate(0, 0, -30), got.Start)
	assert.Equal(t, refNow, got.End)
}

func TestResolveAt_UnrecognizedTextDefaultsToThirtyDays(t *testing.T) {
	got := ResolveAt("whenever", refNow)

	assert.Equal(t, refNow.AddDate(0, 0, -30), got.Start)
	assert.Equal(t, refNow, got.End)
}

func TestResolveAt_DatePrecedesRelativeKeyword(t *testing.T) {
	// A parseable date wins even when the phrase also mentions a keyword.
	got := ResolveAt("2025-09-12", refNow)
	assert.Equal(t, 12, got.Start.Day())
}

func TestResolve_UsesWallClock(t *testing.T) {
	before := time.Now()
	got := Resolve("")
	after := time.Now()

	assert.True(t, got.End.After(before.Add(-time.Second)))
	assert.True(t, got.End.Before(after.Add(time.Second)))
	assert.Equal(t, got.End, got.Start.AddDate(0, 0, 30))
}

func TestInterval_Contains(t *testing.T) {
	iv := ResolveAt("2025-09-12", refNow)

	assert.True(t, iv.Contains(time.Date(2025, time.September, 12, 12, 0, 0, 0, time.UTC)))
	assert.False(t, iv.Contains(time.Date(2025, time.September, 13, 0, 0, 0, 0, time.UTC)))
}
