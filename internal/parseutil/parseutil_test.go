package parseutil

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAbbreviatedNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"1.2k", 1200},
		{"2M", 2_000_000},
		{"5", 5},
		{"", 0},
		{"1 234", 1234},
		{"1 234", 1234},
		{"1,2 k", 1200},
		{"1,234", 1234},
		{"1.234.567", 1_234_567},
		{"12 réactions", 12},
		{"3 comments", 3},
		{"abc", 0},
		{"1.5K", 1500},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAbbreviatedNumber(tt.in))
		})
	}
}

func TestParseRelativeText(t *testing.T) {
	ref := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Duration
	}{
		{"2 j", 48 * time.Hour},
		{"3 h", 3 * time.Hour},
		{"4 min", 4 * time.Minute},
		{"2 weeks", 14 * 24 * time.Hour},
		{"1 year", 365 * 24 * time.Hour},
		{"1 an", 365 * 24 * time.Hour},
		{"3 mois", 90 * 24 * time.Hour},
		{"2 semaines", 14 * 24 * time.Hour},
		{"5d", 5 * 24 * time.Hour},
		{"1w", 7 * 24 * time.Hour},
		{"il y a 3 jours", 72 * time.Hour},
		{"5 hrs", 5 * time.Hour},
		{"1hr", time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseRelativeTextFrom(ref, tt.in)
			require.True(t, ok)
			assert.WithinDuration(t, ref.Add(-tt.want), got, time.Minute)
		})
	}
}

func TestParseRelativeText_UnknownInput(t *testing.T) {
	for _, in := range []string{"abc", "", "3", "hier"} {
		_, ok := ParseRelativeText(in)
		assert.False(t, ok, "input %q should yield an unknown date", in)
	}
}

func TestParseRelativeText_RelativeToNow(t *testing.T) {
	got, ok := ParseRelativeText("2 j")

	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(-48*time.Hour), got, time.Minute)
}

func TestCutoff_DefaultsToSevenDays(t *testing.T) {
	ref := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	week := ref.Add(-7 * 24 * time.Hour)

	assert.Equal(t, week, CutoffFrom(ref, 0))
	assert.Equal(t, week, CutoffFrom(ref, math.NaN()))
	assert.Equal(t, week, CutoffFrom(ref, math.Inf(1)))
	assert.Equal(t, ref.Add(-30*24*time.Hour), CutoffFrom(ref, 30))
}

func TestToISODate(t *testing.T) {
	assert.Equal(t, "2024-01-01", ToISODate("Mon, 01 Jan 2024 12:00:00 +0000"))
	assert.Equal(t, "2024-03-05", ToISODate("2024-03-05T23:00:00Z"))
	assert.Equal(t, "2024-01-01", ToISODate(int64(1704067200000)))
	assert.Equal(t, "2024-01-01", ToISODate(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)))
}

func TestToISODate_InvalidInputFallsBackToToday(t *testing.T) {
	today := time.Now().UTC().Format("2006-01-02")

	assert.Equal(t, today, ToISODate("not a date"))
	assert.Equal(t, today, ToISODate(nil))
	assert.Equal(t, today, ToISODate(struct{}{}))
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, ToISODate("garbage"))
}
