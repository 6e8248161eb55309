// Package parseutil holds the lossy date and number parsers shared by every
// source fetcher.
package parseutil

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultDays is the recency window used when none is given.
const DefaultDays = 7

const dayLayout = "2006-01-02"

// now is swapped in tests.
var now = time.Now

// Cutoff returns the instant days*24h before now. Non-positive or
// non-finite values fall back to DefaultDays.
func Cutoff(days float64) time.Time {
	return CutoffFrom(now(), days)
}

// CutoffFrom is Cutoff relative to an explicit instant.
func CutoffFrom(ref time.Time, days float64) time.Time {
	if math.IsNaN(days) || math.IsInf(days, 0) || days <= 0 {
		days = DefaultDays
	}
	return ref.Add(-time.Duration(days * float64(24*time.Hour)))
}

// Today returns the current UTC day as YYYY-MM-DD.
func Today() string {
	return now().UTC().Format(dayLayout)
}

// FormatDay renders t as a UTC calendar day.
func FormatDay(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// dateLayouts are tried in order by ParseTime.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	dayLayout,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
}

// ParseTime parses a date-like value: time.Time, *time.Time, a string in
// one of the common feed/API layouts, a numeric string, or an integer or
// float epoch in milliseconds.
func ParseTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return *v, true
	case int:
		return time.UnixMilli(int64(v)), true
	case int64:
		return time.UnixMilli(v), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(v)), true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms), true
		}
	}
	return time.Time{}, false
}

// ToISODate renders any date-like value as YYYY-MM-DD. Unparsable input
// yields today's date so one bad timestamp never aborts a batch.
func ToISODate(value any) string {
	if t, ok := ParseTime(value); ok {
		return FormatDay(t)
	}
	return Today()
}

var (
	relativeNumber = regexp.MustCompile(`(\d+[.,]?\d*)`)

	// Order matters: the first matching unit wins.
	relativeUnits = []struct {
		pattern *regexp.Regexp
		days    float64
	}{
		{regexp.MustCompile(`\bans?\b|\byears?\b|\byrs?\b`), 365},
		{regexp.MustCompile(`\bmois\b|\bmonths?\b|\bmos?\b`), 30},
		{regexp.MustCompile(`\bsemaines?\b|\bweeks?\b|\bsem\b|\bw\b`), 7},
		{regexp.MustCompile(`\bjours?\b|\bdays?\b|\bj\b|\bd\b`), 1},
		{regexp.MustCompile(`\bheures?\b|\bhours?\b|\bhrs?\b|\bh\b`), 1.0 / 24},
		{regexp.MustCompile(`\bminutes?\b|\bmins?\b`), 1.0 / (24 * 60)},
	}
)

// ParseRelativeText turns human relative timestamps such as "2 j", "3 h",
// "4 min" or "2 weeks" into an absolute instant. It reports false when no
// number or no known unit is present; callers treat that as an unknown date.
func ParseRelativeText(text string) (time.Time, bool) {
	return ParseRelativeTextFrom(now(), text)
}

// ParseRelativeTextFrom is ParseRelativeText relative to an explicit instant.
func ParseRelativeTextFrom(ref time.Time, text string) (time.Time, bool) {
	s := strings.TrimSpace(strings.ToLower(strings.ReplaceAll(text, "\u00a0", " ")))
	if s == "" {
		return time.Time{}, false
	}
	m := relativeNumber.FindString(s)
	if m == "" {
		return time.Time{}, false
	}
	n, err := strconv.ParseFloat(strings.Replace(m, ",", ".", 1), 64)
	if err != nil {
		return time.Time{}, false
	}
	// Units are matched against the text with digits separated, so "3h"
	// reads the same as "3 h".
	spaced := digitLetter.ReplaceAllString(s, "$1 $2")
	for _, unit := range relativeUnits {
		if unit.pattern.MatchString(spaced) {
			days := n * unit.days
			if days == 0 {
				return time.Time{}, false
			}
			return ref.Add(-time.Duration(days * float64(24*time.Hour))), true
		}
	}
	return time.Time{}, false
}

var digitLetter = regexp.MustCompile(`(\d)([a-z])`)
