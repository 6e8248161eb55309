package parseutil

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// A multiplier is a k or m right after a digit or whitespace and not
	// followed by another letter: "1.2k", "1,2 k", "2M".
	multiplierSuffix = regexp.MustCompile(`[\d\s]([km])\b`)
	numericNoise     = regexp.MustCompile(`[^\d.,]`)
	firstNumber      = regexp.MustCompile(`\d[\d.,]*`)
)

// ParseAbbreviatedNumber parses locale-formatted engagement counts such as
// "1 234", "1.2k", "1,2 k" or "2M". It never fails: unparsable input is 0.
func ParseAbbreviatedNumber(text string) int64 {
	s := strings.ToLower(strings.ReplaceAll(text, "\u00a0", " "))
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	multiplier := 1.0
	if m := multiplierSuffix.FindStringSubmatch(s); m != nil {
		switch m[1] {
		case "k":
			multiplier = 1_000
		case "m":
			multiplier = 1_000_000
		}
	}

	// Whitespace between digit groups ("1 234") is a thousands separator,
	// so it goes with the rest of the noise.
	digits := firstNumber.FindString(numericNoise.ReplaceAllString(s, ""))
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseFloat(normalizeSeparators(digits, multiplier > 1), 64)
	if err != nil || math.IsNaN(n) {
		return 0
	}
	return int64(math.Round(n * multiplier))
}

// normalizeSeparators rewrites a digit string into Go float syntax. When
// several separators appear, all but the last are thousands separators. A
// single separator followed by exactly three digits is a thousands
// separator unless the value carries a k/m multiplier.
func normalizeSeparators(s string, scaled bool) string {
	s = strings.Trim(s, ".,")
	last := strings.LastIndexAny(s, ".,")
	if last < 0 {
		return s
	}
	intPart := strings.NewReplacer(".", "", ",", "").Replace(s[:last])
	frac := s[last+1:]
	single := strings.IndexAny(s, ".,") == last
	if single && len(frac) == 3 && !scaled {
		return intPart + frac
	}
	if !single && len(frac) == 3 && s[last] == s[strings.IndexAny(s, ".,")] {
		// "1.234.567" / "1,234,567": every separator groups thousands.
		return intPart + frac
	}
	return intPart + "." + frac
}
