package content

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Normalize builds an Item from its logical fields. Metrics default to an
// empty map; every other field is passed through unchanged.
func Normalize(id string, typ Type, title, url string, date Day, metrics Metrics) Item {
	if metrics == nil {
		metrics = Metrics{}
	}
	return Item{
		ID:      id,
		Type:    typ,
		Title:   title,
		URL:     url,
		Date:    date,
		Metrics: metrics,
	}
}

// Truncate cuts s to at most n characters.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// FirstLine returns the first line of s, trimmed.
func FirstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// CardTitle derives a bounded display title from free text, falling back to
// placeholder when the text has no usable first line.
func CardTitle(text, placeholder string) string {
	if line := Truncate(FirstLine(text), TitleMaxLen); line != "" {
		return line
	}
	return placeholder
}

// SortByDateDesc orders items newest first. Unknown dates sort after known
// ones; the sort is stable so equal dates keep their input order.
func SortByDateDesc(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return Newer(items[i].Date, items[j].Date)
	})
}

// Newer reports whether a sorts strictly before b in newest-first order.
func Newer(a, b Day) bool {
	switch {
	case a.Known() && b.Known():
		return a > b
	case a.Known():
		return true
	default:
		return false
	}
}
