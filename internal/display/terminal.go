// Package display provides terminal output formatting for rivalfeed.
package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/gauthierbraillon/rivalfeed/internal/content"
	"github.com/gauthierbraillon/rivalfeed/internal/linkedin"
)

const (
	separator   = " • "
	dayLayout   = "2006-01-02"
	unknownDate = "date unknown"
)

// metricOrder is the display order of engagement counters.
var metricOrder = []struct {
	key  string
	unit string
}{
	{content.MetricViews, "views"},
	{content.MetricLikes, "likes"},
	{content.MetricComments, "comments"},
	{content.MetricShares, "shares"},
}

// TerminalFormatter formats content items for terminal display.
type TerminalFormatter struct {
	now func() time.Time
}

// NewTerminalFormatter creates a new terminal formatter.
func NewTerminalFormatter() *TerminalFormatter {
	return &TerminalFormatter{now: time.Now}
}

// FormatItem formats a single content item for display.
func (f *TerminalFormatter) FormatItem(item content.Item) string {
	var lines []string

	// Header: [TYPE] Title
	lines = append(lines, fmt.Sprintf("[%s] %s", strings.ToUpper(string(item.Type)), item.Title))

	lines = append(lines, "  "+f.FormatDate(item.Date))

	if engagement := f.formatEngagement(item.Metrics); engagement != "" {
		lines = append(lines, "  "+engagement)
	}

	if item.URL != "" && item.URL != content.PlaceholderURL {
		lines = append(lines, "  "+item.URL)
	}

	return strings.Join(lines, "\n") + "\n"
}

// formatEngagement lists the non-zero counters on one line.
func (f *TerminalFormatter) formatEngagement(m content.Metrics) string {
	var parts []string
	for _, metric := range metricOrder {
		if v, ok := m[metric.key]; ok && v > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", v, metric.unit))
		}
	}
	return strings.Join(parts, separator)
}

// FormatFeed formats multiple content items for display.
func (f *TerminalFormatter) FormatFeed(items []content.Item) string {
	if len(items) == 0 {
		return "No items to display.\n"
	}

	var formatted []string
	for _, item := range items {
		formatted = append(formatted, f.FormatItem(item))
	}

	return strings.Join(formatted, "\n---\n\n")
}

// FormatCompany formats a LinkedIn company profile as a short header. A
// nil profile renders as nothing.
func (f *TerminalFormatter) FormatCompany(c *linkedin.Company) string {
	if c == nil || c.Name == "" {
		return ""
	}

	lines := []string{c.Name}
	if c.Tagline != "" {
		lines = append(lines, "  "+c.Tagline)
	}

	var facts []string
	if place := strings.Trim(c.Locality+", "+c.Country, ", "); place != "" {
		facts = append(facts, place)
	}
	if c.Employees != nil {
		facts = append(facts, fmt.Sprintf("%d employees", *c.Employees))
	}
	if c.Site != "" {
		facts = append(facts, c.Site)
	}
	if len(facts) > 0 {
		lines = append(lines, "  "+strings.Join(facts, separator))
	}
	if c.URL != "" {
		lines = append(lines, "  "+c.URL)
	}

	return strings.Join(lines, "\n") + "\n"
}

// FormatDate formats a publication day relative to today.
func (f *TerminalFormatter) FormatDate(d content.Day) string {
	if !d.Known() {
		return unknownDate
	}
	day, err := time.Parse(dayLayout, string(d))
	if err != nil {
		return string(d)
	}
	today, _ := time.Parse(dayLayout, f.now().UTC().Format(dayLayout))
	diff := int(today.Sub(day).Hours() / 24)

	switch {
	case diff <= 0:
		return "today"
	case diff == 1:
		return "yesterday"
	case diff < 7:
		return fmt.Sprintf("%d days ago", diff)
	default:
		return day.Format("Jan 2, 2006")
	}
}

// TruncateText truncates text to maxLen runes, adding "..." if truncated.
func (f *TerminalFormatter) TruncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}
