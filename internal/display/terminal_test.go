// Package display tests.
//
// Test requirements (this file serves as documentation):
// - User sees the item type, title, date and link for every item
// - User sees only the engagement counters that are known and non-zero
// - User sees "date unknown" instead of a guessed date
// - Placeholder links are never printed
// - Company profile header renders when LinkedIn found one
package display

import (
	"strings"
	"testing"
	"time"

	"github.com/gauthierbraillon/rivalfeed/internal/content"
	"github.com/gauthierbraillon/rivalfeed/internal/linkedin"
)

func fixedFormatter(now time.Time) *TerminalFormatter {
	return &TerminalFormatter{now: func() time.Time { return now }}
}

var refNow = time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

func TestAC500_TerminalFeed_ShowsTypeAndTitle(t *testing.T) {
	item := content.Normalize("yt-1", content.TypeYouTube, "How to Build CLI Tools in Go", "https://youtu.be/1", "2024-03-09", nil)

	output := fixedFormatter(refNow).FormatItem(item)

	if !strings.HasPrefix(output, "[YOUTUBE] How to Build CLI Tools in Go\n") {
		t.Errorf("user should see type and title on the first line, got:\n%s", output)
	}
	if !strings.Contains(output, "https://youtu.be/1") {
		t.Error("user should see the video URL")
	}
}

func TestAC501_TerminalFeed_ShowsKnownEngagementInOrder(t *testing.T) {
	item := content.Normalize("tt-1", content.TypeTikTok, "Office tour", "https://tiktok.example/1", "2024-03-09",
		content.Metrics{content.MetricLikes: 10, content.MetricViews: 300, content.MetricComments: 0})

	output := fixedFormatter(refNow).FormatItem(item)

	if !strings.Contains(output, "300 views • 10 likes") {
		t.Errorf("user should see views then likes, got:\n%s", output)
	}
	if strings.Contains(output, "comments") || strings.Contains(output, "shares") {
		t.Errorf("user should not see zero or unknown counters, got:\n%s", output)
	}
}

func TestAC502_TerminalFeed_ShowsRelativeDates(t *testing.T) {
	formatter := fixedFormatter(refNow)
	testCases := []struct {
		day  content.Day
		want string
	}{
		{"2024-03-10", "today"},
		{"2024-03-09", "yesterday"},
		{"2024-03-07", "3 days ago"},
		{"2024-02-01", "Feb 1, 2024"},
		{"", "date unknown"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.day), func(t *testing.T) {
			if got := formatter.FormatDate(tc.day); got != tc.want {
				t.Errorf("user should see %q, got %q", tc.want, got)
			}
		})
	}
}

func TestAC503_TerminalFeed_HidesPlaceholderLinks(t *testing.T) {
	item := content.Normalize("ig-1", content.TypeInstagram, content.PlaceholderInstagram, content.PlaceholderURL, "", nil)

	output := fixedFormatter(refNow).FormatItem(item)

	if strings.Contains(output, "#\n") {
		t.Errorf("user should not see a placeholder link, got:\n%s", output)
	}
	if !strings.Contains(output, "date unknown") {
		t.Error("user should see that the date is unknown")
	}
}

func TestAC504_TerminalFeed_TruncatesLongText(t *testing.T) {
	formatter := NewTerminalFormatter()
	longText := "This is a very long text that should be truncated because it exceeds the maximum length"

	truncated := formatter.TruncateText(longText, 20)

	if len([]rune(truncated)) != 20 {
		t.Errorf("user should see truncated text (20 chars), got %d chars", len([]rune(truncated)))
	}
	if !strings.HasSuffix(truncated, "...") {
		t.Error("user should see ellipsis indicating text was truncated")
	}
	if got := formatter.TruncateText("Short", 20); got != "Short" {
		t.Errorf("user should see full text when under limit, got: %s", got)
	}
}

func TestAC505_TerminalFeed_ShowsMultipleItems(t *testing.T) {
	items := []content.Item{
		content.Normalize("1", content.TypeBlog, "First Post", "https://blog.example/1", "2024-03-09", nil),
		content.Normalize("2", content.TypeLinkedIn, "Second Post", "https://www.linkedin.com/feed/update/urn:li:activity:1", "", nil),
	}

	output := fixedFormatter(refNow).FormatFeed(items)

	if !strings.Contains(output, "First Post") || !strings.Contains(output, "Second Post") {
		t.Error("user should see every item in the feed")
	}
	if strings.Count(output, "---") != 1 {
		t.Errorf("items should be separated once, got:\n%s", output)
	}
}

func TestAC506_TerminalFeed_ShowsEmptyFeedMessage(t *testing.T) {
	output := NewTerminalFormatter().FormatFeed(nil)

	if output != "No items to display.\n" {
		t.Errorf("user should see message indicating no content available, got %q", output)
	}
}

func TestAC507_TerminalFeed_ShowsCompanyHeader(t *testing.T) {
	employees := int64(120)
	company := &linkedin.Company{
		Name:      "Acme Corp",
		Tagline:   "We make anvils",
		Locality:  "Paris",
		Country:   "FR",
		Employees: &employees,
		URL:       "https://www.linkedin.com/company/acme-corp",
	}

	output := NewTerminalFormatter().FormatCompany(company)

	for _, want := range []string{"Acme Corp", "We make anvils", "Paris, FR • 120 employees"} {
		if !strings.Contains(output, want) {
			t.Errorf("user should see %q in company header, got:\n%s", want, output)
		}
	}
	if got := NewTerminalFormatter().FormatCompany(nil); got != "" {
		t.Errorf("missing profile should render nothing, got %q", got)
	}
}
