package linkedin

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/gauthierbraillon/rivalfeed/internal/content"
	"github.com/gauthierbraillon/rivalfeed/internal/parseutil"
)

const (
	cardSelector       = `article[data-id="main-feed-card"], [data-test-id="main-feed-activity-card"]`
	commentarySelector = `[data-test-id="main-feed-activity-card__commentary"]`
	overlayLinkSel     = `a.main-feed-card__overlay-link`
	postLinkSel        = `a[href*="/posts/"], a[href*="activity-"], a[href*="/feed/update/"]`
)

var (
	urnAttrs   = []string{"data-activity-urn", "data-featured-activity-urn", "data-attributed-urn"}
	countInTxt = regexp.MustCompile(`(\d[\d\s.,\x{00a0}]*(?:[kKmM]\b)?)`)
)

// countStrategy reads one engagement counter from a card, reporting false
// when its markup is absent.
type countStrategy func(card *goquery.Selection) (int64, bool)

// Counter strategies are evaluated in order until one succeeds: numeric
// data attribute, rendered count element, accessibility label. A counter
// nobody can read is 0.
var (
	likeStrategies = []countStrategy{
		fromAttr(`[data-test-id="social-actions__reactions"]`, "data-num-reactions"),
		fromText(`[data-test-id="social-actions__reaction-count"]`),
		fromAriaLabel(`[data-test-id="social-actions__reactions"]`),
	}
	commentStrategies = []countStrategy{
		fromAttr(`[data-test-id="social-actions__comments"]`, "data-num-comments"),
		fromText(`.social-details-social-counts__comments`),
		fromAriaLabel(`[data-test-id="social-actions__comments"]`),
	}
)

func fromAttr(selector, attr string) countStrategy {
	return func(card *goquery.Selection) (int64, bool) {
		v, ok := card.Find(selector).First().Attr(attr)
		if !ok || strings.TrimSpace(v) == "" {
			return 0, false
		}
		return parseutil.ParseAbbreviatedNumber(v), true
	}
}

func fromText(selector string) countStrategy {
	return func(card *goquery.Selection) (int64, bool) {
		sel := card.Find(selector).First()
		if sel.Length() == 0 {
			return 0, false
		}
		return parseCount(sel.Text())
	}
}

func fromAriaLabel(selector string) countStrategy {
	return func(card *goquery.Selection) (int64, bool) {
		label, ok := card.Find(selector).First().Attr("aria-label")
		if !ok {
			return 0, false
		}
		return parseCount(label)
	}
}

func parseCount(text string) (int64, bool) {
	m := countInTxt.FindString(text)
	if m == "" {
		return 0, false
	}
	return parseutil.ParseAbbreviatedNumber(m), true
}

func readCount(card *goquery.Selection, strategies []countStrategy) int64 {
	for _, s := range strategies {
		if n, ok := s(card); ok {
			return n
		}
	}
	return 0
}

// extractCards maps rendered post cards to candidates. A card is dropped
// only when its date is known and before cutoff; unknown dates are kept.
func extractCards(doc *goquery.Document, cutoff time.Time) []candidate {
	var out []candidate
	doc.Find(cardSelector).Each(func(i int, card *goquery.Selection) {
		text := strings.TrimSpace(card.Find(commentarySelector).First().Text())

		urn := cardURN(card)
		link := cardLink(card, urn)
		activityID := ActivityIDFromURN(urn)
		if activityID == "" {
			activityID = ActivityIDFromURL(link)
		}

		at, known := cardTime(card)
		if known && at.Before(cutoff) {
			return
		}
		var day content.Day
		if known {
			day = content.Day(parseutil.FormatDay(at))
		}

		out = append(out, candidate{
			item: content.Normalize(
				itemID(activityID, cardSeed(link, text, i)),
				content.TypeLinkedIn,
				content.CardTitle(text, content.PlaceholderLinkedIn),
				orPlaceholder(link),
				day,
				content.Metrics{
					content.MetricLikes:    readCount(card, likeStrategies),
					content.MetricComments: readCount(card, commentStrategies),
				},
			),
			activityID: activityID,
			at:         at,
		})
	})
	return out
}

// cardSeed is the identity seed of a card with no activity id: its link,
// else its text, else its position on the page.
func cardSeed(link, text string, index int) string {
	switch {
	case link != "":
		return link
	case text != "":
		return text
	default:
		return strconv.Itoa(index)
	}
}

func orPlaceholder(link string) string {
	if link == "" {
		return content.PlaceholderURL
	}
	return link
}

func cardURN(card *goquery.Selection) string {
	for _, attr := range urnAttrs {
		if v, ok := card.Attr(attr); ok && v != "" {
			return v
		}
		if v, ok := card.Find("[" + attr + "]").First().Attr(attr); ok && v != "" {
			return v
		}
	}
	return ""
}

// cardLink resolves the post URL: overlay link, then any post-like link,
// then a URL synthesized from the activity URN.
func cardLink(card *goquery.Selection, urn string) string {
	for _, sel := range []string{overlayLinkSel, postLinkSel} {
		if href, ok := card.Find(sel).First().Attr("href"); ok && strings.TrimSpace(href) != "" {
			return NormalizeURL(href)
		}
	}
	return URNToURL(urn)
}

// cardTime prefers the machine-readable timestamp and falls back to the
// relative text ("2 j", "3h"). A timestamp on any <time> in the card wins over
// the first one's text.
func cardTime(card *goquery.Selection) (time.Time, bool) {
	if dt, ok := card.Find("time[datetime]").First().Attr("datetime"); ok {
		if t, ok := parseutil.ParseTime(dt); ok {
			return t, true
		}
	}
	el := card.Find("time").First()
	if el.Length() == 0 {
		return time.Time{}, false
	}
	return parseutil.ParseRelativeText(el.Text())
}
