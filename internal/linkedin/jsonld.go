package linkedin

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/gauthierbraillon/rivalfeed/internal/content"
	"github.com/gauthierbraillon/rivalfeed/internal/parseutil"
)

const (
	typeOrganization = "Organization"
	typePosting      = "DiscussionForumPosting"
)

// jsonObject is one loosely-typed JSON-LD record. Upstream shape is never
// trusted: every accessor takes the first field that is present and of a
// usable type.
type jsonObject map[string]any

// parseJSONLD flattens every ld+json block on the page into one record
// list. A block may hold a record, an array of records, or a graph
// container. Invalid blocks are skipped.
func parseJSONLD(doc *goquery.Document) []jsonObject {
	var records []jsonObject
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		txt := strings.TrimSpace(s.Text())
		if txt == "" {
			return
		}
		var raw any
		if err := json.Unmarshal([]byte(txt), &raw); err != nil {
			return
		}
		records = append(records, flatten(raw)...)
	})
	return records
}

func flatten(raw any) []jsonObject {
	switch v := raw.(type) {
	case []any:
		var out []jsonObject
		for _, e := range v {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case map[string]any:
		if graph, ok := v["@graph"].([]any); ok {
			return flatten(graph)
		}
		return []jsonObject{v}
	}
	return nil
}

// hasType reports whether the record's @type is (or contains) typ.
func (o jsonObject) hasType(typ string) bool {
	switch v := o["@type"].(type) {
	case string:
		return v == typ
	case []any:
		for _, e := range v {
			if s, ok := e.(string); ok && s == typ {
				return true
			}
		}
	}
	return false
}

// str returns the first key holding a non-empty string. Arrays yield their
// first string element.
func (o jsonObject) str(keys ...string) string {
	for _, k := range keys {
		switch v := o[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case []any:
			for _, e := range v {
				if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
					return strings.TrimSpace(s)
				}
			}
		}
	}
	return ""
}

func (o jsonObject) obj(key string) jsonObject {
	if m, ok := o[key].(map[string]any); ok {
		return m
	}
	return jsonObject{}
}

// num reads a JSON number or a numeric string.
func (o jsonObject) num(key string) (int64, bool) {
	switch v := o[key].(type) {
	case float64:
		return int64(v), true
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// extractCompany maps the first Organization record to a Company.
func extractCompany(records []jsonObject, pageURL string) *Company {
	for _, rec := range records {
		if !rec.hasType(typeOrganization) {
			continue
		}
		address := rec.obj("address")
		c := &Company{
			Name:        rec.str("name"),
			Tagline:     rec.str("slogan"),
			Site:        rec.str("sameAs"),
			Locality:    address.str("addressLocality"),
			Country:     address.str("addressCountry"),
			Description: rec.str("description"),
			URL:         NormalizeURL(pageURL),
		}
		if n, ok := rec.obj("numberOfEmployees").num("value"); ok {
			c.Employees = &n
		}
		c.Logo = rec.obj("logo").str("contentUrl", "url")
		if c.Logo == "" {
			c.Logo = rec.str("logo")
		}
		return c
	}
	return nil
}

// interactionMetrics maps schema.org interactionStatistic entries to
// engagement counters.
var interactionMetrics = map[string]string{
	"LikeAction":    content.MetricLikes,
	"CommentAction": content.MetricComments,
	"ShareAction":   content.MetricShares,
	"WatchAction":   content.MetricViews,
}

func extractInteractions(rec jsonObject) content.Metrics {
	metrics := content.Metrics{}
	var stats []any
	switch v := rec["interactionStatistic"].(type) {
	case []any:
		stats = v
	case map[string]any:
		stats = []any{v}
	}
	for _, raw := range stats {
		stat, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		s := jsonObject(stat)
		kind := s.str("interactionType")
		if kind == "" {
			kind = s.obj("interactionType").str("@type")
		}
		for suffix, key := range interactionMetrics {
			if strings.HasSuffix(kind, suffix) {
				if n, ok := s.num("userInteractionCount"); ok {
					metrics[key] = n
				}
			}
		}
	}
	return metrics
}

// extractPostings maps DiscussionForumPosting records to candidates. The
// identity seed is the activity id parsed from the record URL, else a hash
// of url|datePublished. Records dated before cutoff are dropped.
func extractPostings(records []jsonObject, pageURL string, cutoff time.Time) []candidate {
	var out []candidate
	for _, rec := range records {
		if !rec.hasType(typePosting) {
			continue
		}
		link := NormalizeURL(rec.str("url", "@id", "mainEntityOfPage"))
		if link == "" {
			link = NormalizeURL(pageURL)
		}
		published := rec.str("datePublished", "dateCreated")

		activityID := ActivityIDFromURL(link)
		id := itemID(activityID, link+"|"+published)

		at, known := parseutil.ParseTime(published)
		if known && at.Before(cutoff) {
			continue
		}
		var day content.Day
		if known {
			day = content.Day(parseutil.FormatDay(at))
		} else {
			// A posting with no usable date is treated as published now.
			at = time.Now()
			day = content.Day(parseutil.ToISODate(published))
		}

		out = append(out, candidate{
			item: content.Normalize(
				id,
				content.TypeLinkedIn,
				content.CardTitle(rec.str("text", "articleBody", "headline"), content.PlaceholderLinkedIn),
				link,
				day,
				extractInteractions(rec),
			),
			activityID: activityID,
			at:         at,
		})
	}
	return out
}

// itemID derives a stable item id: the activity id when known, otherwise a
// truncated sha256 of seed.
func itemID(activityID, seed string) string {
	if activityID != "" {
		return "li-" + activityID
	}
	sum := sha256.Sum256([]byte(seed))
	return "li-" + hex.EncodeToString(sum[:])[:16]
}
