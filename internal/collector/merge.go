package collector

import (
	"net/url"
	"strings"

	"github.com/gauthierbraillon/rivalfeed/internal/content"
	"github.com/gauthierbraillon/rivalfeed/internal/linkedin"
)

// Merge concatenates lists, orders them newest first (unknown dates last,
// stable) and drops duplicates. The first item per key wins, so the most
// recent copy of a duplicated post is kept.
func Merge(lists ...[]content.Item) []content.Item {
	var all []content.Item
	for _, l := range lists {
		all = append(all, l...)
	}
	content.SortByDateDesc(all)
	return Dedup(all)
}

// Dedup keeps the first item per DedupKey and per id, preserving order.
func Dedup(items []content.Item) []content.Item {
	out := make([]content.Item, 0, len(items))
	seenKeys := make(map[string]bool, len(items))
	seenIDs := make(map[string]bool, len(items))
	for _, item := range items {
		key := DedupKey(item)
		if seenKeys[key] || (item.ID != "" && seenIDs[item.ID]) {
			continue
		}
		seenKeys[key] = true
		seenIDs[item.ID] = true
		out = append(out, item)
	}
	return out
}

// DedupKey is the cross-source identity of an item. LinkedIn items use the
// activity-aware canonical key; everything else is "<type>:<url>" with the
// URL normalized, or "<type>:<id>" when the item has no real link.
func DedupKey(item content.Item) string {
	if item.Type == content.TypeLinkedIn {
		return linkedin.CanonicalKey(item, "")
	}
	if item.URL != "" && item.URL != content.PlaceholderURL {
		return string(item.Type) + ":" + normalizeURL(item.URL)
	}
	return string(item.Type) + ":" + item.ID
}

func normalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" && u.Host != "" {
		u.Path = "/"
	}
	return u.String()
}
