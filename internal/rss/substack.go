package rss

import (
	"net/url"
	"strings"
)

const (
	substackProfilePrefix = "https://substack.com/@"
	substackHostSuffix    = ".substack.com"
)

// ResolveFeedURL turns Substack addresses into their feed URL. A profile
// URL such as https://substack.com/@username becomes
// https://username.substack.com/feed, and a bare publication URL gets /feed
// appended. Every other URL is returned unchanged.
func ResolveFeedURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, substackProfilePrefix) {
		username := strings.Trim(strings.TrimPrefix(raw, substackProfilePrefix), "/")
		if i := strings.IndexAny(username, "/?#"); i >= 0 {
			username = username[:i]
		}
		if username != "" {
			return "https://" + username + substackHostSuffix + "/feed"
		}
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil || !strings.HasSuffix(strings.ToLower(u.Hostname()), substackHostSuffix) {
		return raw
	}
	if u.Path == "" || u.Path == "/" {
		return strings.TrimRight(raw, "/") + "/feed"
	}
	return raw
}
