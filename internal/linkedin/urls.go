package linkedin

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/gauthierbraillon/rivalfeed/internal/content"
)

// CanonicalHost is the host every regional LinkedIn URL is rewritten to.
const CanonicalHost = "www.linkedin.com"

// DefaultBaseURL is where company slugs expand when no other base is set.
const DefaultBaseURL = "https://" + CanonicalHost

// CompanyURL expands a company slug on base.
func CompanyURL(base, slug string) string {
	return strings.TrimRight(base, "/") + "/company/" + strings.TrimSpace(slug)
}

var (
	activityInURL = regexp.MustCompile(`activity[:-](\d{8,})`)
	activityInURN = regexp.MustCompile(`activity:(\d{8,})`)

	trackingParams = []string{"trk", "trackingId", "originalSubdomain", "lipi", "refId"}
)

// NormalizeURL rewrites regional LinkedIn subdomains to the canonical host,
// drops tracking query parameters and removes a trailing slash. Relative
// links resolve against the canonical host. Unparsable input is returned
// unchanged; empty input yields "".
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	base := &url.URL{Scheme: "https", Host: CanonicalHost}
	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u := base.ResolveReference(ref)

	if isLinkedInHost(u.Hostname()) {
		u.Host = CanonicalHost
		u.Scheme = "https"
	}

	q := u.Query()
	for key := range q {
		if strings.HasPrefix(key, "utm_") {
			q.Del(key)
		}
	}
	for _, key := range trackingParams {
		q.Del(key)
	}
	u.RawQuery = q.Encode()
	u.Fragment = ""

	if len(u.Path) > 1 && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimRight(u.Path, "/")
		u.RawPath = ""
	}
	return u.String()
}

func isLinkedInHost(host string) bool {
	host = strings.ToLower(host)
	return host == "linkedin.com" || strings.HasSuffix(host, ".linkedin.com")
}

// ActivityIDFromURL extracts the numeric activity id from a post URL, in
// either "activity:<id>" (URN form, possibly percent-encoded) or
// "activity-<id>" (slug form).
func ActivityIDFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	s := raw
	if decoded, err := url.PathUnescape(raw); err == nil {
		s = decoded
	}
	if m := activityInURL.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

// ActivityIDFromURN extracts the id from "urn:li:activity:<id>".
func ActivityIDFromURN(urn string) string {
	if urn == "" {
		return ""
	}
	s := urn
	if decoded, err := url.PathUnescape(urn); err == nil {
		s = decoded
	}
	if m := activityInURN.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

// URNToURL synthesizes a feed-update URL from an activity URN.
func URNToURL(urn string) string {
	if urn == "" {
		return ""
	}
	return "https://" + CanonicalHost + "/feed/update/" + url.QueryEscape(urn)
}

// CanonicalKey is the dedup identity of a LinkedIn item, in priority order:
// the activity id (given, or parsed from the URL), the normalized URL, then
// the item id. The activity id is the only identifier stable across the
// structured-metadata and rendered-card representations of one post.
func CanonicalKey(item content.Item, activityID string) string {
	if activityID == "" {
		activityID = ActivityIDFromURL(item.URL)
	}
	if activityID != "" {
		return "activity:" + activityID
	}
	if item.URL != "" && item.URL != content.PlaceholderURL {
		if norm := NormalizeURL(item.URL); norm != "" {
			return "url:" + norm
		}
	}
	return "id:" + item.ID
}
