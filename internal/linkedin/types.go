// Package linkedin collects recent posts from a company's public LinkedIn
// page without API access.
//
// A public company page carries the same posts twice: as embedded JSON-LD
// (DiscussionForumPosting records, usually without engagement counts) and
// as rendered feed cards (with counts, often with relative timestamps).
// This package extracts both, keys every candidate by its activity id when
// one is known, and keeps the richer record of each duplicate pair.
//
// This package enables rivalfeed to:
// - Read the company profile (Organization record) from the page
// - Extract posts from both representations and reconcile them
// - Resolve a free-text company name to a profile URL by probing slugs
package linkedin

import (
	"time"

	"github.com/gauthierbraillon/rivalfeed/internal/content"
)

// Company is the profile declared in the page's Organization record.
type Company struct {
	Name        string `json:"name,omitempty"`
	Tagline     string `json:"slogan,omitempty"`
	Site        string `json:"site,omitempty"`
	Employees   *int64 `json:"employees,omitempty"`
	Locality    string `json:"locality,omitempty"`
	Country     string `json:"country,omitempty"`
	Logo        string `json:"logo,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Result is the outcome of one page fetch. Company is nil when the page
// declares no Organization; Items is never nil.
type Result struct {
	Company *Company       `json:"company"`
	Items   []content.Item `json:"items"`
}

// emptyResult is what every failure degrades to.
func emptyResult() Result {
	return Result{Items: []content.Item{}}
}

// candidate is a pre-dedup item. activityID only feeds CanonicalKey and
// never reaches the returned content.Item.
type candidate struct {
	item       content.Item
	activityID string
	// at is the resolved publication instant; zero when unknown.
	at time.Time
}
