// Package content defines the normalized item shape every source produces.
//
// This package enables rivalfeed to:
// - Represent posts, videos and articles from any upstream uniformly
// - Keep "unknown" engagement distinct from "zero" engagement
// - Carry day-granularity publication dates that may be unknown
package content

import (
	"bytes"
	"encoding/json"
)

// Type identifies the origin platform of an item.
type Type string

const (
	TypeBlog      Type = "Blog"
	TypeLinkedIn  Type = "LinkedIn"
	TypeInstagram Type = "Instagram"
	TypeTikTok    Type = "TikTok"
	TypeYouTube   Type = "YouTube"
)

// Valid reports whether t is one of the known item types.
func (t Type) Valid() bool {
	switch t {
	case TypeBlog, TypeLinkedIn, TypeInstagram, TypeTikTok, TypeYouTube:
		return true
	}
	return false
}

// Metric keys.
const (
	MetricLikes    = "likes"
	MetricComments = "comments"
	MetricShares   = "shares"
	MetricViews    = "views"
)

// Metrics holds engagement counters. A missing key means the counter is
// unknown; it is never coerced to zero.
type Metrics map[string]int64

// HasAny reports whether at least one known counter is non-zero.
func (m Metrics) HasAny() bool {
	for _, v := range m {
		if v > 0 {
			return true
		}
	}
	return false
}

// Set stores v under key when v is non-nil.
func (m Metrics) Set(key string, v *int64) {
	if v != nil {
		m[key] = *v
	}
}

// Day is an ISO calendar date (YYYY-MM-DD). The empty Day means the
// publication date is unknown and encodes as JSON null.
type Day string

// Known reports whether the date is set.
func (d Day) Known() bool { return d != "" }

// MarshalJSON encodes an unknown day as null.
func (d Day) MarshalJSON() ([]byte, error) {
	if d == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

// UnmarshalJSON accepts null or a date string.
func (d *Day) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*d = Day(s)
	return nil
}

// Item is one normalized piece of external activity.
type Item struct {
	ID      string  `json:"id"`
	Type    Type    `json:"type"`
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Date    Day     `json:"date"`
	Metrics Metrics `json:"metrics"`
}

// Placeholders used when an upstream omits a title or link.
const (
	PlaceholderURL       = "#"
	PlaceholderBlog      = "(sans titre)"
	PlaceholderLinkedIn  = "Post LinkedIn"
	PlaceholderYouTube   = "Vidéo YouTube"
	PlaceholderInstagram = "Post Instagram"
	PlaceholderTikTok    = "Post TikTok"
)

// TitleMaxLen bounds card titles, in characters.
const TitleMaxLen = 120
