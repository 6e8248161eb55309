// Package youtube provides a client for the YouTube Data API v3.
//
// This package enables rivalfeed to:
// - Resolve a channel id, @handle or free-text name to a channel
// - Search a channel's (or the whole site's) videos published in a window
// - Fetch view, like and comment counts for those videos in one batch
// - Map the result to YouTube content items
package youtube

import (
	"errors"
	"time"

	"github.com/gauthierbraillon/rivalfeed/internal/content"
	"github.com/gauthierbraillon/rivalfeed/internal/parseutil"
)

const (
	// DefaultLimit is the number of videos returned when the caller asks for none.
	DefaultLimit = 12
	// MaxLimit is the API's page size ceiling.
	MaxLimit = 50
)

// ErrMissingAPIKey is returned before any network call when no API key is
// configured.
var ErrMissingAPIKey = errors.New("YouTube API key is not configured (set YT_API_KEY)")

// Query selects the videos to fetch. Channel wins over Q; Q alone is first
// tried as a channel name, then as a plain video search.
type Query struct {
	Channel string
	Q       string
	Days    float64
	Limit   int
}

// Video represents a YouTube video with its public statistics. A nil
// counter means the API did not report it.
type Video struct {
	ID           string
	Title        string
	ChannelID    string
	PublishedAt  string
	ViewCount    *int64
	LikeCount    *int64
	CommentCount *int64
}

// URL is the short share link of the video.
func (v Video) URL() string {
	return "https://youtu.be/" + v.ID
}

// Item maps the video to a content item.
func (v Video) Item() content.Item {
	title := content.Truncate(v.Title, content.TitleMaxLen)
	if title == "" {
		title = content.PlaceholderYouTube
	}
	var published any = v.PublishedAt
	if v.PublishedAt == "" {
		published = time.Now()
	}
	metrics := content.Metrics{}
	metrics.Set(content.MetricViews, v.ViewCount)
	metrics.Set(content.MetricLikes, v.LikeCount)
	metrics.Set(content.MetricComments, v.CommentCount)
	return content.Normalize(
		"yt-"+v.ID,
		content.TypeYouTube,
		title,
		v.URL(),
		content.Day(parseutil.ToISODate(published)),
		metrics,
	)
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}
