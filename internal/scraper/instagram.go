package scraper

import (
	"context"
	"strconv"
	"time"

	"github.com/gauthierbraillon/rivalfeed/internal/content"
	"github.com/gauthierbraillon/rivalfeed/internal/parseutil"
)

const (
	instagramActor    = "apify~instagram-scraper"
	instagramMaxLimit = 50
)

type instagramInput struct {
	DirectURLs   []string `json:"directUrls"`
	ResultsType  string   `json:"resultsType"`
	ResultsLimit int      `json:"resultsLimit"`
}

// ScrapeInstagram returns the latest posts of an Instagram profile. An
// empty username yields no posts and no call.
func (c *Client) ScrapeInstagram(ctx context.Context, username string, limit int) ([]content.Item, error) {
	username = cleanUsername(username)
	if username == "" {
		return []content.Item{}, nil
	}

	records, err := c.RunActor(ctx, instagramActor, instagramInput{
		DirectURLs:   []string{"https://www.instagram.com/" + username + "/"},
		ResultsType:  "posts",
		ResultsLimit: clampLimit(limit, instagramMaxLimit),
	})
	if err != nil {
		return nil, err
	}

	items := make([]content.Item, 0, len(records))
	for i, rec := range records {
		items = append(items, instagramItem(rec, i))
	}
	return items, nil
}

func instagramItem(rec Record, index int) content.Item {
	id := rec.str("id", "shortCode")
	if id == "" {
		id = strconv.Itoa(index)
	}

	link := rec.str("url")
	if link == "" {
		if sc := rec.str("shortCode"); sc != "" {
			link = "https://www.instagram.com/p/" + sc + "/"
		} else {
			link = content.PlaceholderURL
		}
	}

	title := content.Truncate(rec.str("caption"), content.TitleMaxLen)
	if title == "" {
		title = content.Truncate(rec.str("url"), content.TitleMaxLen)
	}
	if title == "" {
		title = content.PlaceholderInstagram
	}

	var published any = time.Now()
	if v, ok := rec.first("timestamp", "takenAt", "createdAt"); ok {
		published = v
		if ms, ok := epochMillis(v); ok {
			published = ms
		}
	}

	metrics := content.Metrics{}
	metrics.Set(content.MetricLikes, firstCount(
		rec.count("likesCount"),
		rec.obj("edge_liked_by").count("count"),
	))
	metrics.Set(content.MetricComments, firstCount(
		rec.count("commentsCount"),
		rec.obj("edge_media_to_comment").count("count"),
	))

	return content.Normalize(
		"ig-"+id,
		content.TypeInstagram,
		title,
		link,
		content.Day(parseutil.ToISODate(published)),
		metrics,
	)
}

func firstCount(counts ...*int64) *int64 {
	for _, n := range counts {
		if n != nil {
			return n
		}
	}
	return nil
}
