package collector

import (
	"context"
	"errors"

	"github.com/gauthierbraillon/rivalfeed/internal/content"
	"github.com/gauthierbraillon/rivalfeed/internal/linkedin"
	"github.com/gauthierbraillon/rivalfeed/internal/logger"
	"github.com/gauthierbraillon/rivalfeed/internal/parseutil"
	"github.com/gauthierbraillon/rivalfeed/internal/scraper"
	"github.com/gauthierbraillon/rivalfeed/internal/youtube"
)

// LinkedInLimit is the fixed number of posts asked from LinkedIn per
// collection, independent of the request limit.
const LinkedInLimit = 20

// LinkedInFetcher resolves a company name or URL to its page content.
type LinkedInFetcher interface {
	Fetch(ctx context.Context, nameOrURL string, days float64, limit int) linkedin.Result
}

// RSSFetcher reads recent entries from a list of feeds.
type RSSFetcher interface {
	FetchPosts(ctx context.Context, feeds []string, days float64) []content.Item
}

// VideoFetcher searches a video platform.
type VideoFetcher interface {
	FetchVideos(ctx context.Context, q youtube.Query) ([]content.Item, error)
}

// InstagramScraper scrapes an Instagram profile.
type InstagramScraper interface {
	ScrapeInstagram(ctx context.Context, username string, limit int) ([]content.Item, error)
}

// TikTokScraper scrapes a TikTok profile.
type TikTokScraper interface {
	ScrapeTikTok(ctx context.Context, username string, limit int) ([]content.Item, error)
}

// LinkedInSource asks LinkedIn for the raw target name.
func LinkedInSource(f LinkedInFetcher) SourceFunc {
	return func(ctx context.Context, t Target) []content.Item {
		return f.Fetch(ctx, t.Name, t.Days, LinkedInLimit).Items
	}
}

// RSSSource reads the target's preset feeds.
func RSSSource(f RSSFetcher) SourceFunc {
	return func(ctx context.Context, t Target) []content.Item {
		return f.FetchPosts(ctx, t.Preset.RSS, t.Days)
	}
}

// YouTubeSource searches the preset channel, or the raw name as a channel
// then as a query when the target has no preset channel.
func YouTubeSource(f VideoFetcher, log logger.Logger) SourceFunc {
	return func(ctx context.Context, t Target) []content.Item {
		q := youtube.Query{Channel: t.Preset.YouTube, Days: t.Days, Limit: t.Limit}
		if q.Channel == "" {
			q.Channel = t.Name
			q.Q = t.Name
		}
		items, err := f.FetchVideos(ctx, q)
		return recovered(log, "youtube", t.Name, items, err)
	}
}

// InstagramSource scrapes the preset username, or the name as a handle.
// Posts older than the window are dropped.
func InstagramSource(f InstagramScraper, log logger.Logger) SourceFunc {
	return func(ctx context.Context, t Target) []content.Item {
		items, err := f.ScrapeInstagram(ctx, handle(t.Preset.Instagram, t.Name), t.Limit)
		return withinWindow(recovered(log, "instagram", t.Name, items, err), t.Days)
	}
}

// TikTokSource scrapes the preset username, or the name as a handle.
// Videos older than the window are dropped.
func TikTokSource(f TikTokScraper, log logger.Logger) SourceFunc {
	return func(ctx context.Context, t Target) []content.Item {
		items, err := f.ScrapeTikTok(ctx, handle(t.Preset.TikTok, t.Name), t.Limit)
		return withinWindow(recovered(log, "tiktok", t.Name, items, err), t.Days)
	}
}

func handle(preset, name string) string {
	if preset != "" {
		return preset
	}
	return parseutil.HandleSlug(name)
}

// recovered turns a fetch error into an empty contribution.
func recovered(log logger.Logger, source, target string, items []content.Item, err error) []content.Item {
	if err == nil {
		return items
	}
	msg := "source failed"
	if errors.Is(err, youtube.ErrMissingAPIKey) || errors.Is(err, scraper.ErrMissingToken) {
		msg = "source skipped: missing credentials"
	}
	log.Warn(msg,
		logger.String("source", source),
		logger.String("target", target),
		logger.Error(err),
	)
	return nil
}

func withinWindow(items []content.Item, days float64) []content.Item {
	cutoff := content.Day(parseutil.FormatDay(parseutil.Cutoff(days)))
	out := items[:0:0]
	for _, item := range items {
		if item.Date.Known() && item.Date < cutoff {
			continue
		}
		out = append(out, item)
	}
	return out
}
