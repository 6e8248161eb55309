// Package rss fetches RSS, Atom and JSON feeds and maps their recent
// entries to Blog content items.
package rss

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/gauthierbraillon/rivalfeed/internal/content"
	"github.com/gauthierbraillon/rivalfeed/internal/httpfetch"
	"github.com/gauthierbraillon/rivalfeed/internal/logger"
	"github.com/gauthierbraillon/rivalfeed/internal/parseutil"
)

const (
	defaultTimeout = 20 * time.Second
	acceptFeeds    = "application/rss+xml, application/atom+xml, application/feed+json, application/xml;q=0.9, */*;q=0.8"
)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient httpfetch.HTTPClient) ClientOption {
	return func(c *Client) {
		c.fetchOpts = append(c.fetchOpts, httpfetch.WithHTTPClient(httpClient))
	}
}

// WithLogger sets the logger used for per-feed failures.
func WithLogger(log logger.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// Client fetches feeds.
type Client struct {
	http      *httpfetch.Client
	fetchOpts []httpfetch.Option
	log       logger.Logger
}

// NewClient creates a new feed client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{log: logger.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	c.http = httpfetch.New(append([]httpfetch.Option{httpfetch.WithTimeout(defaultTimeout)}, c.fetchOpts...)...)
	return c
}

// FetchPosts fetches every feed concurrently and returns their entries
// published at or after the cutoff for days. A failing feed is logged and
// contributes nothing; the others are unaffected. Output keeps feed order.
func (c *Client) FetchPosts(ctx context.Context, feeds []string, days float64) []content.Item {
	cutoff := parseutil.Cutoff(days)
	results := make([][]content.Item, len(feeds))

	var wg sync.WaitGroup
	for i, feedURL := range feeds {
		wg.Add(1)
		go func(i int, feedURL string) {
			defer wg.Done()
			items, err := c.FetchFeed(ctx, feedURL, cutoff)
			if err != nil {
				c.log.Warn("rss feed failed",
					logger.String("source", "rss"),
					logger.String("url", feedURL),
					logger.Error(err),
				)
				return
			}
			results[i] = items
		}(i, feedURL)
	}
	wg.Wait()

	all := []content.Item{}
	for _, items := range results {
		all = append(all, items...)
	}
	return all
}

// FetchFeed fetches and parses one feed. Entries without a publication
// date, or published before cutoff, are skipped.
func (c *Client) FetchFeed(ctx context.Context, feedURL string, cutoff time.Time) ([]content.Item, error) {
	resolved := ResolveFeedURL(feedURL)
	body, err := c.http.Get(ctx, resolved, http.Header{"Accept": []string{acceptFeeds}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]content.Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		published := publishedAt(entry)
		if published == nil || published.Before(cutoff) {
			continue
		}
		items = append(items, toItem(entry, resolved, *published))
	}
	c.log.Debug("rss feed parsed", logger.String("url", resolved), logger.Int("items", len(items)))
	return items, nil
}

func publishedAt(entry *gofeed.Item) *time.Time {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed
	}
	return entry.UpdatedParsed
}

func toItem(entry *gofeed.Item, feedURL string, published time.Time) content.Item {
	id := entry.GUID
	if id == "" {
		id = entry.Link
	}
	if id == "" {
		id = feedURL + "#" + strconv.FormatInt(published.UnixMilli(), 10)
	}
	title := content.Truncate(entry.Title, content.TitleMaxLen)
	if title == "" {
		title = content.PlaceholderBlog
	}
	link := entry.Link
	if link == "" {
		link = content.PlaceholderURL
	}
	return content.Normalize(id, content.TypeBlog, title, link, content.Day(parseutil.FormatDay(published)), nil)
}
