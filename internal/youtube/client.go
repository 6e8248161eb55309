package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gauthierbraillon/rivalfeed/internal/content"
	"github.com/gauthierbraillon/rivalfeed/internal/logger"
	"github.com/gauthierbraillon/rivalfeed/internal/parseutil"
)

const (
	defaultBaseURL = "https://www.googleapis.com"
	defaultTimeout = 20 * time.Second
)

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithTimeout bounds each API call.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger used for recovered failures.
func WithLogger(log logger.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// Client is a YouTube Data API client authenticated by API key.
type Client struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	httpClient HTTPClient
	log        logger.Logger
}

// NewClient creates a new YouTube API client with the given API key.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		timeout:    defaultTimeout,
		httpClient: &http.Client{},
		log:        logger.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchVideos returns the videos matching q published in its window,
// newest first.
//
// Channel resolution failures are logged and fall through to the next
// strategy; search and statistics failures are returned.
func (c *Client) FetchVideos(ctx context.Context, q Query) ([]content.Item, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	channelID := c.resolveOrLog(ctx, q.Channel)
	if channelID == "" {
		channelID = c.resolveOrLog(ctx, q.Q)
	}
	if channelID == "" && strings.TrimSpace(q.Q) == "" {
		return []content.Item{}, nil
	}

	ids, err := c.SearchVideos(ctx, channelID, q.Q, parseutil.Cutoff(q.Days), clampLimit(q.Limit))
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []content.Item{}, nil
	}

	videos, err := c.FetchVideoDetails(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]content.Item, 0, len(videos))
	for _, v := range videos {
		items = append(items, v.Item())
	}
	content.SortByDateDesc(items)
	return items, nil
}

func (c *Client) resolveOrLog(ctx context.Context, channel string) string {
	if strings.TrimSpace(channel) == "" {
		return ""
	}
	id, err := c.ResolveChannelID(ctx, channel)
	if err != nil {
		c.log.Warn("youtube channel resolution failed",
			logger.String("source", "youtube"),
			logger.String("target", channel),
			logger.Error(err),
		)
		return ""
	}
	return id
}

// ResolveChannelID maps a channel id, @handle or name to a channel id. Ids
// starting with "UC" are returned as-is; anything else goes through a
// one-result channel search. An empty string means no channel matched.
func (c *Client) ResolveChannelID(ctx context.Context, channel string) (string, error) {
	raw := strings.TrimSpace(channel)
	if raw == "" {
		return "", nil
	}
	if strings.HasPrefix(raw, "UC") {
		return raw, nil
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "channel")
	params.Set("q", strings.TrimPrefix(raw, "@"))
	params.Set("maxResults", "1")

	body, err := c.doRequest(ctx, "/youtube/v3/search", params)
	if err != nil {
		return "", err
	}

	var response searchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse channel search response: %w", err)
	}
	if len(response.Items) == 0 {
		return "", nil
	}
	return response.Items[0].ID.ChannelID, nil
}

// SearchVideos lists the ids of videos published after publishedAfter,
// newest first. channelID scopes the search to one channel; otherwise q is
// a free-text query.
func (c *Client) SearchVideos(ctx context.Context, channelID, q string, publishedAfter time.Time, limit int) ([]string, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("order", "date")
	params.Set("maxResults", strconv.Itoa(clampLimit(limit)))
	params.Set("publishedAfter", publishedAfter.UTC().Format(time.RFC3339))
	if channelID != "" {
		params.Set("channelId", channelID)
	} else {
		params.Set("q", q)
	}

	body, err := c.doRequest(ctx, "/youtube/v3/search", params)
	if err != nil {
		return nil, err
	}

	var response searchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	ids := make([]string, 0, len(response.Items))
	for _, item := range response.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	return ids, nil
}

// FetchVideoDetails fetches snippet and statistics for ids in one call.
func (c *Client) FetchVideoDetails(ctx context.Context, ids []string) ([]Video, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics,contentDetails")
	params.Set("id", strings.Join(ids, ","))

	body, err := c.doRequest(ctx, "/youtube/v3/videos", params)
	if err != nil {
		return nil, err
	}

	var response videosResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse videos response: %w", err)
	}

	videos := make([]Video, 0, len(response.Items))
	for _, item := range response.Items {
		videos = append(videos, Video{
			ID:           item.ID,
			Title:        item.Snippet.Title,
			ChannelID:    item.Snippet.ChannelID,
			PublishedAt:  item.Snippet.PublishedAt,
			ViewCount:    parseCount(item.Statistics.ViewCount),
			LikeCount:    parseCount(item.Statistics.LikeCount),
			CommentCount: parseCount(item.Statistics.CommentCount),
		})
	}
	return videos, nil
}

// parseCount reads a statistics counter. The API omits hidden counters.
func parseCount(s string) *int64 {
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func (c *Client) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleAPIError(resp.StatusCode)
	}

	return body, nil
}

// API response types (private - implementation detail)

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID   string `json:"videoId"`
			ChannelID string `json:"channelId"`
		} `json:"id"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			ChannelID   string `json:"channelId"`
			PublishedAt string `json:"publishedAt"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

func (c *Client) handleAPIError(statusCode int) error {
	switch statusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("YouTube API rejected the request - check the channel or query")
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("YouTube API access denied - check YT_API_KEY and its quota")
	case http.StatusTooManyRequests:
		return fmt.Errorf("YouTube API rate limit exceeded - please try again later")
	case http.StatusServiceUnavailable:
		return fmt.Errorf("YouTube API temporarily unavailable - please try again in a few minutes")
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusGatewayTimeout:
		return fmt.Errorf("YouTube API server error - please try again later")
	default:
		return fmt.Errorf("YouTube API error (status %d) - please try again", statusCode)
	}
}
