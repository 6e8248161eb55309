// Package scraper runs hosted scraping actors synchronously and maps their
// dataset items to Instagram and TikTok content items.
package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gauthierbraillon/rivalfeed/internal/httpfetch"
	"github.com/gauthierbraillon/rivalfeed/internal/logger"
)

const (
	defaultBaseURL = "https://api.apify.com"
	// DefaultTimeout bounds a synchronous actor run.
	DefaultTimeout = 120 * time.Second
	// DefaultLimit is the number of posts requested when the caller asks for none.
	DefaultLimit = 12
)

// ErrMissingToken is returned before any network call when no actor token
// is configured.
var ErrMissingToken = errors.New("scraping actor token is not configured (set APIFY_TOKEN)")

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient httpfetch.HTTPClient) ClientOption {
	return func(c *Client) {
		c.fetchOpts = append(c.fetchOpts, httpfetch.WithHTTPClient(httpClient))
	}
}

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithTimeout bounds each actor run.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.fetchOpts = append(c.fetchOpts, httpfetch.WithTimeout(d))
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// Client submits actor runs.
type Client struct {
	token     string
	baseURL   string
	http      *httpfetch.Client
	fetchOpts []httpfetch.Option
	log       logger.Logger
}

// NewClient creates an actor client authenticated by token.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		token:   token,
		baseURL: defaultBaseURL,
		log:     logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = httpfetch.New(append([]httpfetch.Option{httpfetch.WithTimeout(DefaultTimeout)}, c.fetchOpts...)...)
	return c
}

// RunActor runs actor to completion with input and returns its dataset.
// A response that is not a JSON array yields an empty dataset.
func (c *Client) RunActor(ctx context.Context, actor string, input any) ([]Record, error) {
	if c.token == "" {
		return nil, ErrMissingToken
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s",
		c.baseURL, actor, url.QueryEscape(c.token))

	body, err := c.http.PostJSON(ctx, endpoint, input)
	if err != nil {
		var statusErr *httpfetch.StatusError
		if errors.As(err, &statusErr) {
			// The endpoint carries the token; report the actor instead.
			return nil, fmt.Errorf("actor %s returned HTTP %d", actor, statusErr.StatusCode)
		}
		return nil, fmt.Errorf("actor %s run failed: %w", actor, redact(err, c.token))
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse actor %s dataset: %w", actor, err)
	}
	list, ok := raw.([]any)
	if !ok {
		return []Record{}, nil
	}

	records := make([]Record, 0, len(list))
	for _, v := range list {
		if m, ok := v.(map[string]any); ok {
			records = append(records, m)
		}
	}
	c.log.Debug("actor run finished", logger.String("actor", actor), logger.Int("items", len(records)))
	return records, nil
}

// redact strips the token from transport errors, which quote the URL.
func redact(err error, token string) error {
	msg := err.Error()
	if token == "" || !strings.Contains(msg, url.QueryEscape(token)) {
		return err
	}
	return errors.New(strings.ReplaceAll(msg, url.QueryEscape(token), "REDACTED"))
}

func clampLimit(limit, max int) int {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > max {
		return max
	}
	return limit
}

func cleanUsername(username string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(username), "@"))
}
