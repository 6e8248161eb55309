// Package api exposes rivalfeed's collection operations over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gauthierbraillon/rivalfeed/internal/collector"
	"github.com/gauthierbraillon/rivalfeed/internal/content"
	"github.com/gauthierbraillon/rivalfeed/internal/linkedin"
	"github.com/gauthierbraillon/rivalfeed/internal/logger"
	"github.com/gauthierbraillon/rivalfeed/internal/targets"
	"github.com/gauthierbraillon/rivalfeed/internal/youtube"
)

// Query defaults for the single-source endpoints.
const (
	LinkedInDefaultDays = 3650
	defaultDays         = collector.DefaultDays
	defaultLimit        = collector.DefaultLimit
)

// Collector runs a multi-source collection.
type Collector interface {
	Collect(ctx context.Context, req collector.Request) (collector.Response, error)
}

// LinkedInPageFetcher fetches one LinkedIn page by URL.
type LinkedInPageFetcher interface {
	FetchByURL(ctx context.Context, pageURL string, days float64, limit int) linkedin.Result
}

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type itemsResponse struct {
	Items []content.Item `json:"items"`
}

// Handler serves the /sources endpoints.
type Handler struct {
	collector Collector
	linkedin  LinkedInPageFetcher
	rss       collector.RSSFetcher
	videos    collector.VideoFetcher
	targets   *targets.Registry
	log       logger.Logger

	linkedInBase string
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithLinkedInBase sets the host that slug requests expand on.
func WithLinkedInBase(base string) HandlerOption {
	return func(h *Handler) {
		if base != "" {
			h.linkedInBase = base
		}
	}
}

// NewHandler creates a Handler. A nil logger discards output.
func NewHandler(c Collector, li LinkedInPageFetcher, rss collector.RSSFetcher, videos collector.VideoFetcher, registry *targets.Registry, log logger.Logger, opts ...HandlerOption) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	h := &Handler{
		collector:    c,
		linkedin:     li,
		rss:          rss,
		videos:       videos,
		targets:      registry,
		log:          log,
		linkedInBase: linkedin.DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Collect handles GET /sources/collect.
func (h *Handler) Collect(c *gin.Context) {
	resp, err := h.collector.Collect(c.Request.Context(), collector.Request{
		Name:     c.Query("name"),
		Days:     floatQuery(c, "days", 0),
		Limit:    intQuery(c, "limit", 0),
		Strategy: c.Query("strategy"),
		Sources:  c.Query("sources"),
	})
	if errors.Is(err, collector.ErrNoTarget) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "missing_name", Message: err.Error()})
		return
	}
	if err != nil {
		h.log.Error("collect failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "collect_failed"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LinkedIn handles GET /sources/linkedin. Either url or slug is required.
func (h *Handler) LinkedIn(c *gin.Context) {
	target := strings.TrimSpace(c.Query("url"))
	if target == "" {
		if slug := strings.TrimSpace(c.Query("slug")); slug != "" {
			target = linkedin.CompanyURL(h.linkedInBase, slug)
		}
	}
	if target == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "missing_url_or_slug"})
		return
	}

	result := h.linkedin.FetchByURL(c.Request.Context(), target,
		floatQuery(c, "days", LinkedInDefaultDays),
		intQuery(c, "limit", linkedin.DefaultLimit),
	)
	c.JSON(http.StatusOK, result)
}

// RSS handles GET /sources/rss. An rss comma list overrides the preset
// feeds of name.
func (h *Handler) RSS(c *gin.Context) {
	feeds := splitList(c.Query("rss"))
	if len(feeds) == 0 {
		feeds = h.targets.Lookup(c.Query("name")).RSS
	}
	items := h.rss.FetchPosts(c.Request.Context(), feeds, floatQuery(c, "days", defaultDays))
	c.JSON(http.StatusOK, itemsResponse{Items: nonNil(items)})
}

// YouTube handles GET /sources/youtube. Upstream failures are logged and
// answered with an empty list.
func (h *Handler) YouTube(c *gin.Context) {
	items, err := h.videos.FetchVideos(c.Request.Context(), youtube.Query{
		Channel: strings.TrimSpace(c.Query("channel")),
		Q:       strings.TrimSpace(c.Query("q")),
		Days:    floatQuery(c, "days", defaultDays),
		Limit:   intQuery(c, "limit", defaultLimit),
	})
	if err != nil {
		h.log.Warn("youtube fetch failed", logger.String("source", "youtube"), logger.Error(err))
		items = nil
	}
	c.JSON(http.StatusOK, itemsResponse{Items: nonNil(items)})
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// floatQuery reads a numeric query parameter; absent or unparsable values
// yield def.
func floatQuery(c *gin.Context, key string, def float64) float64 {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func nonNil(items []content.Item) []content.Item {
	if items == nil {
		return []content.Item{}
	}
	return items
}
