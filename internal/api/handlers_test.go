package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauthierbraillon/rivalfeed/internal/api"
	"github.com/gauthierbraillon/rivalfeed/internal/collector"
	"github.com/gauthierbraillon/rivalfeed/internal/content"
	"github.com/gauthierbraillon/rivalfeed/internal/linkedin"
	"github.com/gauthierbraillon/rivalfeed/internal/logger"
	"github.com/gauthierbraillon/rivalfeed/internal/targets"
	"github.com/gauthierbraillon/rivalfeed/internal/youtube"
)

type mockCollector struct {
	got  collector.Request
	resp collector.Response
	err  error
}

func (m *mockCollector) Collect(_ context.Context, req collector.Request) (collector.Response, error) {
	m.got = req
	return m.resp, m.err
}

type mockLinkedIn struct {
	url   string
	days  float64
	limit int
}

func (m *mockLinkedIn) FetchByURL(_ context.Context, pageURL string, days float64, limit int) linkedin.Result {
	m.url, m.days, m.limit = pageURL, days, limit
	return linkedin.Result{
		Company: &linkedin.Company{Name: "Acme"},
		Items:   []content.Item{content.Normalize("li-1", content.TypeLinkedIn, "Hello", "#", "", nil)},
	}
}

type mockRSS struct {
	feeds []string
	days  float64
}

func (m *mockRSS) FetchPosts(_ context.Context, feeds []string, days float64) []content.Item {
	m.feeds, m.days = feeds, days
	return nil
}

type mockVideos struct {
	got youtube.Query
	err error
}

func (m *mockVideos) FetchVideos(_ context.Context, q youtube.Query) ([]content.Item, error) {
	m.got = q
	if m.err != nil {
		return nil, m.err
	}
	return []content.Item{content.Normalize("yt-1", content.TypeYouTube, "Launch", "https://youtu.be/1", "2024-03-01", nil)}, nil
}

type fixture struct {
	collector *mockCollector
	linkedin  *mockLinkedIn
	rss       *mockRSS
	videos    *mockVideos
	router    *gin.Engine
}

func setupRouter(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		collector: &mockCollector{resp: collector.Response{Items: []content.Item{}, UsedSources: []string{"rss"}}},
		linkedin:  &mockLinkedIn{},
		rss:       &mockRSS{},
		videos:    &mockVideos{},
	}
	registry := targets.New(map[string]targets.Preset{"rivalytics": {RSS: []string{"https://dev.to/feed/tag/webdev"}}})
	h := api.NewHandler(f.collector, f.linkedin, f.rss, f.videos, registry, logger.NewNop())
	f.router = api.NewRouter(h, logger.NewNop())
	return f
}

func (f *fixture) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, target, http.NoBody)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestHealth(t *testing.T) {
	f := setupRouter(t)
	w := f.get(t, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestCollect_PassesQueryThrough(t *testing.T) {
	f := setupRouter(t)
	w := f.get(t, "/sources/collect?name=Acme&days=14&limit=5&strategy=all&sources=rss,youtube")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, collector.Request{Name: "Acme", Days: 14, Limit: 5, Strategy: "all", Sources: "rss,youtube"}, f.collector.got)

	body := decode(t, w)
	assert.Equal(t, []any{}, body["items"])
	assert.Equal(t, []any{"rss"}, body["usedSources"])
}

func TestCollect_MissingNameIsBadRequest(t *testing.T) {
	f := setupRouter(t)
	f.collector.err = collector.ErrNoTarget

	w := f.get(t, "/sources/collect")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing_name", decode(t, w)["error"])
}

func TestCollect_UnexpectedErrorIsInternal(t *testing.T) {
	f := setupRouter(t)
	f.collector.err = errors.New("boom")

	w := f.get(t, "/sources/collect?name=acme")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "collect_failed", decode(t, w)["error"])
}

func TestLinkedIn_RequiresURLOrSlug(t *testing.T) {
	f := setupRouter(t)
	w := f.get(t, "/sources/linkedin")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing_url_or_slug", decode(t, w)["error"])
	assert.Empty(t, f.linkedin.url, "no fetch without a target")
}

func TestLinkedIn_SlugExpandsWithDefaults(t *testing.T) {
	f := setupRouter(t)
	w := f.get(t, "/sources/linkedin?slug=acme-corp")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://www.linkedin.com/company/acme-corp", f.linkedin.url)
	assert.InDelta(t, 3650, f.linkedin.days, 0)
	assert.Equal(t, 20, f.linkedin.limit)

	body := decode(t, w)
	assert.Equal(t, "Acme", body["company"].(map[string]any)["name"])
	assert.Len(t, body["items"], 1)
}

func TestLinkedIn_SlugExpandsOnConfiguredBase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	li := &mockLinkedIn{}
	h := api.NewHandler(&mockCollector{}, li, &mockRSS{}, &mockVideos{}, targets.Builtin(), logger.NewNop(),
		api.WithLinkedInBase("http://127.0.0.1:9999/"))
	router := api.NewRouter(h, logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/sources/linkedin?slug=acme-corp", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://127.0.0.1:9999/company/acme-corp", li.url)
}

func TestLinkedIn_URLWinsOverSlug(t *testing.T) {
	f := setupRouter(t)
	f.get(t, "/sources/linkedin?url=https://www.linkedin.com/company/other&slug=acme&days=30&limit=5")

	assert.Equal(t, "https://www.linkedin.com/company/other", f.linkedin.url)
	assert.InDelta(t, 30, f.linkedin.days, 0)
	assert.Equal(t, 5, f.linkedin.limit)
}

func TestRSS_OverrideAndPreset(t *testing.T) {
	f := setupRouter(t)

	w := f.get(t, "/sources/rss?name=Rivalytics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"https://dev.to/feed/tag/webdev"}, f.rss.feeds)
	assert.InDelta(t, 7, f.rss.days, 0)
	assert.Equal(t, []any{}, decode(t, w)["items"], "items is an empty list, never null")

	f.get(t, "/sources/rss?name=rivalytics&rss=https://a.example/feed,%20,https://substack.com/@bob&days=2")
	assert.Equal(t, []string{"https://a.example/feed", "https://substack.com/@bob"}, f.rss.feeds)
	assert.InDelta(t, 2, f.rss.days, 0)
}

func TestYouTube_PassesQueryAndDefaults(t *testing.T) {
	f := setupRouter(t)
	w := f.get(t, "/sources/youtube?channel=@acme&q=launch&limit=abc")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, youtube.Query{Channel: "@acme", Q: "launch", Days: 7, Limit: 12}, f.videos.got)
	assert.Len(t, decode(t, w)["items"], 1)
}

func TestYouTube_FailureAnswersEmptyList(t *testing.T) {
	f := setupRouter(t)
	f.videos.err = youtube.ErrMissingAPIKey

	w := f.get(t, "/sources/youtube?channel=acme")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, decode(t, w)["items"])
}
