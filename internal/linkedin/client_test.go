package linkedin

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gauthierbraillon/rivalfeed/internal/cache"
)

func companyPage(name string) string {
	org := fmt.Sprintf(`{"@type":"Organization","name":%q}`, name)
	body := cards(cardSpec{
		urn:      "urn:li:activity:40000001",
		text:     name + " news",
		datetime: ago(time.Hour).Format(time.RFC3339),
	})
	return pageWithBody(ldJSON(org), body)
}

// TestClient_FetchByURL_SendsBrowserHeaders documents header mimicry.
func TestClient_FetchByURL_SendsBrowserHeaders(t *testing.T) {
	var gotUA, gotLang, gotCache string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		gotCache = r.Header.Get("Cache-Control")
		fmt.Fprint(w, companyPage("Acme"))
	}))
	defer server.Close()

	client := NewClient(WithUserAgent("test-agent/1.0"), WithAcceptLanguage("en-US"))
	res := client.FetchByURL(context.Background(), server.URL+"/company/acme", 30, 20)

	if res.Company == nil || res.Company.Name != "Acme" {
		t.Fatalf("expected Acme profile, got %+v", res.Company)
	}
	if len(res.Items) != 1 {
		t.Errorf("expected 1 post, got %d", len(res.Items))
	}
	if gotUA != "test-agent/1.0" || gotLang != "en-US" || gotCache != "no-cache" {
		t.Errorf("unexpected headers UA=%q lang=%q cache=%q", gotUA, gotLang, gotCache)
	}
}

// TestClient_FetchByURL_FailureIsEmpty documents the never-fail boundary.
func TestClient_FetchByURL_FailureIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	res := NewClient().FetchByURL(context.Background(), server.URL+"/company/acme", 30, 20)

	if res.Company != nil || res.Items == nil || len(res.Items) != 0 {
		t.Errorf("user should see an empty result, got %+v", res)
	}
}

// TestClient_FetchByURL_UsesCache documents read-through caching.
func TestClient_FetchByURL_UsesCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, companyPage("Acme"))
	}))
	defer server.Close()

	client := NewClient(WithCache(cache.NewMemory(), time.Minute))
	client.FetchByURL(context.Background(), server.URL+"/company/acme", 30, 20)
	client.FetchByURL(context.Background(), server.URL+"/company/acme", 30, 20)

	if hits.Load() != 1 {
		t.Errorf("expected one upstream hit, got %d", hits.Load())
	}
}

// TestClient_Fetch_ProbesSlugCandidates documents name resolution:
// - The dashed slug is tried first on every host
// - The concatenated slug is tried next
func TestClient_Fetch_ProbesSlugCandidates(t *testing.T) {
	var probed []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probed = append(probed, r.URL.Path)
		if r.URL.Path == "/company/acmecorp" {
			fmt.Fprint(w, companyPage("Acme Corp"))
			return
		}
		fmt.Fprint(w, "<html></html>")
	}))
	defer server.Close()

	client := NewClient(WithHosts(server.URL))
	res := client.Fetch(context.Background(), "Acme Corp", 30, 20)

	if res.Company == nil || res.Company.Name != "Acme Corp" {
		t.Fatalf("expected the concatenated slug to resolve, got %+v", res.Company)
	}
	want := []string{"/company/acme-corp", "/company/acmecorp"}
	if fmt.Sprint(probed) != fmt.Sprint(want) {
		t.Errorf("expected probes %v, got %v", want, probed)
	}
}

// TestClient_Fetch_NoMatchReturnsFirstCandidate documents the fallback.
func TestClient_Fetch_NoMatchReturnsFirstCandidate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>nothing here</body></html>")
	}))
	defer server.Close()

	res := NewClient(WithHosts(server.URL, server.URL+"/")).Fetch(context.Background(), "Ghost Inc", 30, 20)

	if res.Company != nil || len(res.Items) != 0 {
		t.Errorf("expected empty well-shaped result, got %+v", res)
	}
}

// TestClient_Fetch_URLPassThrough documents absolute URL input.
func TestClient_Fetch_URLPassThrough(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		fmt.Fprint(w, companyPage("Acme"))
	}))
	defer server.Close()

	NewClient().Fetch(context.Background(), server.URL+"/company/acme-sa", 30, 20)

	if path != "/company/acme-sa" {
		t.Errorf("expected the URL to be fetched as-is, got %q", path)
	}
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, companyPage("Acme"))
	}))
	defer server.Close()

	client := NewClient(WithRateLimit(0.001))
	client.FetchByURL(context.Background(), server.URL+"/company/a", 30, 20)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	res := client.FetchByURL(ctx, server.URL+"/company/b", 30, 20)
	if res.Company != nil {
		t.Error("expected the paced request to give up when its context expires")
	}
}
