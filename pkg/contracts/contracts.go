// Package contracts holds recorded upstream payloads and a stub server that
// replays them. Client tests and the CLI's black-box tests point their base
// URL at the stub so every upstream shape is pinned in one place.
package contracts

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Identifiers that appear in the recorded payloads.
const (
	ChannelID        = "UCacme0000000000000000000"
	LinkedInSlug     = "acme-corp"
	LinkedInActivity = "7190000000000000001"
	TikTokVideoID    = "7301234567890123456"
)

// YouTubeChannelSearchContract is a search.list reply for type=channel.
const YouTubeChannelSearchContract = `{
  "kind": "youtube#searchListResponse",
  "pageInfo": {"totalResults": 1, "resultsPerPage": 1},
  "items": [
    {"kind": "youtube#searchResult", "id": {"kind": "youtube#channel", "channelId": "` + ChannelID + `"},
     "snippet": {"title": "Acme Corp", "channelId": "` + ChannelID + `"}}
  ]
}`

// YouTubeVideoSearchContract is a search.list reply for type=video.
const YouTubeVideoSearchContract = `{
  "kind": "youtube#searchListResponse",
  "nextPageToken": "CAIQAA",
  "items": [
    {"kind": "youtube#searchResult", "id": {"kind": "youtube#video", "videoId": "vid-launch"}},
    {"kind": "youtube#searchResult", "id": {"kind": "youtube#video", "videoId": "vid-hidden"}}
  ]
}`

// YouTubeVideosContract is a videos.list reply. The second video hides its
// like counter.
const YouTubeVideosContract = `{
  "kind": "youtube#videoListResponse",
  "items": [
    {"kind": "youtube#video", "id": "vid-launch",
     "snippet": {"publishedAt": "2024-05-02T09:00:00Z", "channelId": "` + ChannelID + `", "title": "Acme Launch Keynote"},
     "contentDetails": {"duration": "PT12M3S"},
     "statistics": {"viewCount": "15230", "likeCount": "410", "favoriteCount": "0", "commentCount": "37"}},
    {"kind": "youtube#video", "id": "vid-hidden",
     "snippet": {"publishedAt": "2024-05-04T16:30:00Z", "channelId": "` + ChannelID + `", "title": "Behind the Scenes"},
     "contentDetails": {"duration": "PT4M"},
     "statistics": {"viewCount": "980", "favoriteCount": "0", "commentCount": "2"}}
  ]
}`

// InstagramDatasetContract is a run-sync-get-dataset-items reply of the
// Instagram profile actor.
const InstagramDatasetContract = `[
  {"id": "3345678901234567890", "type": "Image", "shortCode": "C7acmeAbc",
   "caption": "Spring collection is live", "url": "https://www.instagram.com/p/C7acmeAbc/",
   "timestamp": "2024-05-03T12:00:00.000Z", "likesCount": 128, "commentsCount": 9,
   "ownerUsername": "acme"}
]`

// TikTokDatasetContract is a run-sync-get-dataset-items reply of the TikTok
// profile actor.
const TikTokDatasetContract = `[
  {"id": "` + TikTokVideoID + `", "text": "Office tour", "createTime": 1714730400,
   "webVideoUrl": "https://www.tiktok.com/@acme/video/` + TikTokVideoID + `",
   "authorMeta": {"name": "acme"},
   "diggCount": 512, "shareCount": 14, "playCount": 20400, "commentCount": 33}
]`

// LinkedInCompanyPageContract is a trimmed public company page: one
// Organization record, one structured posting and the same post rendered
// as a feed card with its counters.
const LinkedInCompanyPageContract = `<!DOCTYPE html>
<html lang="en"><head>
<title>Acme Corp | LinkedIn</title>
<script type="application/ld+json">{"@context":"http://schema.org","@graph":[
  {"@type":"Organization","name":"Acme Corp","slogan":"Anvils for everyone",
   "sameAs":"https://acme.example","url":"https://www.linkedin.com/company/acme-corp",
   "numberOfEmployees":{"@type":"QuantitativeValue","value":120},
   "address":{"@type":"PostalAddress","addressLocality":"Paris","addressCountry":"FR"},
   "logo":{"@type":"ImageObject","contentUrl":"https://media.example/acme.png"}},
  {"@type":"DiscussionForumPosting",
   "url":"https://fr.linkedin.com/posts/acme-corp_launch-activity-` + LinkedInActivity + `-xYz?trk=public_post",
   "datePublished":"2024-05-02T09:00:00Z","text":"Acme Launch Keynote is out\nWatch it now"}
]}</script>
</head><body>
<article data-id="main-feed-card" data-activity-urn="urn:li:activity:` + LinkedInActivity + `">
  <p data-test-id="main-feed-activity-card__commentary">Acme Launch Keynote is out</p>
  <time datetime="2024-05-02T09:00:00Z">2 mo</time>
  <span data-test-id="social-actions__reactions" data-num-reactions="1.2k"></span>
  <a data-test-id="social-actions__comments" data-num-comments="48" href="#">48 comments</a>
</article>
</body></html>`

// RSSFeed renders a two-entry feed: one published an hour before now and
// one published sixty days before now.
func RSSFeed(now time.Time) string {
	entry := func(slug string, age time.Duration) string {
		return fmt.Sprintf(`<item><title>%s</title><link>https://blog.acme.example/%s</link><guid>%s</guid><pubDate>%s</pubDate></item>`,
			strings.ReplaceAll(slug, "-", " "), slug, slug, now.Add(-age).UTC().Format(time.RFC1123Z))
	}
	return `<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>Acme Blog</title>` +
		entry("fresh-post", time.Hour) +
		entry("stale-post", 60*24*time.Hour) +
		`</channel></rss>`
}

// NewStubHandler replays every contract on the paths the real upstreams
// use. LinkedIn answers only for LinkedInSlug; everything else is 404.
func NewStubHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /youtube/v3/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("type") == "channel" {
			writeJSON(w, YouTubeChannelSearchContract)
			return
		}
		writeJSON(w, YouTubeVideoSearchContract)
	})
	mux.HandleFunc("GET /youtube/v3/videos", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, YouTubeVideosContract)
	})
	mux.HandleFunc("POST /v2/acts/apify~instagram-scraper/run-sync-get-dataset-items", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, InstagramDatasetContract)
	})
	mux.HandleFunc("POST /v2/acts/clockworks~tiktok-scraper/run-sync-get-dataset-items", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, TikTokDatasetContract)
	})
	mux.HandleFunc("GET /company/{slug}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("slug") != LinkedInSlug {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, LinkedInCompanyPageContract)
	})
	mux.HandleFunc("GET /feed", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, RSSFeed(time.Now()))
	})

	return mux
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, body)
}
