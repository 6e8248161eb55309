package linkedin

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/gauthierbraillon/rivalfeed/internal/cache"
	"github.com/gauthierbraillon/rivalfeed/internal/httpfetch"
	"github.com/gauthierbraillon/rivalfeed/internal/logger"
	"github.com/gauthierbraillon/rivalfeed/internal/parseutil"
)

const (
	// DefaultDays is the window used when the caller asks for a whole page.
	DefaultDays = 3650

	defaultTimeout        = 30 * time.Second
	defaultCacheTTL       = 5 * time.Minute
	defaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	defaultAcceptLanguage = "fr-FR,fr;q=0.9,en;q=0.8"
	acceptHTML            = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

var (
	defaultHosts  = []string{"https://www.linkedin.com", "https://fr.linkedin.com"}
	regionalFR    = regexp.MustCompile(`^https://fr\.`)
	absoluteHTTPx = regexp.MustCompile(`(?i)^https?://`)
)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient httpfetch.HTTPClient) ClientOption {
	return func(c *Client) {
		c.fetchOpts = append(c.fetchOpts, httpfetch.WithHTTPClient(httpClient))
	}
}

// WithCache sets the page cache and its TTL.
func WithCache(pages cache.Cache, ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.cache = pages
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// WithLogger sets the logger used for swallowed failures.
func WithLogger(log logger.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// WithRateLimit paces page fetches to rps requests per second. Zero or
// negative disables pacing.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithHosts overrides the hosts probed when resolving a company name, in
// probe order (useful for testing).
func WithHosts(hosts ...string) ClientOption {
	return func(c *Client) {
		c.hosts = hosts
	}
}

// WithUserAgent sets the User-Agent sent with page requests.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithAcceptLanguage sets the Accept-Language sent with page requests.
func WithAcceptLanguage(lang string) ClientOption {
	return func(c *Client) {
		if lang != "" {
			c.acceptLanguage = lang
		}
	}
}

// Client fetches public LinkedIn company pages.
type Client struct {
	http           *httpfetch.Client
	fetchOpts      []httpfetch.Option
	cache          cache.Cache
	cacheTTL       time.Duration
	limiter        *rate.Limiter
	log            logger.Logger
	hosts          []string
	userAgent      string
	acceptLanguage string
}

// NewClient creates a new LinkedIn page client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		cache:          cache.Nop{},
		cacheTTL:       defaultCacheTTL,
		log:            logger.NewNop(),
		hosts:          defaultHosts,
		userAgent:      defaultUserAgent,
		acceptLanguage: defaultAcceptLanguage,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = httpfetch.New(append([]httpfetch.Option{httpfetch.WithTimeout(defaultTimeout)}, c.fetchOpts...)...)
	return c
}

// FetchByURL fetches one company page and extracts its profile and posts
// from the last days days. It never fails: any fetch or parse error is
// logged and yields an empty result.
func (c *Client) FetchByURL(ctx context.Context, pageURL string, days float64, limit int) Result {
	pageURL = regionalFR.ReplaceAllString(strings.TrimSpace(pageURL), "https://www.")
	if pageURL == "" {
		return emptyResult()
	}

	html, err := c.page(ctx, pageURL)
	if err != nil {
		c.log.Warn("linkedin fetch failed",
			logger.String("source", "linkedin"),
			logger.String("url", pageURL),
			logger.Error(err),
		)
		return emptyResult()
	}

	res := Extract(string(html), pageURL, parseutil.Cutoff(days), limit)
	c.log.Debug("linkedin page extracted",
		logger.String("url", pageURL),
		logger.Int("items", len(res.Items)),
	)
	return res
}

// Fetch resolves a company name or URL and fetches its page. A free-text
// name is probed as a dashed slug then a concatenated slug on every host;
// the first page that yields a company name or at least one post wins.
// When none does, the first probe's result is returned.
func (c *Client) Fetch(ctx context.Context, nameOrURL string, days float64, limit int) Result {
	raw := strings.TrimSpace(nameOrURL)
	if raw == "" {
		return emptyResult()
	}
	if absoluteHTTPx.MatchString(raw) {
		return c.FetchByURL(ctx, raw, days, limit)
	}

	candidates := c.candidateURLs(raw)
	if len(candidates) == 0 {
		return emptyResult()
	}
	var first *Result
	for _, u := range candidates {
		res := c.FetchByURL(ctx, u, days, limit)
		if (res.Company != nil && res.Company.Name != "") || len(res.Items) > 0 {
			return res
		}
		if first == nil {
			first = &res
		}
	}
	return *first
}

func (c *Client) candidateURLs(name string) []string {
	var out []string
	seen := map[string]bool{}
	for _, slug := range []string{parseutil.DashedSlug(name), parseutil.HandleSlug(name)} {
		if slug == "" {
			continue
		}
		for _, host := range c.hosts {
			u := strings.TrimRight(host, "/") + "/company/" + slug
			if !seen[u] {
				seen[u] = true
				out = append(out, u)
			}
		}
	}
	return out
}

func (c *Client) page(ctx context.Context, pageURL string) ([]byte, error) {
	return c.cache.GetOrCompute(ctx, "li:"+pageURL, c.cacheTTL, func(ctx context.Context) ([]byte, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		return c.http.Get(ctx, pageURL, c.headers())
	})
}

func (c *Client) headers() http.Header {
	h := http.Header{}
	h.Set("User-Agent", c.userAgent)
	h.Set("Accept", acceptHTML)
	h.Set("Accept-Language", c.acceptLanguage)
	h.Set("Cache-Control", "no-cache")
	h.Set("Pragma", "no-cache")
	return h
}
