package main

import (
	"fmt"
	"strings"

	"github.com/gauthierbraillon/rivalfeed/internal/cache"
	"github.com/gauthierbraillon/rivalfeed/internal/collector"
	"github.com/gauthierbraillon/rivalfeed/internal/config"
	"github.com/gauthierbraillon/rivalfeed/internal/linkedin"
	"github.com/gauthierbraillon/rivalfeed/internal/logger"
	"github.com/gauthierbraillon/rivalfeed/internal/rss"
	"github.com/gauthierbraillon/rivalfeed/internal/scraper"
	"github.com/gauthierbraillon/rivalfeed/internal/sources"
	"github.com/gauthierbraillon/rivalfeed/internal/targets"
	"github.com/gauthierbraillon/rivalfeed/internal/youtube"
)

// app holds the wired dependencies of one command run.
type app struct {
	cfg       *config.Config
	log       logger.Logger
	pages     cache.Cache
	redis     *cache.Redis
	targets   *targets.Registry
	linkedin  *linkedin.Client
	rss       *rss.Client
	youtube   *youtube.Client
	scraper   *scraper.Client
	collector *collector.Collector
}

// newApp loads configuration and builds every client. RIVALFEED_API_URL
// redirects all upstreams to one stub server.
func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel})
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, pages: cache.NewMemory()}
	if cfg.Cache.RedisAddress != "" {
		r, err := cache.NewRedis(cache.RedisConfig{
			Address:  cfg.Cache.RedisAddress,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		}, log)
		if err != nil {
			log.Warn("redis unavailable, using in-memory cache", logger.Error(err))
		} else {
			a.redis = r
			a.pages = r
		}
	}

	a.targets, err = targets.Load(cfg.TargetsFile)
	if err != nil {
		return nil, err
	}

	liOpts := []linkedin.ClientOption{
		linkedin.WithCache(a.pages, cfg.Cache.TTL),
		linkedin.WithLogger(log),
		linkedin.WithRateLimit(cfg.LinkedIn.RequestsPerSec),
		linkedin.WithUserAgent(cfg.LinkedIn.UserAgent),
		linkedin.WithAcceptLanguage(cfg.LinkedIn.AcceptLanguage),
	}
	ytOpts := []youtube.ClientOption{youtube.WithLogger(log)}
	scOpts := []scraper.ClientOption{scraper.WithLogger(log)}
	if cfg.APIURL != "" {
		liOpts = append(liOpts, linkedin.WithHosts(cfg.APIURL))
		ytOpts = append(ytOpts, youtube.WithBaseURL(cfg.APIURL))
		scOpts = append(scOpts, scraper.WithBaseURL(cfg.APIURL))
	}

	a.linkedin = linkedin.NewClient(liOpts...)
	a.rss = rss.NewClient(rss.WithLogger(log))
	a.youtube = youtube.NewClient(cfg.YouTubeAPIKey, ytOpts...)
	a.scraper = scraper.NewClient(cfg.ApifyToken, scOpts...)

	a.collector = collector.New(a.targets,
		collector.WithLogger(log),
		collector.WithSource(sources.RSS, collector.RSSSource(a.rss)),
		collector.WithSource(sources.LinkedIn, collector.LinkedInSource(a.linkedin)),
		collector.WithSource(sources.YouTube, collector.YouTubeSource(a.youtube, log)),
		collector.WithSource(sources.Instagram, collector.InstagramSource(a.scraper, log)),
		collector.WithSource(sources.TikTok, collector.TikTokSource(a.scraper, log)),
	)
	return a, nil
}

// linkedInBase is the host company slugs are expanded on.
func (a *app) linkedInBase() string {
	if a.cfg.APIURL != "" {
		return strings.TrimRight(a.cfg.APIURL, "/")
	}
	return linkedin.DefaultBaseURL
}

func (a *app) cacheBackend() string {
	if a.redis != nil {
		return "redis " + a.cfg.Cache.RedisAddress
	}
	return "memory"
}

// Close releases the cache connection and flushes logs.
func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	_ = a.log.Sync()
}
