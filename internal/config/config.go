// Package config loads rivalfeed settings from .env files, an optional YAML
// file and environment variables, in that order of precedence (env wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting.
type Config struct {
	YouTubeAPIKey string `yaml:"youtube_api_key" env:"YT_API_KEY"`
	ApifyToken    string `yaml:"apify_token"     env:"APIFY_TOKEN"`

	LinkedIn LinkedInConfig `yaml:"linkedin"`
	Cache    CacheConfig    `yaml:"cache"`

	LogLevel    string `yaml:"log_level"    env:"LOG_LEVEL"`
	Port        int    `yaml:"port"         env:"PORT"`
	TargetsFile string `yaml:"targets_file" env:"RIVALFEED_TARGETS_FILE"`
	// APIURL overrides every upstream base URL; tests point it at a stub.
	APIURL string `yaml:"api_url" env:"RIVALFEED_API_URL"`
}

// LinkedInConfig tunes the public-page fetch.
type LinkedInConfig struct {
	UserAgent      string  `yaml:"user_agent"      env:"LI_UA"`
	AcceptLanguage string  `yaml:"accept_language" env:"LI_ACCEPT_LANGUAGE"`
	RequestsPerSec float64 `yaml:"requests_per_sec" env:"RIVALFEED_LINKEDIN_RPS"`
}

// CacheConfig selects the read-through cache backend. An empty RedisAddress
// keeps the cache in process memory.
type CacheConfig struct {
	TTL           time.Duration `yaml:"ttl"            env:"RIVALFEED_CACHE_TTL"`
	RedisAddress  string        `yaml:"redis_address"  env:"REDIS_ADDRESS"`
	RedisPassword string        `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db"       env:"REDIS_DB"`
}

// Defaults.
const (
	DefaultPort           = 3001
	DefaultCacheTTL       = 5 * time.Minute
	DefaultLinkedInRPS    = 2.0
	DefaultLogLevel       = "info"
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/125 Safari/537.36"
	DefaultAcceptLanguage = "fr-FR,fr;q=0.9,en-US;q=0.8,en;q=0.7"
)

// ErrInvalidPort is returned when the configured port is out of range.
var ErrInvalidPort = errors.New("port must be between 1 and 65535")

// Load reads .env files, then path (when non-empty), then environment
// overrides, then fills defaults and validates.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied config path
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Unset or empty variables leave the YAML value in place.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFiles loads ENV_FILE if set, otherwise .env.local then .env.
// Missing files are not an error; godotenv never overrides variables that
// are already set.
func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}
	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.LinkedIn.UserAgent == "" {
		c.LinkedIn.UserAgent = DefaultUserAgent
	}
	if c.LinkedIn.AcceptLanguage == "" {
		c.LinkedIn.AcceptLanguage = DefaultAcceptLanguage
	}
	if c.LinkedIn.RequestsPerSec <= 0 {
		c.LinkedIn.RequestsPerSec = DefaultLinkedInRPS
	}
}

// Validate checks values that have no sensible fallback.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}
	return nil
}
