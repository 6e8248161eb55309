package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultCacheTTL, cfg.Cache.TTL)
	assert.Equal(t, DefaultUserAgent, cfg.LinkedIn.UserAgent)
	assert.Equal(t, DefaultAcceptLanguage, cfg.LinkedIn.AcceptLanguage)
	assert.InDelta(t, DefaultLinkedInRPS, cfg.LinkedIn.RequestsPerSec, 0.001)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestLoad_YAMLThenEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rivalfeed.yml")
	yml := `
youtube_api_key: from-yaml
port: 8080
cache:
  ttl: 10m
  redis_address: localhost:6379
linkedin:
  accept_language: en-US
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("YT_API_KEY", "from-env")
	t.Setenv("RIVALFEED_LINKEDIN_RPS", "0.5")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.YouTubeAPIKey, "environment should win over YAML")
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddress)
	assert.Equal(t, "en-US", cfg.LinkedIn.AcceptLanguage)
	assert.InDelta(t, 0.5, cfg.LinkedIn.RequestsPerSec, 0.001)
}

func TestLoad_EmptyEnvKeepsYAMLValue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rivalfeed.yml")
	require.NoError(t, os.WriteFile(path, []byte("apify_token: from-yaml\nlog_level: debug\n"), 0o600))
	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("APIFY_TOKEN", "")
	t.Setenv("RIVALFEED_CACHE_TTL", "90s")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "from-yaml", cfg.ApifyToken)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL, "durations parse from the environment")
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("APIFY_TOKEN=token-from-file\n"), 0o600))
	t.Setenv("ENV_FILE", envPath)
	t.Setenv("APIFY_TOKEN", "")
	require.NoError(t, os.Unsetenv("APIFY_TOKEN"))

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "token-from-file", cfg.ApifyToken)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	t.Setenv("PORT", "not-a-number")
	_, err := Load("")
	require.Error(t, err)

	t.Setenv("PORT", "70000")
	_, err = Load("")
	require.ErrorIs(t, err, ErrInvalidPort)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))

	require.Error(t, err)
}
