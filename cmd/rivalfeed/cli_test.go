// Package main tests document the expected behavior of the rivalfeed CLI.
//
// These are BLACK BOX tests - they test the CLI by executing the binary
// and checking stdout/stderr output.
//
// External dependencies mocked:
// - Every upstream (LinkedIn pages, YouTube API, scraping actors, feeds)
//   via the contracts stub server and RIVALFEED_API_URL
// - Target presets via RIVALFEED_TARGETS_FILE
//
// Test requirements (this file serves as documentation):
// - CLI has root command with version info
// - "collect" merges the selected sources newest first
// - "linkedin" needs --url or --slug and prints the company profile
// - "rss", "youtube" and "tiktok" print their source's items
// - Missing credentials are reported, not silently ignored
// - "config" shows the effective configuration with secrets masked
package main

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gauthierbraillon/rivalfeed/internal/collector"
	"github.com/gauthierbraillon/rivalfeed/internal/content"
	"github.com/gauthierbraillon/rivalfeed/internal/linkedin"
	"github.com/gauthierbraillon/rivalfeed/pkg/contracts"
)

var binaryPath string

// TestMain builds the binary once before running tests.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "rivalfeed-test")
	if err != nil {
		panic(err)
	}

	binaryPath = filepath.Join(dir, "rivalfeed")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Dir = "."
	if err := cmd.Run(); err != nil {
		os.RemoveAll(dir)
		panic("failed to build binary: " + err.Error())
	}

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

// runCLI executes the CLI binary with given arguments and environment.
func runCLI(t *testing.T, env map[string]string, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)

	// Isolate from the developer's credentials and .env files.
	cmd.Env = append(os.Environ(),
		"ENV_FILE="+filepath.Join(t.TempDir(), "none.env"),
		"YT_API_KEY=",
		"APIFY_TOKEN=",
		"REDIS_ADDRESS=",
		"LOG_LEVEL=error",
	)
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	exitCode = 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	} else if err != nil {
		t.Fatalf("failed to run command: %v", err)
	}

	return outBuf.String(), errBuf.String(), exitCode
}

// runCLISimple runs CLI without custom environment.
func runCLISimple(t *testing.T, args ...string) (stdout, stderr string, exitCode int) {
	return runCLI(t, nil, args...)
}

// stubEnv starts the contracts stub and returns an environment that points
// every upstream at it, with credentials set and an acme-corp preset.
func stubEnv(t *testing.T) (map[string]string, string) {
	t.Helper()
	server := httptest.NewServer(contracts.NewStubHandler())
	t.Cleanup(server.Close)

	targetsFile := filepath.Join(t.TempDir(), "targets.yaml")
	preset := "targets:\n  acme-corp:\n    rss:\n      - " + server.URL + "/feed\n    youtube: \"@acme\"\n"
	if err := os.WriteFile(targetsFile, []byte(preset), 0o600); err != nil {
		t.Fatal(err)
	}

	return map[string]string{
		"RIVALFEED_API_URL":      server.URL,
		"RIVALFEED_TARGETS_FILE": targetsFile,
		"YT_API_KEY":             "test-key",
		"APIFY_TOKEN":            "test-token",
	}, server.URL
}

// TestRootCommand_Help verifies help output shows available commands.
func TestRootCommand_Help(t *testing.T) {
	stdout, _, _ := runCLISimple(t, "--help")
	output := strings.ToLower(stdout)

	expects := []string{"rivalfeed", "usage", "collect", "linkedin", "rss", "youtube", "serve", "config"}
	for _, want := range expects {
		if !strings.Contains(output, want) {
			t.Errorf("help should contain %q, got:\n%s", want, stdout)
		}
	}
}

// TestRootCommand_Version verifies version output.
func TestRootCommand_Version(t *testing.T) {
	stdout, _, _ := runCLISimple(t, "--version")

	if !strings.HasPrefix(stdout, "rivalfeed version ") {
		t.Errorf("version should show rivalfeed and version, got:\n%s", stdout)
	}
}

// TestCollectCommand_RequiresName verifies collect needs a target name.
func TestCollectCommand_RequiresName(t *testing.T) {
	_, stderr, exitCode := runCLISimple(t, "collect")

	if exitCode == 0 {
		t.Error("should fail without a target name")
	}
	if !strings.Contains(stderr, "accepts 1 arg") {
		t.Errorf("error should explain the missing argument, got:\n%s", stderr)
	}
}

// TestCollectCommand_Help verifies collect help shows selection options.
func TestCollectCommand_Help(t *testing.T) {
	stdout, _, _ := runCLISimple(t, "collect", "--help")

	for _, want := range []string{"--days", "--limit", "--strategy", "--sources", "cheap"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("collect help should contain %q, got:\n%s", want, stdout)
		}
	}
}

// TestCollectCommand_MergesSources verifies the end-to-end collection.
func TestCollectCommand_MergesSources(t *testing.T) {
	env, _ := stubEnv(t)

	stdout, stderr, exitCode := runCLI(t, env, "collect", "acme-corp", "--sources", "rss,linkedin,youtube", "--json")

	if exitCode != 0 {
		t.Fatalf("collect should succeed, stderr:\n%s", stderr)
	}
	var resp collector.Response
	if err := json.Unmarshal([]byte(stdout), &resp); err != nil {
		t.Fatalf("output should be JSON: %v\n%s", err, stdout)
	}
	if strings.Join(resp.UsedSources, ",") != "rss,linkedin,youtube" {
		t.Errorf("expected the three selected sources, got %v", resp.UsedSources)
	}
	// The LinkedIn post and the stale feed entry are outside the 7 day window.
	if len(resp.Items) != 3 {
		t.Fatalf("user should see 3 items, got %d: %+v", len(resp.Items), resp.Items)
	}
	if resp.Items[0].Title != "fresh post" || resp.Items[0].Type != content.TypeBlog {
		t.Errorf("user should see the fresh blog post first, got %+v", resp.Items[0])
	}
	for i, id := range []string{"yt-vid-hidden", "yt-vid-launch"} {
		if resp.Items[i+1].ID != id {
			t.Errorf("position %d: user should see %s, got %s", i+2, id, resp.Items[i+1].ID)
		}
	}
}

// TestCollectCommand_TextOutput verifies the formatted feed.
func TestCollectCommand_TextOutput(t *testing.T) {
	env, _ := stubEnv(t)

	stdout, _, exitCode := runCLI(t, env, "collect", "acme-corp", "--sources", "youtube")

	if exitCode != 0 {
		t.Fatalf("collect should succeed, got exit %d", exitCode)
	}
	for _, want := range []string{"Sources: youtube", "[YOUTUBE] Acme Launch Keynote", "15230 views • 410 likes • 37 comments", "https://youtu.be/vid-launch"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("user should see %q, got:\n%s", want, stdout)
		}
	}
}

// TestLinkedInCommand_RequiresTarget verifies linkedin needs --url or --slug.
func TestLinkedInCommand_RequiresTarget(t *testing.T) {
	_, stderr, exitCode := runCLISimple(t, "linkedin")

	if exitCode == 0 {
		t.Error("should fail without --url or --slug")
	}
	if !strings.Contains(stderr, "--url or --slug") {
		t.Errorf("error should mention --url or --slug, got:\n%s", stderr)
	}
}

// TestLinkedInCommand_FetchesCompanyPage verifies the slug lookup.
func TestLinkedInCommand_FetchesCompanyPage(t *testing.T) {
	env, _ := stubEnv(t)

	stdout, stderr, exitCode := runCLI(t, env, "linkedin", "--slug", contracts.LinkedInSlug, "--json")

	if exitCode != 0 {
		t.Fatalf("linkedin should succeed, stderr:\n%s", stderr)
	}
	var res linkedin.Result
	if err := json.Unmarshal([]byte(stdout), &res); err != nil {
		t.Fatalf("output should be JSON: %v\n%s", err, stdout)
	}
	if res.Company == nil || res.Company.Name != "Acme Corp" {
		t.Errorf("user should see the company profile, got %+v", res.Company)
	}
	if len(res.Items) != 1 || res.Items[0].ID != "li-"+contracts.LinkedInActivity {
		t.Errorf("user should see one reconciled post, got %+v", res.Items)
	}
}

// TestLinkedInCommand_UnknownPageIsEmpty verifies fetch failures degrade.
func TestLinkedInCommand_UnknownPageIsEmpty(t *testing.T) {
	env, _ := stubEnv(t)

	stdout, _, exitCode := runCLI(t, env, "linkedin", "--slug", "nobody")

	if exitCode != 0 {
		t.Errorf("a missing page should not fail the command, got exit %d", exitCode)
	}
	if !strings.Contains(stdout, "No items to display.") {
		t.Errorf("user should see an empty feed, got:\n%s", stdout)
	}
}

// TestRSSCommand_FiltersByWindow verifies explicit feeds and the day window.
func TestRSSCommand_FiltersByWindow(t *testing.T) {
	env, url := stubEnv(t)

	stdout, _, exitCode := runCLI(t, env, "rss", "--feed", url+"/feed", "--days", "30")

	if exitCode != 0 {
		t.Fatalf("rss should succeed, got exit %d", exitCode)
	}
	if !strings.Contains(stdout, "[BLOG] fresh post") {
		t.Errorf("user should see the recent entry, got:\n%s", stdout)
	}
	if strings.Contains(stdout, "stale post") {
		t.Errorf("user should not see entries older than the window, got:\n%s", stdout)
	}
}

// TestYouTubeCommand_RequiresAPIKey verifies the missing key is reported.
func TestYouTubeCommand_RequiresAPIKey(t *testing.T) {
	_, stderr, exitCode := runCLISimple(t, "youtube", "--channel", "@acme")

	if exitCode == 0 {
		t.Error("should fail without YT_API_KEY")
	}
	if !strings.Contains(stderr, "YT_API_KEY") {
		t.Errorf("error should mention YT_API_KEY, got:\n%s", stderr)
	}
}

// TestTikTokCommand_PrintsVideos verifies the scraping actor path.
func TestTikTokCommand_PrintsVideos(t *testing.T) {
	env, _ := stubEnv(t)

	stdout, stderr, exitCode := runCLI(t, env, "tiktok", "acme", "--json")

	if exitCode != 0 {
		t.Fatalf("tiktok should succeed, stderr:\n%s", stderr)
	}
	if !strings.Contains(stdout, `"id": "tt-`+contracts.TikTokVideoID+`"`) {
		t.Errorf("user should see the scraped video, got:\n%s", stdout)
	}
}

// TestConfigCommand_MasksSecrets verifies config never prints credentials.
func TestConfigCommand_MasksSecrets(t *testing.T) {
	env, _ := stubEnv(t)

	stdout, _, exitCode := runCLI(t, env, "config")

	if exitCode != 0 {
		t.Fatalf("config should succeed, got exit %d", exitCode)
	}
	if strings.Contains(stdout, "test-key") || strings.Contains(stdout, "test-token") {
		t.Errorf("config must not print secrets, got:\n%s", stdout)
	}
	for _, want := range []string{"YouTube API key:  set", "Cache:            memory", "acme-corp", "devfirst"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("config should show %q, got:\n%s", want, stdout)
		}
	}
}
