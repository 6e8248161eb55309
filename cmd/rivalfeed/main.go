// Package main provides the rivalfeed CLI entry point.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/rivalfeed/internal/api"
	"github.com/gauthierbraillon/rivalfeed/internal/collector"
	"github.com/gauthierbraillon/rivalfeed/internal/content"
	"github.com/gauthierbraillon/rivalfeed/internal/display"
	"github.com/gauthierbraillon/rivalfeed/internal/linkedin"
	"github.com/gauthierbraillon/rivalfeed/internal/sources"
	"github.com/gauthierbraillon/rivalfeed/internal/youtube"
	"github.com/gauthierbraillon/rivalfeed/pkg/browser"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveVersion prefers the ldflags version, then the module version
// recorded by go install.
func resolveVersion(v string, bi *debug.BuildInfo) string {
	if v != "dev" {
		return v
	}
	if bi == nil || bi.Main.Version == "" || bi.Main.Version == "(devel)" {
		return "dev"
	}
	return bi.Main.Version
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	json       bool
}

// newRootCmd creates the root command for rivalfeed CLI.
func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	bi, _ := debug.ReadBuildInfo()

	rootCmd := &cobra.Command{
		Use:          "rivalfeed",
		Short:        "Collect recent public activity about a competitor",
		Long:         "Rivalfeed collects a competitor's recent posts from LinkedIn, RSS/Substack, YouTube, Instagram and TikTok into one newest-first list.",
		Version:      resolveVersion(version, bi),
		SilenceUsage: true,
	}

	rootCmd.SetVersionTemplate("rivalfeed version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().BoolVar(&flags.json, "json", false, "Print JSON instead of formatted text")

	rootCmd.AddCommand(newCollectCmd(flags))
	rootCmd.AddCommand(newLinkedInCmd(flags))
	rootCmd.AddCommand(newRSSCmd(flags))
	rootCmd.AddCommand(newYouTubeCmd(flags))
	rootCmd.AddCommand(newInstagramCmd(flags))
	rootCmd.AddCommand(newTikTokCmd(flags))
	rootCmd.AddCommand(newServeCmd(flags))
	rootCmd.AddCommand(newConfigCmd(flags))

	return rootCmd
}

// newCollectCmd creates the collect subcommand.
func newCollectCmd(flags *globalFlags) *cobra.Command {
	var days float64
	var limit int
	var strategy, list string

	cmd := &cobra.Command{
		Use:   "collect <name>",
		Short: "Collect a competitor's recent content from every selected source",
		Long: "Collect fans out to the selected sources concurrently, then merges, sorts and deduplicates the results.\n" +
			"Strategies: " + strings.Join(sources.StrategyNames(), ", ") + " (default " + sources.DefaultStrategy + ").",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags.configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.collector.Collect(cmd.Context(), collector.Request{
				Name:     args[0],
				Days:     days,
				Limit:    limit,
				Strategy: strategy,
				Sources:  list,
			})
			if err != nil {
				return err
			}

			if flags.json {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sources: %s\n\n", strings.Join(resp.UsedSources, ", "))
			fmt.Fprint(out, display.NewTerminalFormatter().FormatFeed(resp.Items))
			return nil
		},
	}

	cmd.Flags().Float64VarP(&days, "days", "d", collector.DefaultDays, "Only keep content from the last N days")
	cmd.Flags().IntVarP(&limit, "limit", "l", collector.DefaultLimit, "Maximum items per source")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", sources.DefaultStrategy, "Source strategy (all, cheap, social)")
	cmd.Flags().StringVar(&list, "sources", "", "Comma-separated sources, overrides --strategy (rss,linkedin,youtube,instagram,tiktok)")

	return cmd
}

// newLinkedInCmd creates the linkedin subcommand.
func newLinkedInCmd(flags *globalFlags) *cobra.Command {
	var pageURL, slug string
	var days float64
	var limit int
	var open bool

	cmd := &cobra.Command{
		Use:   "linkedin",
		Short: "Fetch a LinkedIn company page's profile and recent posts",
		Long:  "Fetch a public LinkedIn company page by --url or --slug and print its profile and posts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags.configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			target := strings.TrimSpace(pageURL)
			if target == "" && strings.TrimSpace(slug) != "" {
				target = linkedin.CompanyURL(a.linkedInBase(), slug)
			}
			if target == "" {
				return fmt.Errorf("missing target: pass --url or --slug")
			}

			res := a.linkedin.FetchByURL(cmd.Context(), target, days, limit)

			if open {
				if err := browser.Open(target); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Could not open browser: %v\n", err)
				}
			}
			if flags.json {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			formatter := display.NewTerminalFormatter()
			if header := formatter.FormatCompany(res.Company); header != "" {
				fmt.Fprintln(cmd.OutOrStdout(), header)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFeed(res.Items))
			return nil
		},
	}

	cmd.Flags().StringVar(&pageURL, "url", "", "Company page URL")
	cmd.Flags().StringVar(&slug, "slug", "", "Company slug (linkedin.com/company/<slug>)")
	cmd.Flags().Float64VarP(&days, "days", "d", linkedin.DefaultDays, "Only keep posts from the last N days")
	cmd.Flags().IntVarP(&limit, "limit", "l", linkedin.DefaultLimit, "Maximum number of posts (capped at 50)")
	cmd.Flags().BoolVar(&open, "open", false, "Open the company page in the browser")

	return cmd
}

// newRSSCmd creates the rss subcommand.
func newRSSCmd(flags *globalFlags) *cobra.Command {
	var name string
	var feeds []string
	var days float64

	cmd := &cobra.Command{
		Use:   "rss",
		Short: "Fetch recent entries from RSS, Atom or Substack feeds",
		Long:  "Fetch recent entries from the feeds given with --feed, or from the preset feeds of --name.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags.configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if len(feeds) == 0 {
				feeds = a.targets.Lookup(name).RSS
			}
			items := a.rss.FetchPosts(cmd.Context(), feeds, days)
			return printItems(cmd, flags, items)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Target whose preset feeds to read")
	cmd.Flags().StringSliceVarP(&feeds, "feed", "f", nil, "Feed URL (repeatable, overrides --name)")
	cmd.Flags().Float64VarP(&days, "days", "d", collector.DefaultDays, "Only keep entries from the last N days")

	return cmd
}

// newYouTubeCmd creates the youtube subcommand.
func newYouTubeCmd(flags *globalFlags) *cobra.Command {
	var channel, query string
	var days float64
	var limit int

	cmd := &cobra.Command{
		Use:   "youtube",
		Short: "Fetch recent videos of a channel or a search query",
		Long:  "Fetch recent videos with their statistics. Requires YT_API_KEY.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags.configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			items, err := a.youtube.FetchVideos(cmd.Context(), youtube.Query{
				Channel: channel,
				Q:       query,
				Days:    days,
				Limit:   limit,
			})
			if err != nil {
				return err
			}
			return printItems(cmd, flags, items)
		},
	}

	cmd.Flags().StringVarP(&channel, "channel", "c", "", "Channel id (UC...), @handle or name")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Free-text search when no channel matches")
	cmd.Flags().Float64VarP(&days, "days", "d", collector.DefaultDays, "Only keep videos from the last N days")
	cmd.Flags().IntVarP(&limit, "limit", "l", youtube.DefaultLimit, "Maximum number of videos (capped at 50)")

	return cmd
}

// newInstagramCmd creates the instagram subcommand.
func newInstagramCmd(flags *globalFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "instagram <username>",
		Short: "Scrape a profile's latest Instagram posts",
		Long:  "Scrape a profile's latest posts through the scraping actor. Requires APIFY_TOKEN.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags.configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			items, err := a.scraper.ScrapeInstagram(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			return printItems(cmd, flags, items)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", collector.DefaultLimit, "Maximum number of posts (capped at 50)")
	return cmd
}

// newTikTokCmd creates the tiktok subcommand.
func newTikTokCmd(flags *globalFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "tiktok <username>",
		Short: "Scrape a profile's latest TikTok videos",
		Long:  "Scrape a profile's latest videos through the scraping actor. Requires APIFY_TOKEN.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags.configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			items, err := a.scraper.ScrapeTikTok(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			return printItems(cmd, flags, items)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", collector.DefaultLimit, "Maximum number of videos (capped at 20)")
	return cmd
}

// newServeCmd creates the serve subcommand.
func newServeCmd(flags *globalFlags) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the collection endpoints over HTTP",
		Long:  "Serve /sources/collect, /sources/linkedin, /sources/rss, /sources/youtube and /health until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags.configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if port == 0 {
				port = a.cfg.Port
			}
			gin.SetMode(gin.ReleaseMode)
			handler := api.NewHandler(a.collector, a.linkedin, a.rss, a.youtube, a.targets, a.log,
				api.WithLinkedInBase(a.linkedInBase()))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return api.Serve(ctx, ":"+strconv.Itoa(port), api.NewRouter(handler, a.log), a.log)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from PORT or 3001)")
	return cmd
}

// newConfigCmd creates the config subcommand.
func newConfigCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long:  "Show the effective configuration after .env files, the config file and environment overrides. Secrets are masked.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags.configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "YouTube API key:  %s\n", mask(a.cfg.YouTubeAPIKey))
			fmt.Fprintf(out, "Apify token:      %s\n", mask(a.cfg.ApifyToken))
			fmt.Fprintf(out, "Cache:            %s (ttl %s)\n", a.cacheBackend(), a.cfg.Cache.TTL)
			fmt.Fprintf(out, "LinkedIn pacing:  %.1f req/s\n", a.cfg.LinkedIn.RequestsPerSec)
			fmt.Fprintf(out, "Port:             %d\n", a.cfg.Port)
			fmt.Fprintf(out, "Log level:        %s\n", a.cfg.LogLevel)
			fmt.Fprintf(out, "Targets:          %s\n", strings.Join(a.targets.Names(), ", "))
			return nil
		},
	}

	return cmd
}

func printItems(cmd *cobra.Command, flags *globalFlags, items []content.Item) error {
	if items == nil {
		items = []content.Item{}
	}
	if flags.json {
		return writeJSON(cmd.OutOrStdout(), map[string][]content.Item{"items": items})
	}
	fmt.Fprint(cmd.OutOrStdout(), display.NewTerminalFormatter().FormatFeed(items))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func mask(secret string) string {
	if secret == "" {
		return "not set"
	}
	return "set"
}
