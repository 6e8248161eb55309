// Package sources maps a request's strategy name or explicit source list
// to the set of fetchers a collection runs.
package sources

import (
	"sort"
	"strings"
)

// Source is a recognized fetcher tag.
type Source string

const (
	RSS       Source = "rss"
	LinkedIn  Source = "linkedin"
	YouTube   Source = "youtube"
	Instagram Source = "instagram"
	TikTok    Source = "tiktok"
)

// All lists every recognized source in canonical order.
var All = []Source{RSS, LinkedIn, YouTube, Instagram, TikTok}

// Strategy names.
const (
	StrategyAll    = "all"
	StrategyCheap  = "cheap"
	StrategySocial = "social"

	DefaultStrategy = StrategyCheap
)

var strategies = map[string][]Source{
	StrategyAll:    All,
	StrategyCheap:  {RSS, LinkedIn, YouTube},
	StrategySocial: {LinkedIn, YouTube, Instagram, TikTok},
}

// Strategies returns the recognized strategy names and their sources.
func Strategies() map[string][]Source {
	out := make(map[string][]Source, len(strategies))
	for k, v := range strategies {
		out[k] = append([]Source(nil), v...)
	}
	return out
}

// StrategyNames returns the recognized strategy names, sorted.
func StrategyNames() []string {
	names := make([]string, 0, len(strategies))
	for k := range strategies {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Valid reports whether s is a recognized source.
func (s Source) Valid() bool {
	for _, known := range All {
		if s == known {
			return true
		}
	}
	return false
}

// Set is an unordered set of sources.
type Set map[Source]struct{}

// Has reports membership.
func (s Set) Has(src Source) bool {
	_, ok := s[src]
	return ok
}

// List returns the members in canonical order.
func (s Set) List() []string {
	out := make([]string, 0, len(s))
	for _, src := range All {
		if s.Has(src) {
			out = append(out, string(src))
		}
	}
	return out
}

// Select resolves a strategy name and a comma-separated source list. A
// non-empty list overrides the strategy; unknown names are dropped; an
// empty outcome falls back to the default strategy.
func Select(strategy, list string) Set {
	requested := strategies[strings.ToLower(strings.TrimSpace(strategy))]
	if strings.TrimSpace(list) != "" {
		requested = nil
		for _, part := range strings.Split(list, ",") {
			if name := strings.ToLower(strings.TrimSpace(part)); name != "" {
				requested = append(requested, Source(name))
			}
		}
	}

	set := Set{}
	for _, src := range requested {
		if src.Valid() {
			set[src] = struct{}{}
		}
	}
	if len(set) == 0 {
		for _, src := range strategies[DefaultStrategy] {
			set[src] = struct{}{}
		}
	}
	return set
}
