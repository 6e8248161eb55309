// Package collector runs the selected source fetchers for a target
// concurrently and merges their output into one deduplicated, newest-first
// list.
//
// This package enables rivalfeed to:
// - Resolve a target name to its per-source identifiers
// - Select sources from a strategy or an explicit list
// - Fan out to every selected source and wait for all of them
// - Merge, sort and deduplicate across sources
package collector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/gauthierbraillon/rivalfeed/internal/content"
	"github.com/gauthierbraillon/rivalfeed/internal/logger"
	"github.com/gauthierbraillon/rivalfeed/internal/sources"
	"github.com/gauthierbraillon/rivalfeed/internal/targets"
)

const (
	// DefaultDays is the collection window when the request has none.
	DefaultDays = 7
	// DefaultLimit is the per-source result limit when the request has none.
	DefaultLimit = 12
)

// ErrNoTarget is returned when a request names no target.
var ErrNoTarget = errors.New("no target name given")

// Request describes one collection.
type Request struct {
	Name     string
	Days     float64
	Limit    int
	Strategy string
	Sources  string
}

// Response is the merged result. UsedSources lists the selected sources in
// canonical order.
type Response struct {
	Items       []content.Item `json:"items"`
	UsedSources []string       `json:"usedSources"`
}

// Target is what each source receives: the raw name, its preset and the
// normalized window and limit.
type Target struct {
	Name   string
	Preset targets.Preset
	Days   float64
	Limit  int
}

// SourceFunc fetches one source for a target. It never fails: errors are
// logged and reported as an empty list.
type SourceFunc func(ctx context.Context, t Target) []content.Item

// Option configures the Collector.
type Option func(*Collector)

// WithSource registers the fetcher for src.
func WithSource(src sources.Source, fn SourceFunc) Option {
	return func(c *Collector) {
		c.fetchers[src] = fn
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Collector) {
		c.log = log
	}
}

// Collector fans a request out to its sources.
type Collector struct {
	targets  *targets.Registry
	fetchers map[sources.Source]SourceFunc
	log      logger.Logger
}

// New creates a Collector resolving names through registry.
func New(registry *targets.Registry, opts ...Option) *Collector {
	c := &Collector{
		targets:  registry,
		fetchers: map[sources.Source]SourceFunc{},
		log:      logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect runs every selected source concurrently, waits for all of them
// and merges the results. Only a missing target name is an error; source
// failures contribute nothing.
func (c *Collector) Collect(ctx context.Context, req Request) (Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Response{}, ErrNoTarget
	}

	target := Target{
		Name:   name,
		Preset: c.targets.Lookup(name),
		Days:   req.Days,
		Limit:  req.Limit,
	}
	if target.Days <= 0 || math.IsNaN(target.Days) || math.IsInf(target.Days, 0) {
		target.Days = DefaultDays
	}
	if target.Limit <= 0 {
		target.Limit = DefaultLimit
	}

	selected := sources.Select(req.Strategy, req.Sources)
	results := make([][]content.Item, len(sources.All))

	var wg sync.WaitGroup
	for i, src := range sources.All {
		fetch, ok := c.fetchers[src]
		if !ok || !selected.Has(src) {
			continue
		}
		wg.Add(1)
		go func(i int, src sources.Source, fetch SourceFunc) {
			defer wg.Done()
			results[i] = c.run(ctx, src, fetch, target)
		}(i, src, fetch)
	}
	wg.Wait()

	items := Merge(results...)
	c.log.Info("collection finished",
		logger.String("target", name),
		logger.Strings("sources", selected.List()),
		logger.Int("items", len(items)),
	)
	return Response{Items: items, UsedSources: selected.List()}, nil
}

// run isolates one source: a panic is logged and yields nothing.
func (c *Collector) run(ctx context.Context, src sources.Source, fetch SourceFunc, t Target) (items []content.Item) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("source panicked",
				logger.String("source", string(src)),
				logger.String("target", t.Name),
				logger.Error(fmt.Errorf("%v", r)),
			)
			items = nil
		}
	}()
	return fetch(ctx, t)
}
