package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/docgraph/pkg/cache"
	"github.com/matzehuels/docgraph/pkg/diagram"
	"github.com/matzehuels/docgraph/pkg/document"
	"github.com/matzehuels/docgraph/pkg/engine"
	"github.com/matzehuels/docgraph/pkg/errors"
	"github.com/matzehuels/docgraph/pkg/httputil"
	"github.com/matzehuels/docgraph/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, fetcher and logger - it
// doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Fetcher *httputil.Fetcher
	Logger  *log.Logger

	// TTL overrides cache.GraphTTL and cache.ArtifactTTL when non-zero.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Fetcher: httputil.NewFetcher(c, keyer),
		Logger:  logger,
	}
}

// Execute runs the complete build → render pipeline with caching.
//
// When the document is invalid the returned error is coded
// INVALID_DOCUMENT (or DEPTH_EXCEEDED) and the result still carries the
// empty graph, so callers can show it.
func (r *Runner) Execute(ctx context.Context, doc []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		DocHash:   cache.Hash(doc),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Build
	buildStart := time.Now()
	built, hit, err := r.build(ctx, doc, result.DocHash, opts)
	result.Stats.BuildTime = time.Since(buildStart)
	if built != nil {
		result.Graph = built.Graph
		result.Stats.Strategies = built.Strategies
		result.Stats.Collisions = built.Collisions
	}
	if err != nil {
		return result, fmt.Errorf("build: %w", err)
	}
	result.CacheInfo.BuildHit = hit
	result.Stats.Graph = result.Graph.Stats()

	r.Logger.Info("built graph",
		"nodes", result.Stats.Graph.Nodes,
		"connectors", result.Stats.Graph.Connectors,
		"cached", hit,
		"duration", result.Stats.BuildTime)

	// Stage 2: Render
	renderStart := time.Now()
	graphHash, artifacts, renderHit, err := r.render(ctx, result.Graph, opts)
	if err != nil {
		return result, fmt.Errorf("render: %w", err)
	}
	result.GraphHash = graphHash
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// BuildWithCacheInfo builds a graph with caching and returns cache hit info.
// On an invalid document the graph is empty and err is non-nil.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, doc []byte, opts Options) (*diagram.Graph, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForBuild(); err != nil {
		return nil, false, err
	}
	res, hit, err := r.build(ctx, doc, cache.Hash(doc), opts)
	if res == nil {
		return nil, hit, err
	}
	return res.Graph, hit, err
}

// Build is a convenience wrapper that calls BuildWithCacheInfo and discards the cache hit info.
func (r *Runner) Build(ctx context.Context, doc []byte, opts Options) (*diagram.Graph, error) {
	g, _, err := r.BuildWithCacheInfo(ctx, doc, opts)
	return g, err
}

func (r *Runner) build(ctx context.Context, doc []byte, docHash string, opts Options) (*engine.Result, bool, error) {
	// Empty input reaches the engine, which reports it as an invalid document.
	if int64(len(doc)) > opts.MaxSize {
		return &engine.Result{Graph: diagram.New()}, false, errors.ValidateDocumentSize(int64(len(doc)), opts.MaxSize)
	}

	cacheKey := r.Keyer.GraphKey(docHash, opts.GraphKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if g, err := diagram.ReadGraph(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, "graph")
				return &engine.Result{Graph: g}, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "graph")
	}

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, opts.Format, len(doc))
	start := time.Now()

	res, err := engine.FromBytes(doc, document.Format(opts.Format), opts.EngineOptions()...)
	hooks.OnBuildComplete(ctx, opts.Format, res.Graph.NodeCount(), time.Since(start), err)
	if err != nil {
		opts.Logger.Debug("document rejected", "code", errors.GetCode(err), "err", err)
		return res, false, err
	}
	if res.Collisions > 0 {
		opts.Logger.Warn("node IDs derived more than once", "collisions", res.Collisions, "unique_ids", opts.UniqueIDs)
	}

	// Invalid documents are never cached; valid ones are cached even on refresh.
	if data, err := diagram.MarshalGraph(res.Graph); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.GraphTTL)); err == nil {
			observability.Cache().OnCacheSet(ctx, "graph", len(data))
		}
	}

	return res, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *diagram.Graph, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	_, artifacts, hit, err := r.render(ctx, g, opts)
	return artifacts, hit, err
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g *diagram.Graph, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, opts)
	return artifacts, err
}

func (r *Runner) render(ctx context.Context, g *diagram.Graph, opts Options) (string, map[string][]byte, bool, error) {
	graphData, err := diagram.MarshalGraph(g)
	if err != nil {
		return "", nil, false, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	graphHash := cache.Hash(graphData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			break
		}
		observability.Cache().OnCacheHit(ctx, "artifact")
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return graphHash, artifacts, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(g, graphData, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return graphHash, nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.ArtifactTTL)); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return graphHash, rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
