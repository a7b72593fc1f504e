// Package pipeline provides the document-to-diagram pipeline for docgraph.
//
// This package implements the complete read → build → render pipeline used
// by the CLI and the HTTP service. By centralizing this logic, every entry
// point caches, logs and validates the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Read: Load the document from a file, stdin or an http(s) URL
//  2. Build: Parse the document and run the engine to get a diagram graph
//  3. Render: Generate output in various formats (JSON, DOT, SVG, PNG, Mermaid)
//
// Build results are cached by document hash plus build options, artifacts
// by graph hash plus render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, doc, pipeline.Options{
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	g, err := runner.Build(ctx, doc, opts)
//	artifacts, err := runner.Render(ctx, g, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/docgraph/pkg/cache"
	"github.com/matzehuels/docgraph/pkg/diagram"
	"github.com/matzehuels/docgraph/pkg/document"
	"github.com/matzehuels/docgraph/pkg/engine"
	"github.com/matzehuels/docgraph/pkg/errors"
	"github.com/matzehuels/docgraph/pkg/render/nodelink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// DefaultMaxDepth is the recursion guard handed to the engine.
const DefaultMaxDepth = engine.DefaultMaxDepth

// Format constants for output formats.
const (
	FormatJSON    = "json"
	FormatDOT     = "dot"
	FormatSVG     = "svg"
	FormatPNG     = "png"
	FormatMermaid = "mermaid"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:    true,
	FormatDOT:     true,
	FormatSVG:     true,
	FormatPNG:     true,
	FormatMermaid: true,
}

// ContentType maps an output format to its MIME type.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Build options
	Format    string `json:"format,omitempty"` // auto, json or xml
	MaxDepth  int    `json:"max_depth,omitempty"`
	UniqueIDs bool   `json:"unique_ids,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Rankdir  string   `json:"rankdir,omitempty"`

	// MaxSize caps document size in bytes. Zero means errors.DefaultMaxDocumentSize.
	MaxSize int64 `json:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the built diagram graph.
	Graph *diagram.Graph

	// DocHash is the content hash of the input document.
	DocHash string

	// GraphHash is the content hash of the serialized graph.
	GraphHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Graph diagram.Stats

	// Strategies counts arrays per strategy. Empty when the build was cached.
	Strategies map[engine.Strategy]int

	// Collisions counts node IDs derived more than once.
	Collisions int

	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool // Whether the graph came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that an output format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid output format: %q (must be one of: json, dot, svg, png, mermaid)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForBuild checks build options and applies their defaults.
func (o *Options) ValidateForBuild() error {
	format, err := document.ParseFormat(o.Format)
	if err != nil {
		return err
	}
	o.Format = string(format)

	if err := errors.ValidateMaxDepth(o.MaxDepth); err != nil {
		return err
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxSize <= 0 {
		o.MaxSize = errors.DefaultMaxDocumentSize
	}
	o.setLogger()
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := nodelink.ValidateRankdir(o.Rankdir); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOptions, err, "rankdir")
	}
	return nil
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// EngineOptions returns the engine options for a build.
func (o *Options) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithMaxDepth(o.MaxDepth),
		engine.WithUniqueIDs(o.UniqueIDs),
	}
}

// GraphKeyOpts returns cache key options for a build.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		Format:    o.Format,
		MaxDepth:  o.MaxDepth,
		UniqueIDs: o.UniqueIDs,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed,
		Rankdir:  o.Rankdir,
	}
}
