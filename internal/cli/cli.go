// Package cli implements the docgraph command-line interface.
//
// The CLI turns JSON and XML documents into node/connector diagrams. Every
// command reads its input the same way (a file path, "-" for stdin, or an
// http(s) URL) and runs it through the shared [pipeline.Runner], so results
// are cached exactly like the HTTP service caches them.
//
// # Commands
//
//   - build: Convert a document into graph.json
//   - render: Render a document as JSON, DOT, SVG, PNG or Mermaid
//   - stats: Summarize the graph and the array strategies used
//   - validate: Check that the graph is well formed
//   - browse: Explore the nodes interactively
//   - serve: Run the HTTP/WebSocket service
//   - cache: Manage the local cache
//
// # Configuration
//
// Defaults come from the config file (see internal/config) and may be
// overridden per command with flags.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/docgraph/internal/config"
	"github.com/matzehuels/docgraph/pkg/buildinfo"
	"github.com/matzehuels/docgraph/pkg/cache"
	"github.com/matzehuels/docgraph/pkg/observability"
	"github.com/matzehuels/docgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "docgraph"

	// defaultBaseName names outputs when the input is stdin or a URL.
	defaultBaseName = "graph"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is replaced by the resolved configuration before any
	// subcommand runs.
	Config     *config.Config
	ConfigPath string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "docgraph turns JSON and XML documents into diagrams",
		Long:         `docgraph converts hierarchical JSON and XML documents into node/connector diagrams, merging scalar fields into leaf boxes and grouping structured fields into folders.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/docgraph/config.toml)")

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and attaches the logger to the command
// context.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	observability.SetHTTPHooks(fetchLogHooks{logger: c.Logger})
	observability.SetCacheHooks(cacheLogHooks{logger: c.Logger})
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	r.TTL = c.Config.Cache.TTL.Duration
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.Config.Cache
	if cfg.Backend == config.BackendFile && cfg.Dir == "" {
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		cfg.Dir = dir
	}
	return cfg.OpenCache(ctx)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/docgraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// buildFlags are the build options shared by every command that reads a
// document. Unset flags fall back to the configuration.
type buildFlags struct {
	format    string
	maxDepth  int
	uniqueIDs bool
	refresh   bool
	noCache   bool
}

func (f *buildFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "input-format", "i", "auto", "input format: auto, json, xml")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", pipeline.DefaultMaxDepth, "maximum document nesting depth")
	cmd.Flags().BoolVar(&f.uniqueIDs, "unique-ids", false, "suffix colliding node IDs so every ID is unique")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "bypass cached graphs and downloads")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// options merges the flags over the configured defaults.
func (f *buildFlags) options(cmd *cobra.Command, cfg *config.Config) pipeline.Options {
	opts := cfg.PipelineOptions()
	opts.Format = f.format
	opts.Refresh = f.refresh
	if cmd.Flags().Changed("max-depth") {
		opts.MaxDepth = f.maxDepth
	}
	if cmd.Flags().Changed("unique-ids") {
		opts.UniqueIDs = f.uniqueIDs
	}
	return opts
}

// readDocument loads src (path, URL or "-") through the runner.
func (c *CLI) readDocument(ctx context.Context, runner *pipeline.Runner, src string, opts pipeline.Options) ([]byte, error) {
	return runner.Read(ctx, src, c.Stdin, opts.MaxSize, opts.Refresh)
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// inputBase derives an output base name from an input source.
func inputBase(src string) string {
	if src == pipeline.Stdin || pipeline.IsURL(src) {
		return defaultBaseName
	}
	return strings.TrimSuffix(src, filepath.Ext(src))
}
