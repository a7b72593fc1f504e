package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/docgraph/internal/server"
	"github.com/matzehuels/docgraph/pkg/observability"
)

// serveCommand creates the serve command that runs the HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the docgraph HTTP and WebSocket service",
		Long: `Run the docgraph HTTP and WebSocket service.

Endpoints:
  POST /v1/graph        build a document into graph JSON
  POST /v1/render       render a document (svg, png, dot, mermaid, json)
  GET  /v1/live         WebSocket live session, one snapshot per message
  GET  /v1/sessions/ID  last state of a live session
  GET  /healthz         build information

The cache and session backends come from the [cache] and [session] config
sections.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	cfg := c.Config

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	store, err := cfg.Session.OpenStore(ctx)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	observability.SetSessionHooks(sessionLogHooks{logger: c.Logger})

	c.Logger.Info("starting server",
		"addr", cfg.Server.Addr,
		"cache", cfg.Cache.Backend,
		"sessions", cfg.Session.Backend)

	srv := server.New(runner, store, server.Config{
		Addr:            cfg.Server.Addr,
		Defaults:        cfg.PipelineOptions(),
		SessionTTL:      cfg.Session.TTL.Duration,
		ReadTimeout:     cfg.Server.ReadTimeout.Duration,
		WriteTimeout:    cfg.Server.WriteTimeout.Duration,
		ShutdownTimeout: cfg.Server.ShutdownTimeout.Duration,
		Logger:          c.Logger,
	})
	return srv.Run(ctx)
}
