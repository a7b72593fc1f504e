package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/docgraph/pkg/diagram"
	"github.com/matzehuels/docgraph/pkg/pipeline"
)

// buildCommand creates the build command for converting a document to graph.json.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		flags  buildFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "build [file|url|-]",
		Short: "Build a diagram graph from a JSON or XML document",
		Long: `Build a diagram graph from a JSON or XML document.

The input may be a file, an http(s) URL, or "-" for stdin. The graph is
written as JSON to stdout, or to the file named by --output.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd.Context(), args[0], flags.options(cmd, c.Config), flags.noCache, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

// runBuild reads the document, builds the graph and writes it out.
func (c *CLI) runBuild(ctx context.Context, src string, opts pipeline.Options, noCache bool, output string) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	doc, err := c.readDocument(ctx, runner, src, opts)
	if err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(ctx))
	g, cacheHit, err := runner.BuildWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return fmt.Errorf("build %s: %w", src, err)
	}
	prog.done("Built graph", "nodes", g.NodeCount(), "cached", cacheHit)

	if output == "" {
		return diagram.WriteGraph(g, c.Stdout)
	}
	if err := diagram.WriteGraphFile(g, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	c.printSuccess("Graph built")
	c.printFile(output)
	c.printStats(g.NodeCount(), g.ConnectorCount(), cacheHit)
	c.printNextStep("Render", "docgraph render "+src)
	return nil
}
