package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/docgraph/pkg/diagram"
	"github.com/matzehuels/docgraph/pkg/errors"
	"github.com/matzehuels/docgraph/pkg/pipeline"
)

// errInvalidGraph is returned when validation finds problems; details have
// already been printed.
var errInvalidGraph = stderrors.New("graph failed validation")

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var (
		flags      buildFlags
		allowEmpty bool
	)

	cmd := &cobra.Command{
		Use:   "validate [file|url|-]",
		Short: "Check that a document builds into a well-formed diagram",
		Long: `Check that a document builds into a well-formed diagram.

The document must parse, produce at least one node, and yield a graph with a
single root from which every node is reachable. Duplicate node IDs are
reported as warnings. The command exits non-zero on any failure.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args[0], flags.options(cmd, c.Config), flags.noCache, allowEmpty)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&allowEmpty, "allow-empty", false, "accept documents that produce an empty graph")

	return cmd
}

func (c *CLI) runValidate(ctx context.Context, src string, opts pipeline.Options, noCache, allowEmpty bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	doc, err := c.readDocument(ctx, runner, src, opts)
	if err != nil {
		return err
	}

	g, _, err := runner.BuildWithCacheInfo(ctx, doc, opts)
	if err != nil {
		c.printError("%s: %s", errors.GetCode(err), errors.UserMessage(err))
		return errInvalidGraph
	}

	problems := checkGraph(g, allowEmpty)
	for _, dup := range g.DuplicateIDs() {
		c.printWarning("duplicate node ID %q", dup)
	}
	if len(problems) > 0 {
		for _, p := range problems {
			c.printError("%s", p)
		}
		return errInvalidGraph
	}

	c.printSuccess("%s is valid", src)
	c.printStats(g.NodeCount(), g.ConnectorCount(), false)
	return nil
}

// checkGraph lists everything wrong with g, one message per problem.
func checkGraph(g *diagram.Graph, allowEmpty bool) []string {
	if g.IsEmpty() {
		if allowEmpty {
			return nil
		}
		return []string{"graph is empty: the document has no structured content"}
	}
	err := g.Validate()
	if err == nil {
		return nil
	}
	return strings.Split(err.Error(), "\n")
}
