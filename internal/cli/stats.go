package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/docgraph/pkg/engine"
	"github.com/matzehuels/docgraph/pkg/pipeline"
)

// histogramWidth is the widest bar in the strategy histogram.
const histogramWidth = 24

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "stats [file|url|-]",
		Short: "Summarize the diagram built from a document",
		Long: `Summarize the diagram built from a document.

Prints node, leaf, group, connector and root counts, the deepest level, and
how many arrays were emitted with each strategy. The graph is always rebuilt
so the strategy counts are exact.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.Config)
			opts.Refresh = true
			return c.runStats(cmd.Context(), args[0], opts, flags.noCache)
		},
	}

	flags.register(cmd)
	return cmd
}

func (c *CLI) runStats(ctx context.Context, src string, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	doc, err := c.readDocument(ctx, runner, src, opts)
	if err != nil {
		return err
	}

	opts.Formats = []string{pipeline.FormatJSON}
	result, err := runner.Execute(ctx, doc, opts)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.Stdout, StyleTitle.Render("Graph"))
	fmt.Fprintln(c.Stdout, graphTable(result))
	fmt.Fprintln(c.Stdout)
	fmt.Fprintln(c.Stdout, StyleTitle.Render("Array strategies"))
	fmt.Fprintln(c.Stdout, strategyTable(result.Stats.Strategies))
	return nil
}

// graphTable renders the graph counters.
func graphTable(r *pipeline.Result) string {
	s := r.Stats.Graph
	maxDepth := 0
	for _, d := range r.Graph.Depths() {
		if d > maxDepth {
			maxDepth = d
		}
	}
	anchored := "no"
	if s.Anchored {
		anchored = "yes"
	}

	rows := [][]string{
		{"Nodes", strconv.Itoa(s.Nodes)},
		{"Leaves", strconv.Itoa(s.Leaves)},
		{"Groups", strconv.Itoa(s.Groups)},
		{"Connectors", strconv.Itoa(s.Connectors)},
		{"Roots", strconv.Itoa(s.Roots)},
		{"Anchored", anchored},
		{"Max depth", strconv.Itoa(maxDepth)},
		{"Collisions", strconv.Itoa(r.Stats.Collisions)},
		{"Build time", r.Stats.BuildTime.Round(time.Microsecond).String()},
	}
	return newTable("Metric", "Value").Rows(rows...).Render()
}

// strategyTable renders one row per strategy with a proportional bar.
func strategyTable(counts map[engine.Strategy]int) string {
	peak := 0
	for _, n := range counts {
		if n > peak {
			peak = n
		}
	}

	rows := make([][]string, 0, len(engine.Strategies()))
	for _, s := range engine.Strategies() {
		n := counts[s]
		rows = append(rows, []string{s.String(), strconv.Itoa(n), bar(n, peak)})
	}
	return newTable("Strategy", "Arrays", "").Rows(rows...).Render()
}

func bar(n, peak int) string {
	if peak == 0 || n == 0 {
		return ""
	}
	w := n * histogramWidth / peak
	if w == 0 {
		w = 1
	}
	return strings.Repeat("█", w)
}

func newTable(headers ...string) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorGray).Padding(0, 1)
			case col == 2:
				return lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1)
			default:
				return StyleValue.Padding(0, 1)
			}
		})
}
