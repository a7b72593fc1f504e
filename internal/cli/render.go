package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/docgraph/pkg/observability"
	"github.com/matzehuels/docgraph/pkg/pipeline"
)

// extensions maps output formats to file extensions.
var extensions = map[string]string{
	pipeline.FormatJSON:    ".json",
	pipeline.FormatDOT:     ".dot",
	pipeline.FormatSVG:     ".svg",
	pipeline.FormatPNG:     ".png",
	pipeline.FormatMermaid: ".mmd",
}

// renderCommand creates the render command for generating visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      buildFlags
		formatsStr string
		output     string
		opts       pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "render [file|url|-]",
		Short: "Render a document as a diagram",
		Long: `Render a document as a diagram.

Supported output formats are json, dot, svg, png and mermaid. With a single
format, --output names the file ("-" writes to stdout). With several
formats, --output is a base path and each format gets its own extension.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			build := flags.options(cmd, c.Config)
			build.Formats = parseFormats(formatsStr)
			build.Detailed = opts.Detailed
			build.Rankdir = opts.Rankdir
			if err := pipeline.ValidateFormats(build.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], build, flags.noCache, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, png, mermaid (comma-separated)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show node paths in DOT/SVG/PNG output")
	cmd.Flags().StringVar(&opts.Rankdir, "rankdir", "", "layout direction: TB (default), LR, BT, RL")

	return cmd
}

// runRender reads the document and renders it to every requested format.
func (c *CLI) runRender(ctx context.Context, src string, opts pipeline.Options, noCache bool, output string) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	doc, err := c.readDocument(ctx, runner, src, opts)
	if err != nil {
		return err
	}

	spin := newSpinner(ctx, c.Stderr, "Rendering...")
	observability.SetPipelineHooks(spinnerHooks{s: spin})
	defer observability.SetPipelineHooks(observability.NoopPipelineHooks{})
	spin.Start()

	result, err := runner.Execute(ctx, doc, opts)
	if err != nil {
		spin.StopWithError("Render failed")
		return err
	}
	spin.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if output == "-" && len(opts.Formats) == 1 {
		_, err := c.Stdout.Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	paths := outputPaths(opts.Formats, src, output)
	for _, format := range opts.Formats {
		if err := os.WriteFile(paths[format], result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[format], err)
		}
	}

	c.printSuccess("Rendered %s", strings.Join(opts.Formats, ", "))
	files := make([]string, 0, len(paths))
	for _, p := range paths {
		files = append(files, p)
	}
	sort.Strings(files)
	for _, p := range files {
		c.printFile(p)
	}
	c.printStats(result.Stats.Graph.Nodes, result.Stats.Graph.Connectors, result.CacheInfo.BuildHit && result.CacheInfo.RenderHit)
	return nil
}

// outputPaths decides the file for each format. A single format with an
// explicit output writes exactly there; otherwise output (or the input name)
// is a base path that gets the format's extension. The input file is never
// overwritten.
func outputPaths(formats []string, src, output string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, src)
	for _, f := range formats {
		p := base + extensions[f]
		if p == src {
			p = base + ".graph" + extensions[f]
		}
		paths[f] = p
	}
	return paths
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .mmd, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return inputBase(input)
	}
	ext := filepath.Ext(output)
	for _, known := range extensions {
		if ext == known {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}
