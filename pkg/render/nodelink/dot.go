package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/docgraph/pkg/diagram"
)

// Rank directions accepted by Options.Rankdir.
var rankdirs = map[string]bool{"TB": true, "LR": true, "BT": true, "RL": true}

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed appends the node's path to every label.
	Detailed bool

	// Rankdir is the Graphviz rank direction. Empty means TB.
	Rankdir string
}

// ValidateRankdir reports whether dir is a Graphviz rank direction.
func ValidateRankdir(dir string) error {
	if dir == "" || rankdirs[strings.ToUpper(dir)] {
		return nil
	}
	return fmt.Errorf("invalid rankdir: %q (must be one of: TB, LR, BT, RL)", dir)
}

// ToDOT converts a graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// Nodes sharing an ID collapse into one DOT node, which is how Graphviz
// shows an ID collision.
func ToDOT(g *diagram.Graph, opts Options) string {
	rankdir := strings.ToUpper(opts.Rankdir)
	if !rankdirs[rankdir] {
		rankdir = "TB"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, c := range g.Connectors {
		fmt.Fprintf(&buf, "  %q -> %q;\n", c.SourceID, c.TargetID)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n diagram.Node, detailed bool) string {
	if n.IsAnchor() {
		return ""
	}
	label := n.MergedContent
	if label == "" {
		label = n.Title
	}
	if detailed && n.Path != "" {
		label += "\n" + n.Path
	}
	return label
}

func fmtAttrs(n diagram.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case n.IsAnchor():
		attrs = append(attrs, "shape=circle", "width=0.3", "fixedsize=true", "fillcolor=lightgrey")
	case n.IsLeaf:
		attrs = append(attrs, "shape=note", "style=filled", "fillcolor=\"#f7f7f7\"")
	default:
		attrs = append(attrs, "fillcolor=\"#dbe9f6\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	data, err := render(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(data), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized svg tag with one whose
// width and height match its viewBox, so the image scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
