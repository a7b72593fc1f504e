package pipeline

import (
	"fmt"

	"github.com/matzehuels/docgraph/pkg/diagram"
	"github.com/matzehuels/docgraph/pkg/render/mermaid"
	"github.com/matzehuels/docgraph/pkg/render/nodelink"
)

// Render generates output artifacts in the requested formats. graphJSON is
// the graph's serialized form when the caller already has it; nil means
// marshal on demand.
func Render(g *diagram.Graph, graphJSON []byte, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var dot string
	dotFor := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed, Rankdir: opts.Rankdir})
		}
		return dot
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data = graphJSON
			if data == nil {
				data, err = diagram.MarshalGraph(g)
			}
		case FormatDOT:
			data = []byte(dotFor())
		case FormatSVG:
			data, err = nodelink.RenderSVG(dotFor())
		case FormatPNG:
			data, err = nodelink.RenderPNG(dotFor())
		case FormatMermaid:
			data = []byte(mermaid.Render(g, mermaid.Options{Direction: mermaidDirection(opts.Rankdir)}))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// mermaidDirection maps a Graphviz rankdir onto a flowchart direction.
func mermaidDirection(rankdir string) string {
	if rankdir == "" {
		return "TD"
	}
	return rankdir
}
