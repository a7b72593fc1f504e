// Package mermaid renders diagram graphs as Mermaid flowcharts.
//
// Mermaid node IDs are restricted to a small alphabet, so nodes are
// renamed n0, n1, ... in graph order and the original ID survives only in
// a comment line. Nodes sharing an ID map to the first of them, matching
// how connectors resolve IDs.
package mermaid

import (
	"fmt"
	"strings"

	"github.com/matzehuels/docgraph/pkg/diagram"
)

// Options configures flowchart output.
type Options struct {
	// Direction is the flowchart direction (TD, LR, BT, RL). Empty means TD.
	Direction string
}

// ToMermaid converts a graph to Mermaid flowchart text with default options.
func ToMermaid(g *diagram.Graph) string {
	return Render(g, Options{})
}

// Render converts a graph to Mermaid flowchart text.
func Render(g *diagram.Graph, opts Options) string {
	dir := strings.ToUpper(opts.Direction)
	switch dir {
	case "TD", "TB", "LR", "BT", "RL":
	default:
		dir = "TD"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "flowchart %s\n", dir)

	names := make(map[string]string, len(g.Nodes))
	for i, n := range g.Nodes {
		if _, seen := names[n.ID]; seen {
			continue
		}
		name := fmt.Sprintf("n%d", i)
		names[n.ID] = name
		fmt.Fprintf(&b, "  %%%% %s\n", commentEscaper.Replace(n.ID))
		fmt.Fprintf(&b, "  %s%s\n", name, shape(n))
	}

	for _, c := range g.Connectors {
		src, ok1 := names[c.SourceID]
		tgt, ok2 := names[c.TargetID]
		if !ok1 || !ok2 {
			continue
		}
		fmt.Fprintf(&b, "  %s --> %s\n", src, tgt)
	}
	return b.String()
}

func shape(n diagram.Node) string {
	switch {
	case n.IsAnchor():
		return "(( ))"
	case n.IsLeaf:
		return `["` + label(n) + `"]`
	default:
		return `("` + label(n) + `")`
	}
}

var labelEscaper = strings.NewReplacer(
	`"`, "#quot;",
	"<", "#lt;",
	">", "#gt;",
	"\n", "<br/>",
)

// commentEscaper keeps a node ID on its comment line.
var commentEscaper = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func label(n diagram.Node) string {
	text := n.MergedContent
	if text == "" {
		text = n.Title
	}
	return labelEscaper.Replace(text)
}
