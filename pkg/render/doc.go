// Package render turns built diagram graphs into visual outputs.
//
// The engine stops at [diagram.Graph]; everything about how a graph looks
// lives here, in two subpackages:
//
//   - [nodelink]: Graphviz DOT source, rendered in-process to SVG or PNG
//   - [mermaid]: Mermaid flowchart text for Markdown and wiki embedding
//
// JSON output needs no renderer: it is [diagram.MarshalGraph].
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//	md := mermaid.ToMermaid(g)
//
// [diagram.Graph]: github.com/matzehuels/docgraph/pkg/diagram
// [diagram.MarshalGraph]: github.com/matzehuels/docgraph/pkg/diagram
// [nodelink]: github.com/matzehuels/docgraph/pkg/render/nodelink
// [mermaid]: github.com/matzehuels/docgraph/pkg/render/mermaid
package render
