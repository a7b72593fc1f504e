// Package nodelink renders diagram graphs as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz:
// group nodes appear as rounded boxes labeled with their key and child
// count badge, merged leaves as note-shaped boxes holding one "key: value"
// line per field, and the artificial anchor as a small empty circle.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG or PNG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//	png, err := nodelink.RenderPNG(dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: node labels also carry the node's path
//   - Rankdir: Graphviz rank direction (TB by default, LR for wide documents)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz], which runs Graphviz
// compiled to WebAssembly, so no system Graphviz install is needed.
package nodelink
