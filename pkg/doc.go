// Package pkg provides the core libraries for docgraph.
//
// # Overview
//
// docgraph turns hierarchical documents (JSON values and XML element trees)
// into flat node/connector diagrams. Scalar fields merge into leaf boxes,
// structured fields become group nodes, and arrays are emitted with one of
// four strategies depending on what their items look like. The pkg
// directory is organized into four areas:
//
//  1. Domain logic: [document], [engine], [diagram]
//  2. Outputs: [render/nodelink], [render/mermaid]
//  3. Orchestration: [pipeline]
//  4. Infrastructure: [cache], [session], [httputil], [observability], [errors]
//
// # Architecture
//
// The typical data flow:
//
//	JSON / XML bytes (file, stdin, URL)
//	         ↓
//	    [document] package (ordered Value tree)
//	         ↓
//	    [engine] package (nodes + connectors)
//	         ↓
//	    [diagram/transform] package (single root)
//	         ↓
//	    JSON / DOT / SVG / PNG / Mermaid output
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/docgraph/pkg/engine"
//	    "github.com/matzehuels/docgraph/pkg/render/mermaid"
//	)
//
//	g, err := engine.FromJSON([]byte(`{"name":"demo","tags":["a","b"]}`))
//	if err != nil {
//	    return err
//	}
//	fmt.Print(mermaid.ToMermaid(g))
//
// # Main Packages
//
// [document] - Format-neutral view of a parsed document. JSON is decoded
// with json-iterator into an order-preserving tree; XML is walked with
// antchfx/xmlquery, grouping repeated sibling tags into arrays.
//
// [engine] - The document-to-graph transformation: ID derivation, path
// tracking, field classification and array strategy selection.
//
// [diagram] - The graph model (nodes, annotations, connectors), its JSON
// serialization and structural validation. [diagram/transform] joins several
// roots under a synthetic anchor.
//
// [pipeline] - Read, build and render with caching. Used by the CLI and the
// HTTP service so both behave the same.
//
// [cache] - Null, file, in-memory LRU and Redis caches behind one interface.
//
// [session] - Live editing sessions for the WebSocket endpoint, stored in
// memory, on disk, in Redis or in MongoDB.
//
// # Testing
//
//	go test ./pkg/...                  # All tests
//	go test ./pkg/engine/...           # Specific package
//	go test -run Example ./pkg/...     # Examples only
//
// [document]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/document
// [engine]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/engine
// [diagram]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/diagram
// [diagram/transform]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/diagram/transform
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/render/nodelink
// [render/mermaid]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/render/mermaid
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/session
// [httputil]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/errors
package pkg
