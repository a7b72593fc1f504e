// Package diagram defines the flat node/connector model that docgraph
// produces from structured documents.
//
// A [Graph] is deliberately simple: an ordered slice of [Node] values and an
// ordered slice of [Connector] values. There is no adjacency index and no
// layout information. Order is meaningful: nodes appear in the order the
// engine emitted them, which is the document order, so two builds of the
// same document serialize byte-identically.
//
// # Node Kinds
//
// Three kinds of node share the [Node] type:
//
//   - Leaf nodes (IsLeaf true) hold the merged scalar fields of one object,
//     or a single scalar array item. Their annotations alternate key/value.
//   - Group nodes (IsLeaf false) stand for a nested object or array. Their
//     annotations are the key name followed by an optional "{n}" badge.
//   - The anchor node ([AnchorID]) is synthesized by root normalization when
//     a document yields more than one root.
//
// # Serialization
//
// Graphs use a node/connector JSON format whose field names are part of the
// consumer contract:
//
//	{
//	  "nodes": [{"id": "root", "width": 150, "height": 50, ...}],
//	  "connectors": [{"id": "connector-root-items", "sourceId": "root", "targetId": "items"}]
//	}
//
// Common operations:
//
//	g, _ := diagram.ReadGraphFile("graph.json")
//	diagram.WriteGraphFile(g, "out.json")
//	data, _ := diagram.MarshalGraph(g)
//
// # Validation
//
// [Graph.Validate] checks the structural contract a renderer relies on:
// every connector endpoint exists, there is exactly one root and every node
// is reachable from it.
package diagram
