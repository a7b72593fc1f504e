// Package engine turns structured documents into diagram graphs.
//
// The engine walks a [document.Value] once, top-down, and appends nodes and
// connectors to a fresh [diagram.Graph] in document order. It keeps no state
// between builds and does no I/O, so builds may run concurrently.
//
// # Shape
//
// Scalars of an object are merged into one leaf node; every non-empty
// nested object or array becomes a group node labeled with its key and a
// "{n}" child count badge:
//
//	{"name": "a", "tags": ["x", "y"]}
//
//	root (leaf: name: "a")
//	└── tags {2}
//	    ├── tags-0 "x"
//	    └── tags-1 "y"
//
// Arrays are emitted by one of four strategies picked per array by
// [SelectStrategy]: bare leaves for scalars, merged leaves for flat
// objects, leaves with hanging child groups for mixed objects, and one
// group node per item otherwise.
//
// # IDs
//
// Node IDs come from [DeriveID] applied to the parent ID joined with the
// key or item index, so identical input always yields identical IDs. Two
// branches can still derive the same ID; such collisions are kept unless
// [Options.UniqueIDs] is set.
//
// # Roots
//
// A document with top-level structured fields but no top-level scalars has
// several roots. Unless [Options.SkipNormalize] is set, the anchor node
// [diagram.AnchorID] is appended and connected to each of them. The root
// leaf's ID "root" is reserved, so a top-level field named "root" is issued
// "root~2" and cannot loop back onto it.
//
// # Entry Points
//
//	g, err := engine.FromJSON(data)
//	g, err := engine.FromXML(data, engine.WithUniqueIDs(true))
//	res, err := engine.Build(doc, engine.Options{MaxDepth: 64})
package engine
