// Package transform holds post-build passes over a [diagram.Graph].
//
// Passes mutate the graph in place and are safe to run on any graph the
// engine produces, including empty ones.
//
// # Root Normalization
//
// [NormalizeRoots] guarantees a single entry point for renderers. A
// document whose top level is made only of structured fields yields one
// group node per field and no connecting leaf; the pass appends the
// synthetic anchor [diagram.AnchorID] and connects it to each of them. If a
// document node already owns that ID the anchor becomes "main-root~2" (or
// the next free suffix):
//
//	n := transform.NormalizeRoots(g) // number of roots attached, 0 if untouched
//
// # Diagnostics
//
// [DuplicateIDs] reports node ID collisions produced by the ID derivation
// rule (for example keys "a_b" and "A_B" both derive "aB").
package transform
