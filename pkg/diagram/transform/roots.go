package transform

import (
	"strconv"

	"github.com/matzehuels/docgraph/pkg/diagram"
)

// NormalizeRoots appends the anchor node when g has more than one root and
// connects it to every root in discovery order. It returns the number of
// roots attached, or 0 when g already had at most one root.
//
// The anchor is [diagram.AnchorID] unless a node already uses that ID, in
// which case the first free "main-root~n" (n from 2) is taken.
func NormalizeRoots(g *diagram.Graph) int {
	roots := g.Roots()
	if len(roots) <= 1 {
		return 0
	}

	anchor := AnchorNode(freeAnchorID(g))
	g.AddNode(anchor)
	for _, id := range roots {
		g.Connect(anchor.ID, id)
	}
	return len(roots)
}

func freeAnchorID(g *diagram.Graph) string {
	id := diagram.AnchorID
	for n := 2; ; n++ {
		if _, taken := g.Node(id); !taken {
			return id
		}
		id = diagram.AnchorID + "~" + strconv.Itoa(n)
	}
}

// AnchorNode returns the synthetic node with the given ID that joins
// several roots.
func AnchorNode(id string) diagram.Node {
	return diagram.Node{
		ID:          id,
		Width:       diagram.AnchorSize,
		Height:      diagram.AnchorSize,
		Annotations: []diagram.Annotation{{Content: ""}},
		IsLeaf:      false,
		Path:        diagram.AnchorPath,
		Title:       diagram.AnchorTitle,
		ActualData:  "",
	}
}

// DuplicateIDs returns node IDs that occur more than once in g.
func DuplicateIDs(g *diagram.Graph) []string {
	return g.DuplicateIDs()
}
