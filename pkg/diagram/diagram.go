package diagram

import (
	"errors"
	"fmt"
)

// Node geometry and anchor constants.
const (
	DefaultNodeWidth  = 150
	DefaultNodeHeight = 50

	// AnchorID is the preferred ID of the synthetic node that joins several
	// roots. When a document node already uses it the anchor gets "~n".
	AnchorID    = "main-root"
	AnchorSize  = 40
	AnchorPath  = "MainRoot"
	AnchorTitle = "Main Artificial Root"

	// RootPath is the path of the document root.
	RootPath = "Root"
)

var (
	// ErrDanglingConnector is returned by [Graph.Validate] when a connector
	// targets a node that does not exist.
	ErrDanglingConnector = errors.New("connector targets unknown node")

	// ErrUnknownSource is returned by [Graph.Validate] when a connector
	// leaves a node that does not exist.
	ErrUnknownSource = errors.New("connector leaves unknown node")

	// ErrNoRoot is returned by [Graph.Validate] when a non-empty graph has no
	// node without incoming connectors (every node sits on a cycle).
	ErrNoRoot = errors.New("graph has no root")

	// ErrMultipleRoots is returned by [Graph.Validate] when more than one
	// node has no incoming connector.
	ErrMultipleRoots = errors.New("graph has more than one root")

	// ErrUnreachableNode is returned by [Graph.Validate] when a node cannot
	// be reached from the root.
	ErrUnreachableNode = errors.New("node unreachable from root")
)

// Annotation is one text label on a node. Leaf annotations carry IDs of the
// form Key_<...> and Value_<...>; group annotations have no ID.
type Annotation struct {
	ID      string `json:"id,omitempty"`
	Content string `json:"content"`
}

// Node is a diagram vertex.
type Node struct {
	ID            string       `json:"id"`
	Width         float64      `json:"width"`
	Height        float64      `json:"height"`
	Annotations   []Annotation `json:"annotations"`
	IsLeaf        bool         `json:"isLeaf"`
	MergedContent string       `json:"mergedContent"`
	Path          string       `json:"path"`
	Title         string       `json:"title"`
	ActualData    string       `json:"actualData"`
}

// IsAnchor reports whether n is the synthetic multi-root anchor. Document
// nodes always have paths under [RootPath], so the path alone identifies it.
func (n Node) IsAnchor() bool { return n.Path == AnchorPath }

// Connector is a directed edge from SourceID to TargetID.
type Connector struct {
	ID       string `json:"id"`
	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId"`
}

// ConnectorID returns the canonical connector ID for an edge.
func ConnectorID(source, target string) string {
	return "connector-" + source + "-" + target
}

// NewConnector returns a connector with its canonical ID.
func NewConnector(source, target string) Connector {
	return Connector{ID: ConnectorID(source, target), SourceID: source, TargetID: target}
}

// Graph is the flat node/connector collection produced by one build.
// The zero value is an empty graph ready for use.
//
// Graph is not safe for concurrent mutation; each build owns its graph.
type Graph struct {
	Nodes      []Node      `json:"nodes"`
	Connectors []Connector `json:"connectors"`
}

// New returns an empty graph with non-nil slices.
func New() *Graph {
	return &Graph{Nodes: []Node{}, Connectors: []Connector{}}
}

// AddNode appends a node.
func (g *Graph) AddNode(n Node) { g.Nodes = append(g.Nodes, n) }

// Connect appends a connector from source to target.
func (g *Graph) Connect(source, target string) {
	g.Connectors = append(g.Connectors, NewConnector(source, target))
}

// IsEmpty reports whether the graph has no nodes.
func (g *Graph) IsEmpty() bool { return len(g.Nodes) == 0 }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// ConnectorCount returns the number of connectors.
func (g *Graph) ConnectorCount() int { return len(g.Connectors) }

// Node returns the first node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Children returns the target IDs of connectors leaving id, in emission order.
func (g *Graph) Children(id string) []string {
	var out []string
	for _, c := range g.Connectors {
		if c.SourceID == id {
			out = append(out, c.TargetID)
		}
	}
	return out
}

// Roots returns the IDs of nodes that no connector targets, in node order.
// A node ID that appears more than once is reported once.
func (g *Graph) Roots() []string {
	targeted := make(map[string]bool, len(g.Connectors))
	for _, c := range g.Connectors {
		targeted[c.TargetID] = true
	}
	seen := make(map[string]bool, len(g.Nodes))
	var roots []string
	for _, n := range g.Nodes {
		if targeted[n.ID] || seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		roots = append(roots, n.ID)
	}
	return roots
}

// DuplicateIDs returns node IDs that occur more than once, in order of their
// second occurrence.
func (g *Graph) DuplicateIDs() []string {
	count := make(map[string]int, len(g.Nodes))
	var dups []string
	for _, n := range g.Nodes {
		count[n.ID]++
		if count[n.ID] == 2 {
			dups = append(dups, n.ID)
		}
	}
	return dups
}

// Stats summarizes a graph.
type Stats struct {
	Nodes      int  `json:"nodes"`
	Leaves     int  `json:"leaves"`
	Groups     int  `json:"groups"`
	Connectors int  `json:"connectors"`
	Roots      int  `json:"roots"`
	Anchored   bool `json:"anchored"`
}

// Stats counts node kinds and roots.
func (g *Graph) Stats() Stats {
	s := Stats{Nodes: len(g.Nodes), Connectors: len(g.Connectors), Roots: len(g.Roots())}
	for _, n := range g.Nodes {
		switch {
		case n.IsAnchor():
			s.Anchored = true
		case n.IsLeaf:
			s.Leaves++
		default:
			s.Groups++
		}
	}
	return s
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		Nodes:      make([]Node, len(g.Nodes)),
		Connectors: make([]Connector, len(g.Connectors)),
	}
	for i, n := range g.Nodes {
		n.Annotations = append([]Annotation(nil), n.Annotations...)
		out.Nodes[i] = n
	}
	copy(out.Connectors, g.Connectors)
	return out
}

func wrapID(err error, id string) error {
	return fmt.Errorf("%w: %s", err, id)
}
