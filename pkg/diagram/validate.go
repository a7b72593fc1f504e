package diagram

import (
	"errors"

	"github.com/gammazero/deque"
)

// Validate checks that g is a single-rooted, fully connected diagram.
//
// An empty graph is valid. Duplicate node IDs are tolerated (the engine
// preserves them by default); reachability is checked per distinct ID.
// All violations are joined into the returned error.
func (g *Graph) Validate() error {
	if g.IsEmpty() {
		return nil
	}

	known := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		known[n.ID] = true
	}

	var errs []error
	for _, c := range g.Connectors {
		if !known[c.SourceID] {
			errs = append(errs, wrapID(ErrUnknownSource, c.ID))
		}
		if !known[c.TargetID] {
			errs = append(errs, wrapID(ErrDanglingConnector, c.ID))
		}
	}

	roots := g.Roots()
	switch {
	case len(roots) == 0:
		errs = append(errs, ErrNoRoot)
	case len(roots) > 1:
		errs = append(errs, wrapID(ErrMultipleRoots, roots[1]))
	default:
		for _, id := range g.unreachableFrom(roots[0]) {
			errs = append(errs, wrapID(ErrUnreachableNode, id))
		}
	}
	return errors.Join(errs...)
}

// Depths returns the breadth-first distance of every node reachable from the
// first root. Nodes outside that component are absent from the map.
func (g *Graph) Depths() map[string]int {
	roots := g.Roots()
	if len(roots) == 0 {
		return map[string]int{}
	}
	return g.bfs(roots[0])
}

func (g *Graph) unreachableFrom(root string) []string {
	depth := g.bfs(root)
	var out []string
	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, ok := depth[n.ID]; ok || seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		out = append(out, n.ID)
	}
	return out
}

func (g *Graph) bfs(root string) map[string]int {
	adj := make(map[string][]string, len(g.Nodes))
	for _, c := range g.Connectors {
		adj[c.SourceID] = append(adj[c.SourceID], c.TargetID)
	}

	depth := map[string]int{root: 0}
	var queue deque.Deque[string]
	queue.PushBack(root)
	for queue.Len() > 0 {
		cur := queue.PopFront()
		for _, next := range adj[cur] {
			if _, ok := depth[next]; ok {
				continue
			}
			depth[next] = depth[cur] + 1
			queue.PushBack(next)
		}
	}
	return depth
}
