package diagram

import (
	"errors"
	"testing"
)

func chain(ids ...string) *Graph {
	g := New()
	for _, id := range ids {
		g.AddNode(Node{ID: id, Width: DefaultNodeWidth, Height: DefaultNodeHeight})
	}
	for i := 1; i < len(ids); i++ {
		g.Connect(ids[i-1], ids[i])
	}
	return g
}

func TestConnectorID(t *testing.T) {
	if got, want := ConnectorID("root", "items"), "connector-root-items"; got != want {
		t.Errorf("ConnectorID = %q, want %q", got, want)
	}
	c := NewConnector("a", "b")
	if c.SourceID != "a" || c.TargetID != "b" || c.ID != "connector-a-b" {
		t.Errorf("NewConnector = %+v", c)
	}
}

func TestRoots(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Graph
		want  []string
	}{
		{"empty", New, nil},
		{"chain", func() *Graph { return chain("a", "b", "c") }, []string{"a"}},
		{
			name: "two components",
			build: func() *Graph {
				g := chain("a", "b")
				g.AddNode(Node{ID: "c"})
				return g
			},
			want: []string{"a", "c"},
		},
		{
			name: "duplicate root reported once",
			build: func() *Graph {
				g := New()
				g.AddNode(Node{ID: "x"})
				g.AddNode(Node{ID: "x"})
				return g
			},
			want: []string{"x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.build().Roots()
			if len(got) != len(tt.want) {
				t.Fatalf("Roots() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Roots()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestChildren(t *testing.T) {
	g := chain("a", "b")
	g.AddNode(Node{ID: "c"})
	g.Connect("a", "c")

	got := g.Children("a")
	if len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("Children(a) = %v, want [b c]", got)
	}
	if got := g.Children("c"); len(got) != 0 {
		t.Errorf("Children(c) = %v, want none", got)
	}
}

func TestDuplicateIDs(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "a", "a", "b", "c"} {
		g.AddNode(Node{ID: id})
	}
	got := g.DuplicateIDs()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("DuplicateIDs() = %v, want [a b]", got)
	}
}

func TestStats(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "root", IsLeaf: true})
	g.AddNode(Node{ID: "items"})
	g.AddNode(Node{ID: AnchorID, Path: AnchorPath})
	g.Connect("root", "items")

	s := g.Stats()
	if s.Nodes != 3 || s.Leaves != 1 || s.Groups != 1 || s.Connectors != 1 || !s.Anchored {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestClone(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a", Annotations: []Annotation{{Content: "x"}}})
	c := g.Clone()
	c.Nodes[0].Annotations[0].Content = "changed"
	if g.Nodes[0].Annotations[0].Content != "x" {
		t.Error("Clone shares annotation storage with the original")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Graph
		wantErr error
	}{
		{"empty", New, nil},
		{"single", func() *Graph { return chain("a") }, nil},
		{"tree", func() *Graph {
			g := chain("a", "b")
			g.AddNode(Node{ID: "c"})
			g.Connect("a", "c")
			return g
		}, nil},
		{"dangling target", func() *Graph {
			g := chain("a")
			g.Connect("a", "ghost")
			return g
		}, ErrDanglingConnector},
		{"unknown source", func() *Graph {
			g := chain("a", "b")
			g.Connect("ghost", "b")
			return g
		}, ErrUnknownSource},
		{"multiple roots", func() *Graph {
			g := chain("a")
			g.AddNode(Node{ID: "b"})
			return g
		}, ErrMultipleRoots},
		{"cycle only", func() *Graph {
			g := chain("a", "b")
			g.Connect("b", "a")
			return g
		}, ErrNoRoot},
		{"unreachable cycle", func() *Graph {
			g := chain("a", "b")
			g.AddNode(Node{ID: "c"})
			g.AddNode(Node{ID: "d"})
			g.Connect("c", "d")
			g.Connect("d", "c")
			return g
		}, ErrUnreachableNode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDepths(t *testing.T) {
	g := chain("a", "b", "c")
	g.AddNode(Node{ID: "d"})
	g.Connect("a", "d")

	d := g.Depths()
	want := map[string]int{"a": 0, "b": 1, "c": 2, "d": 1}
	for id, w := range want {
		if d[id] != w {
			t.Errorf("Depths()[%s] = %d, want %d", id, d[id], w)
		}
	}
}
