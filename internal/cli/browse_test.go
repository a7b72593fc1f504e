package cli

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/docgraph/pkg/diagram"
)

func chainGraph(n int) *diagram.Graph {
	g := diagram.New()
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("n%d", i)
		g.AddNode(diagram.Node{ID: id, Title: id, Path: "root." + id, IsLeaf: i == n-1})
		if i > 0 {
			g.Connect(fmt.Sprintf("n%d", i-1), id)
		}
	}
	return g
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m NodeListModel, keys ...string) NodeListModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(NodeListModel)
	}
	return m
}

func TestNodeListNavigation(t *testing.T) {
	m := NewNodeListModel(chainGraph(30))

	m = press(m, "down", "j", "j")
	if m.Cursor != 3 {
		t.Errorf("Cursor = %d, want 3", m.Cursor)
	}

	m = press(m, "up", "k", "k", "k", "k")
	if m.Cursor != 0 {
		t.Errorf("Cursor should clamp at 0, got %d", m.Cursor)
	}

	m = press(m, "G")
	if m.Cursor != 29 {
		t.Errorf("Cursor = %d, want 29", m.Cursor)
	}
	if m.Offset != 29-m.Height+1 {
		t.Errorf("Offset = %d, cursor not scrolled into view", m.Offset)
	}

	m = press(m, "g", "pgdown")
	if m.Cursor != m.Height {
		t.Errorf("Cursor after pgdown = %d, want %d", m.Cursor, m.Height)
	}
}

func TestNodeListQuit(t *testing.T) {
	m := NewNodeListModel(chainGraph(2))
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestNodeListWindowSize(t *testing.T) {
	m := NewNodeListModel(chainGraph(3))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	if got := next.(NodeListModel).Height; got != 5 {
		t.Errorf("Height = %d, want minimum 5", got)
	}
	next, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	if got := next.(NodeListModel).Height; got != 24 {
		t.Errorf("Height = %d, want 24", got)
	}
}

func TestNodeListView(t *testing.T) {
	m := press(NewNodeListModel(chainGraph(3)), "j")
	view := m.View()

	for _, want := range []string{"n0", "n1", "n2", "root.n1", "Children", "[2/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestNodeKind(t *testing.T) {
	tests := []struct {
		node diagram.Node
		want string
	}{
		{diagram.Node{ID: diagram.AnchorID, Path: diagram.AnchorPath}, "anchor"},
		{diagram.Node{ID: "x", IsLeaf: true}, "leaf"},
		{diagram.Node{ID: "x"}, "group"},
	}
	for _, tt := range tests {
		if got := nodeKind(tt.node); got != tt.want {
			t.Errorf("nodeKind(%+v) = %q, want %q", tt.node, got, tt.want)
		}
	}
}
