package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/docgraph/pkg/diagram"
	"github.com/matzehuels/docgraph/pkg/pipeline"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	detailKeyStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(10)
	detailTextStyle = lipgloss.NewStyle().Foreground(colorWhite)
)

// browseCommand creates the interactive node browser.
func (c *CLI) browseCommand() *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "browse [file|url|-]",
		Short: "Explore the diagram nodes interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0], flags.options(cmd, c.Config), flags.noCache)
		},
	}

	flags.register(cmd)
	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, src string, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	doc, err := c.readDocument(ctx, runner, src, opts)
	if err != nil {
		return err
	}
	g, err := runner.Build(ctx, doc, opts)
	if err != nil {
		return err
	}
	if g.IsEmpty() {
		c.printInfo("Graph is empty")
		return nil
	}

	_, err = tea.NewProgram(NewNodeListModel(g), tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}

// =============================================================================
// NodeListModel - Interactive node browser
// =============================================================================

// NodeListModel is the bubbletea model listing graph nodes with a detail
// pane for the node under the cursor.
type NodeListModel struct {
	Graph  *diagram.Graph
	Depths map[string]int
	Cursor int
	Height int
	Offset int
}

// NewNodeListModel creates a new node list model.
func NewNodeListModel(g *diagram.Graph) NodeListModel {
	return NodeListModel{
		Graph:  g,
		Depths: g.Depths(),
		Height: 15,
	}
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := len(m.Graph.Nodes)
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.moveTo(m.Cursor-1, n)
		case "down", "j":
			m.moveTo(m.Cursor+1, n)
		case "pgup":
			m.moveTo(m.Cursor-m.Height, n)
		case "pgdown":
			m.moveTo(m.Cursor+m.Height, n)
		case "home", "g":
			m.moveTo(0, n)
		case "end", "G":
			m.moveTo(n-1, n)
		}
	case tea.WindowSizeMsg:
		// Leave room for the title, help line and detail pane.
		m.Height = msg.Height - 16
		if m.Height < 5 {
			m.Height = 5
		}
		m.moveTo(m.Cursor, n)
	}
	return m, nil
}

// moveTo clamps the cursor to [0, n) and scrolls it into view.
func (m *NodeListModel) moveTo(i, n int) {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	m.Cursor = i
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Nodes"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  pgup/pgdn page  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Graph.Nodes) {
		end = len(m.Graph.Nodes)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		node := m.Graph.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, node.ID, nodeKind(node), node.Path})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Kind", "Path").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			actualIdx := m.Offset + row
			if actualIdx >= len(m.Graph.Nodes) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col == 3 {
				base = base.Foreground(colorDim)
			}
			if actualIdx == m.Cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			if !m.Graph.Nodes[actualIdx].IsLeaf {
				return base.Foreground(colorGreen)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if len(m.Graph.Nodes) > 0 {
		b.WriteString(m.detail(m.Graph.Nodes[m.Cursor]))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Graph.Nodes))))

	return b.String()
}

// detail renders the pane for one node.
func (m NodeListModel) detail(node diagram.Node) string {
	lines := []string{
		detailKeyStyle.Render("Title") + detailTextStyle.Render(node.Title),
		detailKeyStyle.Render("Path") + detailTextStyle.Render(node.Path),
	}
	if d, ok := m.Depths[node.ID]; ok {
		lines = append(lines, detailKeyStyle.Render("Depth")+detailTextStyle.Render(fmt.Sprint(d)))
	}
	if children := m.Graph.Children(node.ID); len(children) > 0 {
		lines = append(lines, detailKeyStyle.Render("Children")+detailTextStyle.Render(strings.Join(children, ", ")))
	}
	if node.MergedContent != "" {
		lines = append(lines, "", detailTextStyle.Render(node.MergedContent))
	}
	return detailBoxStyle.Render(strings.Join(lines, "\n"))
}

// nodeKind names what a node represents.
func nodeKind(n diagram.Node) string {
	switch {
	case n.IsAnchor():
		return "anchor"
	case n.IsLeaf:
		return "leaf"
	default:
		return "group"
	}
}
