package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/dci/pkg/pag"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// headerRow is the row index lipgloss tables pass for the header.
const headerRow = -1

// graphHeaders are the columns of the graph summary table.
var graphHeaders = []string{"", "#", "Edges", "→", "↔", "o→", "o-o"}

// edgeCounts tallies a graph's edges by kind.
type edgeCounts struct {
	total, directed, bidirected, partial, nondirected int
}

func countEdges(g *pag.Graph) edgeCounts {
	var c edgeCounts
	for _, e := range g.Edges() {
		c.total++
		switch {
		case e.IsDirected():
			c.directed++
		case e.IsBidirected():
			c.bidirected++
		case e.IsPartiallyOriented():
			c.partial++
		case e.IsNondirected():
			c.nondirected++
		}
	}
	return c
}

// graphRow renders one summary row. cursor is the marker column.
func graphRow(i int, g *pag.Graph, cursor string) []string {
	c := countEdges(g)
	return []string{
		cursor,
		strconv.Itoa(i + 1),
		strconv.Itoa(c.total),
		strconv.Itoa(c.directed),
		strconv.Itoa(c.bidirected),
		strconv.Itoa(c.partial),
		strconv.Itoa(c.nondirected),
	}
}

func graphTable(rows [][]string, style func(row, col int) lipgloss.Style) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(graphHeaders...).
		Rows(rows...).
		StyleFunc(style)
}

// printGraphTable writes a static summary of graphs to w.
func printGraphTable(w io.Writer, variables []string, graphs []*pag.Graph) {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, len(graphs))
	for i, g := range graphs {
		rows[i] = graphRow(i, g, "")
	}
	t := graphTable(rows, func(row, col int) lipgloss.Style {
		if row == headerRow {
			return headerStyle
		}
		return lipgloss.NewStyle()
	})
	fmt.Fprintln(w, StyleTitle.Render("Variables: ")+StyleValue.Render(strings.Join(variables, ", ")))
	fmt.Fprintln(w, t.Render())
}

// =============================================================================
// GraphBrowserModel - Interactive result browsing
// =============================================================================

// GraphBrowserModel is the bubbletea model for paging through the graphs
// of a search result. The table lists every graph; the pane below it shows
// the edges of the one under the cursor.
type GraphBrowserModel struct {
	Variables []string
	Graphs    []*pag.Graph
	Cursor    int
	Height    int
	Offset    int
}

// NewGraphBrowserModel creates a new browser model.
func NewGraphBrowserModel(variables []string, graphs []*pag.Graph) GraphBrowserModel {
	return GraphBrowserModel{
		Variables: variables,
		Graphs:    graphs,
		Height:    10,
	}
}

func (m GraphBrowserModel) Init() tea.Cmd {
	return nil
}

func (m GraphBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.Height)
		case "pgdown":
			m.move(m.Height)
		case "home", "g":
			m.move(-len(m.Graphs))
		case "end", "G":
			m.move(len(m.Graphs))
		}
	case tea.WindowSizeMsg:
		// Leave room for the edge pane.
		m.Height = msg.Height/2 - 4
		if m.Height < 3 {
			m.Height = 3
		}
		m.move(0)
	}
	return m, nil
}

// move shifts the cursor by delta, clamped, and scrolls to keep it visible.
func (m *GraphBrowserModel) move(delta int) {
	if len(m.Graphs) == 0 {
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.Graphs)-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m GraphBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%d consistent graphs", len(m.Graphs))))
	b.WriteString(listDimStyle.Render("  over " + strings.Join(m.Variables, ", ")))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Graphs) == 0 {
		b.WriteString(StyleWarning.Render("No graph agrees with every model."))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Graphs))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, graphRow(i, m.Graphs[i], cursor))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := graphTable(rows, func(row, col int) lipgloss.Style {
		if row == headerRow {
			return headerStyle
		}
		if m.Offset+row == m.Cursor {
			return listSelectedStyle
		}
		return listNormalStyle
	})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Graphs))))
	b.WriteString("\n\n")
	b.WriteString(edgePane(m.Graphs[m.Cursor]))

	return b.String()
}

// edgePane lists the edges of g, one per line.
func edgePane(g *pag.Graph) string {
	edges := g.Edges()
	if len(edges) == 0 {
		return listDimStyle.Render("  (no edges)") + "\n"
	}
	var b strings.Builder
	for _, e := range edges {
		b.WriteString("  ")
		b.WriteString(StyleHighlight.Render(e.String()))
		b.WriteString("\n")
	}
	return b.String()
}
