package cli

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/dci/pkg/pag"
)

func browserGraphs(t *testing.T, n int) []*pag.Graph {
	t.Helper()
	graphs := make([]*pag.Graph, n)
	for i := range graphs {
		g, err := pag.New("A", "B", "C")
		if err != nil {
			t.Fatal(err)
		}
		if err := g.AddEdge("A", "B", pag.Circle, pag.Arrow); err != nil {
			t.Fatal(err)
		}
		if i%2 == 0 {
			if err := g.AddBidirectedEdge("B", "C"); err != nil {
				t.Fatal(err)
			}
		}
		graphs[i] = g
	}
	return graphs
}

func press(m tea.Model, key string) tea.Model {
	var msg tea.KeyMsg
	switch key {
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next
}

func TestCountEdges(t *testing.T) {
	g := browserGraphs(t, 1)[0]
	c := countEdges(g)
	if c.total != 2 || c.partial != 1 || c.bidirected != 1 || c.directed != 0 {
		t.Errorf("countEdges = %+v", c)
	}
}

func TestGraphBrowserNavigation(t *testing.T) {
	var m tea.Model = NewGraphBrowserModel([]string{"A", "B", "C"}, browserGraphs(t, 25))

	m = press(m, "down")
	m = press(m, "j")
	if got := m.(GraphBrowserModel).Cursor; got != 2 {
		t.Errorf("cursor after two moves = %d, want 2", got)
	}

	m = press(m, "up")
	m = press(m, "up")
	m = press(m, "up")
	if got := m.(GraphBrowserModel).Cursor; got != 0 {
		t.Errorf("cursor clamps at 0, got %d", got)
	}

	m = press(m, "G")
	b := m.(GraphBrowserModel)
	if b.Cursor != 24 {
		t.Errorf("cursor after G = %d, want 24", b.Cursor)
	}
	if b.Offset != 24-b.Height+1 {
		t.Errorf("offset = %d, want last page", b.Offset)
	}

	m = press(m, "g")
	if b := m.(GraphBrowserModel); b.Cursor != 0 || b.Offset != 0 {
		t.Errorf("after g: cursor %d offset %d", b.Cursor, b.Offset)
	}
}

func TestGraphBrowserQuit(t *testing.T) {
	m := NewGraphBrowserModel(nil, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestGraphBrowserView(t *testing.T) {
	m := NewGraphBrowserModel([]string{"A", "B", "C"}, browserGraphs(t, 2))
	view := m.View()
	for _, want := range []string{"2 consistent graphs", "A o-> B", "B <-> C", "[1/2]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	empty := NewGraphBrowserModel([]string{"A"}, nil).View()
	if !strings.Contains(empty, "No graph agrees") {
		t.Errorf("empty view = %q", empty)
	}
}

func TestPrintGraphTable(t *testing.T) {
	var buf bytes.Buffer
	printGraphTable(&buf, []string{"A", "B", "C"}, browserGraphs(t, 3))
	out := buf.String()
	if !strings.Contains(out, "A, B, C") {
		t.Errorf("table missing variables:\n%s", out)
	}
	if strings.Count(out, "\n") < 5 {
		t.Errorf("table too short:\n%s", out)
	}
}
