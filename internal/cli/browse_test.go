package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/configtower/pkg/analysis"
	ctio "github.com/matzehuels/configtower/pkg/io"
)

func newDecoderBrowser(t *testing.T) BrowseModel {
	t.Helper()
	cfg, err := ctio.ReadRawConfig(strings.NewReader(decoderConfig))
	if err != nil {
		t.Fatal(err)
	}
	g, table, err := ctio.ParseConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return NewBrowseModel(g, analysis.AnalyzeGraph(g, table))
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m BrowseModel, msgs ...tea.Msg) (BrowseModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(BrowseModel)
	}
	return m, cmd
}

func TestBrowseNavigation(t *testing.T) {
	m := newDecoderBrowser(t)
	if got := m.Selected().ID; got != "node_1" {
		t.Fatalf("initial selection = %s", got)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.Cursor != 0 {
		t.Errorf("cursor moved above the first node: %d", m.Cursor)
	}

	m, _ = press(m, runeKey("j"), runeKey("j"), tea.KeyMsg{Type: tea.KeyDown}, runeKey("k"))
	if got := m.Selected().ID; got != "node_3" {
		t.Errorf("selection = %s, want node_3", got)
	}

	for range 20 {
		m, _ = press(m, runeKey("j"))
	}
	if got := m.Selected().ID; got != "node_7" {
		t.Errorf("selection after scrolling past the end = %s", got)
	}
}

func TestBrowseScrollsWithinHeight(t *testing.T) {
	m := newDecoderBrowser(t)
	m, _ = press(m, tea.WindowSizeMsg{Width: 80, Height: 10})
	if m.Height != 5 {
		t.Fatalf("Height = %d, want minimum 5", m.Height)
	}
	for range 6 {
		m, _ = press(m, runeKey("j"))
	}
	if m.Offset != 2 {
		t.Errorf("Offset = %d, want 2", m.Offset)
	}
}

func TestBrowseDetail(t *testing.T) {
	m := newDecoderBrowser(t)
	for range 4 {
		m, _ = press(m, runeKey("j"))
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Detail {
		t.Fatal("enter should open the detail pane")
	}

	view := m.View()
	for _, want := range []string{"AV1", "Missing Dependency: hw_accel", "Enable hw_accel", "Dependencies", "Hardware Acceleration"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q:\n%s", want, view)
		}
	}

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Detail || cmd != nil {
		t.Error("esc should close the detail pane without quitting")
	}
	if _, cmd = press(m, tea.KeyMsg{Type: tea.KeyEsc}); cmd == nil {
		t.Error("esc on the list should quit")
	}
}

func TestBrowseProblemsOnly(t *testing.T) {
	m := newDecoderBrowser(t)
	m, _ = press(m, runeKey("j"), runeKey("f"))

	if !m.ProblemsOnly || m.Cursor != 0 {
		t.Fatalf("filter state: ProblemsOnly=%v Cursor=%d", m.ProblemsOnly, m.Cursor)
	}
	var ids []string
	for _, n := range m.Nodes {
		ids = append(ids, n.ID)
	}
	if strings.Join(ids, ",") != "node_5,node_7" {
		t.Errorf("filtered nodes = %v", ids)
	}

	m, _ = press(m, runeKey("f"))
	if len(m.Nodes) != 7 {
		t.Errorf("clearing the filter left %d nodes", len(m.Nodes))
	}
}

func TestBrowseView(t *testing.T) {
	m := newDecoderBrowser(t)
	view := m.View()
	for _, want := range []string{"Configuration Insights", "Configuration Root", "Video Decoder", "H.264/AVC", "1 issue(s)", "[1/7]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	empty := BrowseModel{Graph: m.Graph, Report: m.Report, Height: 5}
	if !strings.Contains(empty.View(), "no nodes to show") {
		t.Error("empty list should say so")
	}
	if empty.Selected() != nil {
		t.Error("Selected() on an empty list should be nil")
	}
}

func TestBrowseQuit(t *testing.T) {
	m := newDecoderBrowser(t)
	for _, key := range []tea.KeyMsg{runeKey("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("%s should quit", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s returned %T", key, cmd())
		}
	}
}
