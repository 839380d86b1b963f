package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/configtower/pkg/analysis"
	"github.com/matzehuels/configtower/pkg/graph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "browse <graph.json>",
		Short: "Explore node health and diagnostics interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snap, err := c.loadSnapshot(ctx, args[0], raw)
			if err != nil {
				return err
			}
			runner, err := c.newRunner()
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Analyze(ctx, snap.Graph, snap.Table, c.config().pipelineOptions(false))
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewBrowseModel(snap.Graph, res.Report), tea.WithAltScreen(), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "read a raw module configuration instead of a graph")
	return cmd
}

// =============================================================================
// BrowseModel - Interactive insight browser
// =============================================================================

// BrowseModel is the bubbletea model for the insight browser: a node list
// with health badges, and a detail pane for the selected node.
type BrowseModel struct {
	Graph  *graph.Graph
	Report analysis.Report

	Nodes        []*graph.Node
	Cursor       int
	Offset       int
	Height       int
	Detail       bool
	ProblemsOnly bool

	all []*graph.Node
}

// NewBrowseModel creates a browser over the nodes of g in graph order.
func NewBrowseModel(g *graph.Graph, r analysis.Report) BrowseModel {
	nodes := g.Nodes()
	return BrowseModel{
		Graph:  g,
		Report: r,
		Nodes:  nodes,
		Height: 15,
		all:    nodes,
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Detail {
				m.Detail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Nodes) > 0 {
				m.Detail = !m.Detail
			}
		case "f":
			m.ProblemsOnly = !m.ProblemsOnly
			m.applyFilter()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// applyFilter rebuilds the visible list and resets the cursor.
func (m *BrowseModel) applyFilter() {
	m.Nodes = m.all
	if m.ProblemsOnly {
		m.Nodes = nil
		for _, n := range m.all {
			if m.Report.Get(n.ID).Health != analysis.HealthHealthy {
				m.Nodes = append(m.Nodes, n)
			}
		}
	}
	m.Cursor, m.Offset, m.Detail = 0, 0, false
}

// Selected returns the node under the cursor, or nil for an empty list.
func (m BrowseModel) Selected() *graph.Node {
	if m.Cursor < 0 || m.Cursor >= len(m.Nodes) {
		return nil
	}
	return m.Nodes[m.Cursor]
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Configuration Insights"))
	b.WriteString("  ")
	b.WriteString(healthBadge(m.Report.Health()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  f problems only  q quit"))
	b.WriteString("\n\n")

	if m.Detail {
		if n := m.Selected(); n != nil {
			b.WriteString(detailBoxStyle.Render(m.detailView(n)))
			b.WriteString("\n")
			return b.String()
		}
	}

	if len(m.Nodes) == 0 {
		b.WriteString(listDimStyle.Render("  no nodes to show"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Nodes))
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]
		a := m.Report.Get(n.ID)

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		indent := strings.Repeat("  ", int(n.Kind)-int(graph.KindContainer))
		line := fmt.Sprintf("%s%s%-30s", cursor, indent, n.DisplayLabel())

		style := listNormalStyle
		if i == m.Cursor {
			style = listSelectedStyle
		}
		b.WriteString(style.Render(line))
		b.WriteString(" ")
		b.WriteString(healthBadge(a.Health))
		if k := len(a.Issues); k > 0 {
			b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d issue(s)", k)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))
	return b.String()
}

// detailView lists everything the analysis found for n.
func (m BrowseModel) detailView(n *graph.Node) string {
	a := m.Report.Get(n.ID)
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s %s\n", StyleTitle.Render(n.DisplayLabel()), listDimStyle.Render(n.Kind.Label()+" "+n.ID), healthBadge(a.Health))
	if k := n.Key(); k != "" {
		fmt.Fprintf(&b, "%s %s  %s %v\n", listDimStyle.Render("key"), k, listDimStyle.Render("included"), n.Included())
	}

	writeIssues := func(title string, items []analysis.Issue) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n%s\n", StyleHighlight.Render(title))
		for _, is := range items {
			fmt.Fprintf(&b, "%s %s\n  %s\n", severityIcon(is.Severity), is.Title, is.Message)
			if is.Fix != nil {
				fmt.Fprintf(&b, "  %s %s\n", listDimStyle.Render("fix:"), is.Fix.Label)
			}
		}
	}
	writeIssues("Issues", a.Issues)
	writeIssues("Suggestions", a.Suggestions)

	if len(a.Dependencies) > 0 {
		fmt.Fprintf(&b, "\n%s\n", StyleHighlight.Render("Dependencies"))
		for _, d := range a.Dependencies {
			mark := styleIconSuccess.Render(iconSuccess)
			if !d.Present {
				mark = styleIconError.Render(iconError)
			}
			fmt.Fprintf(&b, "%s %s\n", mark, d.Label)
		}
	}
	if len(a.Conflicts) > 0 {
		fmt.Fprintf(&b, "\n%s\n", StyleHighlight.Render("Conflicts"))
		for _, c := range a.Conflicts {
			fmt.Fprintf(&b, "%s %s\n", styleIconError.Render("⚡"), c.Label)
		}
	}
	if len(a.Issues)+len(a.Suggestions)+len(a.Dependencies)+len(a.Conflicts) == 0 {
		b.WriteString("\n" + StyleSuccess.Render("Nothing to report") + "\n")
	}
	b.WriteString("\n" + listDimStyle.Render("esc back"))
	return b.String()
}
