package analysis

import (
	"fmt"

	"github.com/matzehuels/configtower/pkg/graph"
	"github.com/matzehuels/configtower/pkg/rules"
)

// AnalyzeNode computes the diagnostics for a single node.
//
// An unknown ID yields an empty, healthy analysis. The graph and the table
// are only read. For repeated queries over the same snapshot, build an
// [Index] once and call [Index.AnalyzeNode].
func AnalyzeNode(g *graph.Graph, id string, table *rules.Table) NodeAnalysis {
	return NewIndex(g).AnalyzeNode(id, table)
}

// AnalyzeNode computes the diagnostics for the node with the given ID.
func (x *Index) AnalyzeNode(id string, table *rules.Table) NodeAnalysis {
	n, ok := x.Node(id)
	if !ok {
		return emptyAnalysis(id)
	}

	a := emptyAnalysis(id)
	switch n.Kind {
	case graph.KindContainer:
		x.analyzeContainer(n, &a)
	case graph.KindModule:
		x.analyzeModule(n, &a)
	case graph.KindGroup:
		x.analyzeGroup(n, &a)
	case graph.KindOption:
		x.analyzeOption(n, table, &a)
	default:
		// Graph.AddNode rejects anything else.
		panic(fmt.Sprintf("analysis: unhandled node kind %v", n.Kind))
	}

	if n.Kind != graph.KindContainer && !x.HasParent(id) {
		a.Issues = append(a.Issues, Issue{
			ID:              "orphan_" + id,
			Severity:        SeverityError,
			Title:           "Orphan Node",
			Message:         fmt.Sprintf("This %s is not connected to any parent. It won't be part of the configuration.", n.Kind),
			AffectedNodeIDs: []string{id},
		})
	}

	a.Health = healthOf(a.Issues)
	return a
}

func (x *Index) analyzeContainer(n *graph.Node, a *NodeAnalysis) {
	if len(x.Children(n.ID)) == 0 {
		a.Issues = append(a.Issues, Issue{
			ID:              "container_empty_" + n.ID,
			Severity:        SeverityWarning,
			Title:           "Empty Container",
			Message:         "This container has no modules. Add at least one module to build your configuration.",
			AffectedNodeIDs: []string{n.ID},
		})
	}

	a.Suggestions = append(a.Suggestions, Issue{
		ID:              "suggest_module_" + n.ID,
		Severity:        SeveritySuggestion,
		Title:           "💡 Add More Modules",
		Message:         "Consider adding more modules for a complete streaming pipeline (Video, Audio, CDN, DRM, Analytics).",
		AffectedNodeIDs: []string{n.ID},
	})
}

func (x *Index) analyzeModule(n *graph.Node, a *NodeAnalysis) {
	groups := x.Children(n.ID)
	if len(groups) == 0 {
		a.Issues = append(a.Issues, Issue{
			ID:              "module_no_groups_" + n.ID,
			Severity:        SeverityError,
			Title:           "No Groups",
			Message:         "Every module needs at least one group to organize its options.",
			AffectedNodeIDs: []string{n.ID},
		})
	}

	for _, g := range groups {
		if len(x.Children(g.ID)) > 0 {
			continue
		}
		a.Issues = append(a.Issues, Issue{
			ID:              "group_empty_" + g.ID,
			Severity:        SeverityWarning,
			Title:           "Empty Group: " + g.DisplayLabel(),
			Message:         "This group has no options. Consider adding configuration options.",
			AffectedNodeIDs: []string{n.ID, g.ID},
		})
	}

	if len(groups) == 1 {
		a.Suggestions = append(a.Suggestions, Issue{
			ID:              "suggest_more_groups_" + n.ID,
			Severity:        SeveritySuggestion,
			Title:           "💡 Consider More Groups",
			Message:         "Modules with multiple groups provide better organization. E.g. separate codec settings from hardware settings.",
			AffectedNodeIDs: []string{n.ID},
		})
	}
}

func (x *Index) analyzeGroup(n *graph.Node, a *NodeAnalysis) {
	options := x.Children(n.ID)
	if len(options) == 0 {
		a.Issues = append(a.Issues, Issue{
			ID:              "group_empty_" + n.ID,
			Severity:        SeverityWarning,
			Title:           "Empty Group",
			Message:         "Add options to this group for configuration.",
			AffectedNodeIDs: []string{n.ID},
		})
		return
	}

	for _, o := range options {
		if o.Included() {
			return
		}
	}
	a.Suggestions = append(a.Suggestions, Issue{
		ID:              "suggest_include_" + n.ID,
		Severity:        SeverityInfo,
		Title:           "⚠️ No Default Selections",
		Message:         "None of the options in this group are included by default. Consider setting at least one default option.",
		AffectedNodeIDs: []string{n.ID},
	})
}
