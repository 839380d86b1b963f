package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/configtower/pkg/analysis"
	cterrors "github.com/matzehuels/configtower/pkg/errors"
	"github.com/matzehuels/configtower/pkg/graph"
)

// childSuggestion is the JSON form of [graph.ChildSuggestion].
type childSuggestion struct {
	Kind     graph.Kind `json:"kind"`
	Label    string     `json:"label"`
	Reason   string     `json:"reason"`
	Required bool       `json:"required"`
}

type inspectOutput struct {
	Node     string                `json:"node"`
	Kind     graph.Kind            `json:"kind"`
	Label    string                `json:"label"`
	Analysis analysis.NodeAnalysis `json:"analysis"`
	Children []childSuggestion     `json:"child_suggestions"`
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "inspect <graph.json> <node-id>",
		Short: "Show one node's analysis and suggested children",
		Args:  cobra.ExactArgs(2),

		ValidArgsFunction: nodeIDCompletion(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := c.loadSnapshot(cmd.Context(), args[0], raw)
			if err != nil {
				return err
			}
			n, ok := snap.Graph.Node(args[1])
			if !ok {
				return cterrors.NodeNotFound(args[1])
			}

			out := inspectOutput{
				Node:     n.ID,
				Kind:     n.Kind,
				Label:    n.DisplayLabel(),
				Analysis: analysis.AnalyzeNode(snap.Graph, n.ID, snap.Table),
				Children: []childSuggestion{},
			}
			for _, s := range snap.Graph.ChildSuggestions(n.ID) {
				out.Children = append(out.Children, childSuggestion(s))
			}

			if c.config().Output == outputJSON {
				return writeJSON(stdout, out)
			}
			printInspect(n, out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "read a raw module configuration instead of a graph")
	return cmd
}

func printInspect(n *graph.Node, out inspectOutput) {
	a := out.Analysis
	printHeading(out.Label)
	printKeyValue("ID", n.ID)
	printKeyValue("Kind", n.Kind.Label())
	if k := n.Key(); k != "" {
		printKeyValue("Key", k)
	}
	if n.Kind == graph.KindOption {
		printKeyValue("Included", fmt.Sprint(n.Included()))
		printKeyValue("Editable", fmt.Sprint(!n.Locked()))
	}
	if n.Description != "" {
		printKeyValue("Description", n.Description)
	}
	printKeyValue("Health", healthBadge(a.Health))

	section := func(title string, items []analysis.Issue) {
		if len(items) == 0 {
			return
		}
		printNewline()
		printHeading(title)
		for _, is := range items {
			printIssue(is)
		}
	}
	section("Issues", a.Issues)
	section("Suggestions", a.Suggestions)

	if len(a.Dependencies) > 0 {
		printNewline()
		printHeading("Dependencies")
		for _, d := range a.Dependencies {
			mark := styleIconSuccess.Render(iconSuccess)
			if !d.Present {
				mark = styleIconError.Render(iconError)
			}
			target := StyleDim.Render("(no option)")
			if d.NodeID != "" {
				target = StyleDim.Render(d.NodeID)
			}
			fmt.Fprintf(stdout, "  %s %s %s %s\n", mark, d.Label, StyleDim.Render(iconArrow), target)
		}
	}

	if len(a.Conflicts) > 0 {
		printNewline()
		printHeading("Conflicts")
		for _, cf := range a.Conflicts {
			fmt.Fprintf(stdout, "  %s %s %s\n", styleIconError.Render("⚡"), cf.Label, StyleDim.Render(cf.NodeID))
		}
	}

	if len(out.Children) > 0 {
		printNewline()
		printHeading("Suggested children")
		for _, s := range out.Children {
			tag := "optional"
			if s.Required {
				tag = "required"
			}
			fmt.Fprintf(stdout, "  %s %s %s\n", styleIconSuggestion.Render("+"), s.Label, StyleDim.Render("("+tag+") "+s.Reason))
		}
	}
}
