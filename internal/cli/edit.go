package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	cterrors "github.com/matzehuels/configtower/pkg/errors"
	"github.com/matzehuels/configtower/pkg/graph"
	ctio "github.com/matzehuels/configtower/pkg/io"
)

// connectCommand creates the connect command.
func (c *CLI) connectCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "connect <graph.json> <source-id> <target-id>",
		Short: "Add a parent → child edge if the hierarchy allows it",
		Long: `Connect validates a structural edge against the Container → Module → Group →
Option hierarchy and the single-parent rule, then writes the updated graph
back to the input file (or to --output).`,
		Args: cobra.ExactArgs(3),

		ValidArgsFunction: nodeIDCompletion(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := ctio.ImportGraph(args[0])
			if err != nil {
				return err
			}
			src, dst := args[1], args[2]
			if err := g.Connect(src, dst); err != nil {
				if cterrors.Is(err, cterrors.ErrCodeConnectionRejected) {
					printError("%s", cterrors.UserMessage(err))
				}
				return err
			}

			path, err := saveGraph(g, args[0], output, false)
			if err != nil {
				return err
			}
			s, _ := g.Node(src)
			t, _ := g.Node(dst)
			printSuccess("%s", graph.ValidateConnection(s.Kind, t.Kind).Message)
			printDetail("%s %s %s", s.DisplayLabel(), iconArrow, t.DisplayLabel())
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	return cmd
}

// addOptions holds flags for the add command.
type addOptions struct {
	output   string
	parent   string
	label    string
	key      string
	included bool
	locked   bool
}

// addCommand creates the add command.
func (c *CLI) addCommand() *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add <graph.json> <container|module|group|option>",
		Short: "Add a new node, optionally under a parent",
		Args:  cobra.ExactArgs(2),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 1 {
				return []string{"container", "module", "group", "option"}, cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveDefault
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := graph.ParseKind(args[1])
			if err != nil {
				return cterrors.Wrap(cterrors.ErrCodeInvalidInput, err, "invalid kind %q", args[1])
			}
			if kind != graph.KindOption && (opts.key != "" || opts.included || opts.locked) {
				return cterrors.New(cterrors.ErrCodeInvalidInput, "--key, --included and --locked apply to options only")
			}
			if opts.key != "" {
				if err := cterrors.ValidateOptionKey(opts.key); err != nil {
					return err
				}
			}

			g, err := ctio.ImportGraph(args[0])
			if err != nil {
				return err
			}
			id, err := g.NewNode(kind)
			if err != nil {
				return cterrors.Wrap(cterrors.ErrCodeInvalidNode, err, "add %s", kind)
			}
			if opts.label != "" {
				if err := g.SetLabel(id, opts.label); err != nil {
					return cterrors.Wrap(cterrors.ErrCodeInvalidNode, err, "label %s", id)
				}
			}
			if kind == graph.KindOption {
				if err := initOption(g, id, opts.key, opts.included, opts.locked); err != nil {
					return err
				}
			}
			if opts.parent != "" {
				if err := g.Connect(opts.parent, id); err != nil {
					if cterrors.Is(err, cterrors.ErrCodeConnectionRejected) {
						printError("%s", cterrors.UserMessage(err))
					}
					return err
				}
			}

			path, err := saveGraph(g, args[0], opts.output, false)
			if err != nil {
				return err
			}
			n, _ := g.Node(id)
			printSuccess("Added %s %s", kind.Label(), StyleHighlight.Render(id))
			printDetail("label: %s", n.DisplayLabel())
			if opts.parent != "" {
				printDetail("parent: %s", opts.parent)
			}
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().StringVar(&opts.parent, "parent", "", "connect the new node under this node")
	cmd.Flags().StringVar(&opts.label, "label", "", "node label (default: \"New <Kind>\")")
	cmd.Flags().StringVar(&opts.key, "key", "", "option key used by rules")
	cmd.Flags().BoolVar(&opts.included, "included", false, "mark the option as included")
	cmd.Flags().BoolVar(&opts.locked, "locked", false, "mark the option as not user-editable")
	_ = cmd.RegisterFlagCompletionFunc("parent", nodeIDCompletion(-1))
	return cmd
}

// initOption writes the rule-matching properties of a new option.
func initOption(g *graph.Graph, id, key string, included, locked bool) error {
	if key != "" {
		if err := g.SetProperty(id, graph.PropKey, key); err != nil {
			return cterrors.Wrap(cterrors.ErrCodeInvalidNode, err, "set key on %s", id)
		}
	}
	if err := g.SetIncluded(id, included); err != nil {
		return cterrors.Wrap(cterrors.ErrCodeInvalidNode, err, "set included on %s", id)
	}
	if err := g.SetProperty(id, graph.PropEditable, !locked); err != nil {
		return cterrors.Wrap(cterrors.ErrCodeInvalidNode, err, "set editable on %s", id)
	}
	return nil
}

// setOptions holds flags for the set command.
type setOptions struct {
	output         string
	label          string
	description    string
	visible        bool
	visibilityRule string
	props          []string
	unset          []string
}

// setFlagNames are the flags that change a node.
var setFlagNames = []string{"label", "description", "visible", "visibility-rule", "prop", "unset-prop"}

// setCommand creates the set command.
func (c *CLI) setCommand() *cobra.Command {
	var opts setOptions

	cmd := &cobra.Command{
		Use:   "set <graph.json> <node-id>",
		Short: "Edit the label, visibility or properties of a node",
		Long: `Set updates an existing node in place: its label, description, visibility
flag, visibility rule and properties. Property values "true" and "false" are
stored as booleans and numbers as numbers, so --prop included=true turns an
option on. Run analyze afterwards to see the effect on the rules.`,
		Example: `  configtower set graph.json node_7 --prop included=true
  configtower set graph.json node_3 --label "Codecs" --visible=false
  configtower set graph.json node_5 --unset-prop note`,
		Args: cobra.ExactArgs(2),

		ValidArgsFunction: nodeIDCompletion(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !slices.ContainsFunc(setFlagNames, flags.Changed) {
				return cterrors.New(cterrors.ErrCodeInvalidInput, "nothing to change: pass --label, --description, --visible, --visibility-rule, --prop or --unset-prop")
			}
			props, err := parseAssignments(opts.props)
			if err != nil {
				return err
			}

			g, err := ctio.ImportGraph(args[0])
			if err != nil {
				return err
			}
			id := args[1]
			if _, ok := g.Node(id); !ok {
				return cterrors.NodeNotFound(id)
			}

			var changes []string
			apply := func(what string, err error) error {
				if err != nil {
					return cterrors.Wrap(cterrors.ErrCodeInvalidInput, err, "set %s: %v", what, cterrors.UserMessage(err)).WithNode(id)
				}
				changes = append(changes, what)
				return nil
			}

			if flags.Changed("label") {
				if err := apply("label", g.SetLabel(id, opts.label)); err != nil {
					return err
				}
			}
			if flags.Changed("description") {
				if err := apply("description", g.SetDescription(id, opts.description)); err != nil {
					return err
				}
			}
			if flags.Changed("visible") {
				if err := apply("visible", g.SetVisible(id, opts.visible)); err != nil {
					return err
				}
			}
			if flags.Changed("visibility-rule") {
				if err := apply("visibility rule", g.SetVisibilityRule(id, opts.visibilityRule)); err != nil {
					return err
				}
			}
			for _, p := range props {
				if err := apply(p.key, setNodeProperty(g, id, p.key, p.value)); err != nil {
					return err
				}
			}
			for _, k := range opts.unset {
				if err := apply("-"+k, g.DeleteProperty(id, k)); err != nil {
					return err
				}
			}

			path, err := saveGraph(g, args[0], opts.output, false)
			if err != nil {
				return err
			}
			n, _ := g.Node(id)
			printSuccess("Updated %s %s", n.Kind.Label(), StyleHighlight.Render(n.DisplayLabel()))
			for _, ch := range changes {
				printDetail("%s", ch)
			}
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().StringVar(&opts.label, "label", "", "new label")
	cmd.Flags().StringVar(&opts.description, "description", "", "new description")
	cmd.Flags().BoolVar(&opts.visible, "visible", true, "show or hide the node")
	cmd.Flags().StringVar(&opts.visibilityRule, "visibility-rule", "", "opaque visibility expression")
	cmd.Flags().StringArrayVar(&opts.props, "prop", nil, "set a property (key=value, repeatable)")
	cmd.Flags().StringArrayVar(&opts.unset, "unset-prop", nil, "remove a property (repeatable)")
	return cmd
}

// assignment is one parsed --prop flag.
type assignment struct {
	key   string
	value any
}

func parseAssignments(raw []string) ([]assignment, error) {
	out := make([]assignment, 0, len(raw))
	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, cterrors.New(cterrors.ErrCodeInvalidInput, "invalid --prop %q: want key=value", kv)
		}
		out = append(out, assignment{key: k, value: graph.ParseValue(v)})
	}
	return out, nil
}

// setNodeProperty applies one property, checking the option keys the
// analyzer relies on.
func setNodeProperty(g *graph.Graph, id, key string, v any) error {
	switch key {
	case graph.PropKey:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("option key must be text, got %v", v)
		}
		if err := cterrors.ValidateOptionKey(s); err != nil {
			return err
		}
	case graph.PropIncluded:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("included must be true or false, got %v", v)
		}
		return g.SetIncluded(id, b)
	case graph.PropEditable:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("editable must be true or false, got %v", v)
		}
	}
	return g.SetProperty(id, key, v)
}

// removeCommand creates the remove command.
func (c *CLI) removeCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "remove <graph.json> <node-id>",
		Short: "Delete a node and every edge touching it",
		Args:  cobra.ExactArgs(2),

		ValidArgsFunction: nodeIDCompletion(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := ctio.ImportGraph(args[0])
			if err != nil {
				return err
			}
			n, ok := g.Node(args[1])
			if !ok {
				return cterrors.NodeNotFound(args[1])
			}
			label := n.DisplayLabel()
			orphans := len(g.Children(n.ID))
			g.RemoveNode(n.ID)

			path, err := saveGraph(g, args[0], output, false)
			if err != nil {
				return err
			}
			printSuccess("Removed %s", label)
			if orphans > 0 {
				printWarning("%d child node(s) are now orphaned", orphans)
			}
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	return cmd
}
