package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	cterrors "github.com/matzehuels/configtower/pkg/errors"
	"github.com/matzehuels/configtower/pkg/pipeline"
)

// renderOptions holds flags for the render command.
type renderOptions struct {
	output    string
	direction string
	detailed  bool
	hideRules bool
	raw       bool
	refresh   bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render <graph.json>",
		Short: "Draw the graph as a health-coloured node-link diagram",
		Long: `Render analyses the graph and draws every node coloured by its health:
green for healthy, amber for warnings and red for critical issues. Excluded
options are dashed and rule edges are drawn as dashed "requires" links.

The format follows the output extension: .dot writes Graphviz source, anything
else writes SVG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snap, err := c.loadSnapshot(ctx, args[0], opts.raw)
			if err != nil {
				return err
			}

			out := opts.output
			if out == "" {
				out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".svg"
			}
			if err := cterrors.ValidatePath(out); err != nil {
				return err
			}
			format := pipeline.FormatSVG
			if strings.EqualFold(filepath.Ext(out), ".dot") {
				format = pipeline.FormatDOT
			}

			runner, err := c.newRunner()
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(loggerFromContext(ctx))
			res, err := runner.Render(ctx, snap.Graph, snap.Table, pipeline.RenderOptions{
				Options:   c.config().pipelineOptions(opts.refresh),
				Format:    format,
				Direction: strings.ToUpper(opts.direction),
				Detailed:  opts.detailed,
				HideRules: opts.hideRules,
			})
			if err != nil {
				return err
			}
			prog.done("Rendered " + format)

			if err := os.WriteFile(out, res.Data, 0o644); err != nil {
				return cterrors.Wrap(cterrors.ErrCodeInvalidPath, err, "write %s", out)
			}
			printSuccess("Rendered %s diagram %s", format, healthBadge(res.Report.Health()))
			printFile(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (.svg or .dot; default: <input>.svg)")
	cmd.Flags().StringVar(&opts.direction, "direction", "TB", "layout direction: TB or LR")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include kind, key and issue count in labels")
	cmd.Flags().BoolVar(&opts.hideRules, "hide-rules", false, "omit rule edges")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "read a raw module configuration instead of a graph")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached analysis and diagrams")
	return cmd
}
