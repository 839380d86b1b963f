package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/configtower/pkg/analysis"
	"github.com/matzehuels/configtower/pkg/graph"
	"github.com/matzehuels/configtower/pkg/pipeline"
)

// analyzeOptions holds flags for the analyze command.
type analyzeOptions struct {
	raw         bool
	refresh     bool
	suggestions bool
	strict      bool
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze <graph.json>",
		Short: "Report issues, dependencies and conflicts for every node",
		Long: `Analyze runs the rule engine over every node of a configuration graph and
prints the nodes that have issues, grouped in graph order.

Use --rules to supply the rule table, or --raw to read a raw module
configuration that carries its own rules.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.raw, "raw", false, "read a raw module configuration instead of a graph")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached reports")
	cmd.Flags().BoolVar(&opts.suggestions, "suggestions", false, "also print suggestions and notices")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit non-zero when any node is critical")

	return cmd
}

func (c *CLI) runAnalyze(cmd *cobra.Command, path string, opts analyzeOptions) error {
	ctx := cmd.Context()
	snap, err := c.loadSnapshot(ctx, path, opts.raw)
	if err != nil {
		return err
	}

	runner, err := c.newRunner()
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Analyze(ctx, snap.Graph, snap.Table, c.config().pipelineOptions(opts.refresh))
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	if c.config().Output == outputJSON {
		if err := writeJSON(stdout, res.Report); err != nil {
			return err
		}
	} else {
		printReport(snap.Graph, res, opts.suggestions)
		if len(res.Report.Fixes()) > 0 {
			printNewline()
			printNextStep("Apply all fixes", fmt.Sprintf("%s fix %s --all", appName, path))
		}
	}

	if opts.strict && res.Report.Health() == analysis.HealthCritical {
		return fmt.Errorf("configuration has critical issues")
	}
	return nil
}

// printReport prints the nodes with diagnostics and a summary.
func printReport(g *graph.Graph, res *pipeline.Result, suggestions bool) {
	r := res.Report
	printHeading("Configuration analysis")
	printStats(len(r.Order), r.TotalIssues, len(r.ConflictPairs), res.CacheHit)
	printNewline()

	shown := 0
	for _, a := range r.Analyses() {
		if len(a.Issues) == 0 && (!suggestions || len(a.Suggestions) == 0) {
			continue
		}
		shown++
		printNodeHeader(g, a)
		for _, is := range a.Issues {
			printIssue(is)
		}
		if suggestions {
			for _, is := range a.Suggestions {
				printIssue(is)
			}
		}
		printNewline()
	}

	if shown == 0 {
		printSuccess("No issues found")
	}

	counts := r.Counts()
	summary := fmt.Sprintf("%d errors, %d warnings, %d info, %d suggestions",
		counts[analysis.SeverityError], counts[analysis.SeverityWarning],
		counts[analysis.SeverityInfo], counts[analysis.SeveritySuggestion])
	switch r.Health() {
	case analysis.HealthCritical:
		printError("Critical: %s", summary)
	case analysis.HealthWarning:
		printWarning("Warnings: %s", summary)
	default:
		printSuccess("Healthy: %s", summary)
	}
	for _, p := range r.ConflictPairs {
		printDetail("conflict: %s ⚡ %s", nodeName(g, p.A), nodeName(g, p.B))
	}
}

func printNodeHeader(g *graph.Graph, a analysis.NodeAnalysis) {
	kind := ""
	if n, ok := g.Node(a.NodeID); ok {
		kind = n.Kind.Label()
	}
	fmt.Fprintf(stdout, "%s %s %s\n", StyleHighlight.Render(nodeName(g, a.NodeID)), StyleDim.Render(kind+" "+a.NodeID), healthBadge(a.Health))
}

// nodeName returns the display label of id, or id itself when unknown.
func nodeName(g *graph.Graph, id string) string {
	if n, ok := g.Node(id); ok {
		return n.DisplayLabel()
	}
	return id
}
