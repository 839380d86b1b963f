package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/configtower/pkg/analysis"
	cterrors "github.com/matzehuels/configtower/pkg/errors"
	"github.com/matzehuels/configtower/pkg/fix"
	"github.com/matzehuels/configtower/pkg/graph"
)

// fixOptions holds flags for the fix command.
type fixOptions struct {
	output string
	all    bool
	raw    bool
	dryRun bool
}

// fixCommand creates the fix command.
func (c *CLI) fixCommand() *cobra.Command {
	var opts fixOptions

	cmd := &cobra.Command{
		Use:   "fix <graph.json> [issue-id]",
		Short: "Apply the fix attached to an issue, or every fix with --all",
		Long: `Fix enables missing dependencies and disables conflicting options as
suggested by the analysis, then re-analyses the result and writes the graph.

Issue IDs are shown by "analyze" (for example missing_dep_av1_hw_accel).`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.all == (len(args) == 2) {
				return cterrors.New(cterrors.ErrCodeInvalidInput, "give either an issue ID or --all")
			}
			issueID := ""
			if len(args) == 2 {
				issueID = args[1]
			}
			return c.runFix(cmd, args[0], issueID, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "apply every available fix")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "read a raw module configuration instead of a graph")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "show what would change without writing")
	return cmd
}

func (c *CLI) runFix(cmd *cobra.Command, path, issueID string, opts fixOptions) error {
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

	cfg := c.config()
	before, err := runner.Analyze(ctx, snap.Graph, snap.Table, cfg.pipelineOptions(false))
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	var (
		fixed   *graph.Graph
		applied []analysis.Fix
	)
	if opts.all {
		fixed, applied, err = fix.ApplyAll(snap.Graph, before.Report)
	} else {
		is, ok := before.Report.Issue(issueID)
		switch {
		case !ok:
			return cterrors.New(cterrors.ErrCodeNotFound, "issue %q not found", issueID)
		case is.Fix == nil:
			return cterrors.New(cterrors.ErrCodeUnsupported, "issue %q has no automatic fix", issueID)
		}
		fixed, err = fix.Apply(snap.Graph, *is.Fix)
		applied = []analysis.Fix{*is.Fix}
	}
	if err != nil {
		return err
	}

	if len(applied) == 0 {
		printInfo("Nothing to fix")
		return nil
	}

	after, err := runner.Analyze(ctx, fixed, snap.Table, cfg.pipelineOptions(false))
	if err != nil {
		return fmt.Errorf("re-analyze: %w", err)
	}

	if cfg.Output == outputJSON {
		if err := writeJSON(stdout, struct {
			Applied []analysis.Fix  `json:"applied"`
			Report  analysis.Report `json:"report"`
		}{applied, after.Report}); err != nil {
			return err
		}
	} else {
		for _, f := range applied {
			printSuccess("%s %s", f.Label, StyleDim.Render("("+nodeName(fixed, f.TargetID)+")"))
		}
		printDetail("issues: %d %s %d", before.Report.TotalIssues, iconArrow, after.Report.TotalIssues)
	}

	if opts.dryRun {
		c.Logger.Info("dry run; nothing written")
		return nil
	}
	out, err := saveGraph(fixed, path, opts.output, opts.raw)
	if err != nil {
		return err
	}
	c.Logger.Info("wrote graph", "path", out)
	return nil
}
