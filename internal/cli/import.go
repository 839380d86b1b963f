package cli

import (
	"os"

	"github.com/spf13/cobra"

	cterrors "github.com/matzehuels/configtower/pkg/errors"
	ctio "github.com/matzehuels/configtower/pkg/io"
	"github.com/matzehuels/configtower/pkg/rules"
)

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	var output, rulesOut string

	cmd := &cobra.Command{
		Use:   "import <config.json>",
		Short: "Convert a raw module configuration into a graph and a rule table",
		Long: `Import reads a raw configuration (modules with groups, options, rules and
state machines) and writes the equivalent configuration graph. Rules declared
by the modules can be written to a TOML rule table with --rules-out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := newProgress(loggerFromContext(cmd.Context()))
			cfg, err := ctio.LoadRawConfig(args[0])
			if err != nil {
				return err
			}
			g, table, err := ctio.ParseConfig(cfg)
			if err != nil {
				return err
			}
			prog.done("Parsed " + pluralize(len(cfg.Modules), "module"))

			path, err := saveGraph(g, args[0], output, true)
			if err != nil {
				return err
			}
			printSuccess("Imported %s, %s", pluralize(g.NodeCount(), "node"), pluralize(g.EdgeCount(), "edge"))
			printFile(path)

			if rulesOut != "" {
				if err := writeRules(table, rulesOut); err != nil {
					return err
				}
				printSuccess("Wrote %s", pluralize(table.Len(), "rule"))
				printFile(rulesOut)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "graph output file (default: <input>.graph.json)")
	cmd.Flags().StringVar(&rulesOut, "rules-out", "", "write the rule table as TOML to this file")
	return cmd
}

func writeRules(table *rules.Table, path string) error {
	if err := cterrors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return cterrors.Wrap(cterrors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := rules.WriteTOML(f, table); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
