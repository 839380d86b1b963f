package cli

import (
	"strings"

	"github.com/spf13/cobra"

	ctio "github.com/matzehuels/configtower/pkg/io"
)

// completionCommand prints shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <bash|zsh|fish|powershell>",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for your shell. Node IDs are completed from
the graph file named earlier on the command line.

  $ source <(configtower completion bash)
  $ configtower completion zsh > "${fpath[1]}/_configtower"
  $ configtower completion fish | source
  PS> configtower completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(stdout, true)
			case "zsh":
				return root.GenZshCompletion(stdout)
			case "fish":
				return root.GenFishCompletion(stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(stdout)
			}
		},
	}
}

// nodeIDCompletion completes the graph path as a file and every later
// positional argument, up to argc in total, as a node ID from that graph.
// argc < 0 means no limit, which suits flag completion.
func nodeIDCompletion(argc int) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return nil, cobra.ShellCompDirectiveDefault
		}
		if argc >= 0 && len(args) >= argc {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		g, err := ctio.ImportGraph(args[0])
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		var out []string
		for _, n := range g.Nodes() {
			if strings.HasPrefix(n.ID, toComplete) {
				out = append(out, n.ID+"\t"+n.Kind.Label()+": "+n.DisplayLabel())
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}
