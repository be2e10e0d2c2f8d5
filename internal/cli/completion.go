package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/threadtree/pkg/pipeline"
)

// completionCommand generates shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for your shell. Besides subcommands and flags,
the scripts complete flag values such as traversal orders, sibling orderings,
output formats and graph stores:

  $ threadtree traverse tree.json --order <TAB>
  in    post    pre

Load completions for the current shell:

  bash        $ source <(threadtree completion bash)
  zsh         $ source <(threadtree completion zsh)
  fish        $ threadtree completion fish | source
  powershell  PS> threadtree completion powershell | Out-String | Invoke-Expression

To keep them, write the script to your shell's completion directory, e.g.
~/.config/fish/completions/threadtree.fish or a file in $fpath for zsh.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// completeValues returns a flag completion function offering fixed values.
func completeValues(values ...string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// registerCompletions adds value completion to the flags of cmd that exist.
func registerCompletions(cmd *cobra.Command) {
	values := map[string][]string{
		"order":    {"pre", "in", "post"},
		"order-by": {pipeline.OrderByID, pipeline.OrderByIDDesc, pipeline.OrderByX, pipeline.OrderByXDesc},
		"format":   {pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatDOT},
		"store":    {storeMemory, storeMongo},
	}
	for name, v := range values {
		if cmd.Flags().Lookup(name) != nil {
			_ = cmd.RegisterFlagCompletionFunc(name, completeValues(v...))
		}
	}
}
