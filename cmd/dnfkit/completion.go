package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for dnfkit.

Bash:
  $ source <(dnfkit completion bash)
  # Load for every session:
  $ dnfkit completion bash | sudo tee /etc/bash_completion.d/dnfkit

Zsh:
  $ dnfkit completion zsh > "${fpath[1]}/_dnfkit"
  # Start a new shell afterwards. Completion must be enabled
  # ("autoload -U compinit; compinit" in ~/.zshrc).

Fish:
  $ dnfkit completion fish > ~/.config/fish/completions/dnfkit.fish

PowerShell:
  PS> dnfkit completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		var err error
		switch args[0] {
		case "bash":
			err = rootCmd.GenBashCompletionV2(os.Stdout, true)
		case "zsh":
			err = rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			err = rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			err = rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
