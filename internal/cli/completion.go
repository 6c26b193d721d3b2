package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for pinpoint.

To load completions:

Bash:
  $ source <(pinpoint completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ pinpoint completion bash > /etc/bash_completion.d/pinpoint
  # macOS:
  $ pinpoint completion bash > $(brew --prefix)/etc/bash_completion.d/pinpoint

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ pinpoint completion zsh > "${fpath[1]}/_pinpoint"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ pinpoint completion fish | source

  # To load completions for each session, execute once:
  $ pinpoint completion fish > ~/.config/fish/completions/pinpoint.fish

PowerShell:
  PS> pinpoint completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> pinpoint completion powershell > pinpoint.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
