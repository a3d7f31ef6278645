package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noora-ekramy/accounting-demo/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "acct",
		Short:   "AI-assisted double-entry bookkeeping",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAccountsCommand())
	rootCmd.AddCommand(newCategorizeCommand(&verbose))
	rootCmd.AddCommand(newAcceptCommand(&verbose))
	rootCmd.AddCommand(newImportCommand(&verbose))

	return rootCmd
}
