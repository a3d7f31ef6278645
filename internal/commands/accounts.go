package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/noora-ekramy/accounting-demo/internal/chart"
	"github.com/noora-ekramy/accounting-demo/internal/model"
)

func newAccountsCommand() *cobra.Command {
	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Chart of accounts operations",
	}
	accountsCmd.AddCommand(newAccountsListCommand())
	return accountsCmd
}

func newAccountsListCommand() *cobra.Command {
	var repoDir string
	var accountType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the chart of accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(repoDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			svc, err := chart.Load(absDir)
			if err != nil {
				return err
			}

			snap := svc.Snapshot()
			if err := snap.ValidateTree(); err != nil {
				return err
			}

			accounts := snap.All()
			if accountType != "" {
				accounts = snap.ByType(model.AccountType(accountType))
			}

			for _, a := range accounts {
				fmt.Printf("%-6d %-30s %-10s %s\n", a.ID, a.Name, a.Type, a.NormalBalance())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "repository directory")
	cmd.Flags().StringVar(&accountType, "type", "", "filter by account type")

	return cmd
}
