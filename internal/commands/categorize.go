package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noora-ekramy/accounting-demo/internal/engine"
	"github.com/noora-ekramy/accounting-demo/internal/importer"
	"github.com/noora-ekramy/accounting-demo/internal/journal"
	"github.com/noora-ekramy/accounting-demo/internal/normalize"
)

func newCategorizeCommand(verbose *bool) *cobra.Command {
	var repoDir string
	var file string
	var format string
	var workers int

	cmd := &cobra.Command{
		Use:   "categorize",
		Short: "Suggest double-entry postings for bank transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(cmd.Context(), repoDir, *verbose)
			if err != nil {
				return err
			}

			parser := importer.DefaultRegistry().Get(format)
			if parser == nil {
				return fmt.Errorf("unknown format %q", format)
			}

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("opening %s: %w", file, err)
			}
			defer f.Close()

			txns, err := parser.Parse(f)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", file, err)
			}
			if len(txns) == 0 {
				fmt.Println("No transactions found.")
				return nil
			}

			results, err := rt.engine.CategorizeBatch(cmd.Context(), txns, workers)
			if err != nil {
				return err
			}

			printResults(results)
			return nil
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "repository directory")
	cmd.Flags().StringVar(&file, "file", "", "bank CSV file (required)")
	_ = cmd.MarkFlagRequired("file")
	cmd.Flags().StringVar(&format, "format", "generic", "bank CSV format")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent categorization workers (0 = default)")

	return cmd
}

func printResults(results []engine.Result) {
	for _, res := range results {
		txn := res.Transaction
		fmt.Printf("%s  %-40s  %s\n", txn.Date.Format("2006-01-02"), txn.Description, journal.MinorToDecimal(txn.Amount).StringFixed(2))

		if res.Err != nil {
			if errors.Is(res.Err, normalize.ErrInvalidTransaction) {
				fmt.Printf("    skipped: %v\n", res.Err)
				continue
			}
			fmt.Printf("    error: %v\n", res.Err)
			continue
		}

		for i, p := range res.Postings {
			fmt.Printf("    #%d (%.2f) %s\n", i+1, p.Confidence, p.Rationale)
			for _, line := range p.Lines {
				side := "debit "
				amount := line.Debit
				if line.Credit != 0 {
					side = "credit"
					amount = line.Credit
				}
				fmt.Printf("        %s %-6d %s\n", side, line.AccountID, journal.MinorToDecimal(amount).StringFixed(2))
			}
		}
	}
}
