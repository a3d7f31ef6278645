package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/noora-ekramy/accounting-demo/internal/auditlog"
	"github.com/noora-ekramy/accounting-demo/internal/gitops"
	"github.com/noora-ekramy/accounting-demo/internal/id"
	"github.com/noora-ekramy/accounting-demo/internal/importer"
	"github.com/noora-ekramy/accounting-demo/internal/model"
)

func newAcceptCommand(verbose *bool) *cobra.Command {
	var repoDir string
	var dateStr string
	var description string
	var amountStr string
	var accountID int

	cmd := &cobra.Command{
		Use:   "accept",
		Short: "Journal a categorization for one transaction",
		Long: "Categorize a single transaction and journal the result. Without " +
			"--account the top suggestion is accepted as user-confirmed; with " +
			"--account the chosen account wins and the entry is marked " +
			"user-corrected unless it matches the top suggestion.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(cmd.Context(), repoDir, *verbose)
			if err != nil {
				return err
			}

			date, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fmt.Errorf("parsing date %q: %w", dateStr, err)
			}
			amount, err := importer.AmountToMinor(amountStr)
			if err != nil {
				return err
			}

			txn := model.Transaction{
				ID:          id.NewTransactionID(),
				Date:        date,
				Description: description,
				Amount:      amount,
			}
			return runAccept(cmd, rt, txn, accountID)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "repository directory")
	cmd.Flags().StringVar(&dateStr, "date", "", "transaction date, YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("date")
	cmd.Flags().StringVar(&description, "description", "", "bank description (required)")
	_ = cmd.MarkFlagRequired("description")
	cmd.Flags().StringVar(&amountStr, "amount", "", "signed amount, e.g. -45.00 (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().IntVar(&accountID, "account", 0, "category account ID (overrides the top suggestion)")

	return cmd
}

func runAccept(cmd *cobra.Command, rt *runtime, txn model.Transaction, accountID int) error {
	postings, err := rt.engine.Categorize(cmd.Context(), txn)
	if err != nil {
		return err
	}

	chosen := postings[0]
	status := model.StatusUserConfirmed
	if accountID != 0 && !postingUses(chosen, accountID) {
		if p, ok := findPosting(postings, accountID); ok {
			chosen = p
		} else {
			chosen, err = rt.engine.ManualPosting(txn, accountID)
			if err != nil {
				return err
			}
		}
		status = model.StatusUserCorrected
	}

	entryID, err := rt.journal.Accept(chosen, txn, status)
	if err != nil {
		return err
	}
	fmt.Printf("Journaled %s (%s)\n", entryID, status)

	audit := []auditlog.Entry{{
		Timestamp:     time.Now().UTC(),
		Action:        "accept",
		TransactionID: txn.ID,
		EntryID:       entryID,
		Details:       string(status),
	}}

	if rt.cfg.Git.AutoCommit && gitops.IsRepo(rt.repoRoot) {
		monthDir := fmt.Sprintf("%04d/%02d", txn.Date.Year(), int(txn.Date.Month()))
		hash, err := gitops.CommitPaths(rt.repoRoot, "accept: journal "+entryID, rt.cfg.Git.AuthorName, rt.cfg.Git.AuthorEmail, []string{monthDir})
		if err != nil {
			rt.log.Warn().Err(err).Msg("auto-commit failed")
		} else {
			audit[0].CommitHash = hash
		}
	}

	return auditlog.Append(rt.repoRoot, audit)
}

// postingUses reports whether the posting books its category side against
// accountID.
func postingUses(p model.Posting, accountID int) bool {
	for _, line := range p.Lines {
		if line.AccountID == accountID {
			return true
		}
	}
	return false
}

func findPosting(postings []model.Posting, accountID int) (model.Posting, bool) {
	for _, p := range postings {
		if postingUses(p, accountID) {
			return p, true
		}
	}
	return model.Posting{}, false
}
