package commands

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/noora-ekramy/accounting-demo/internal/auditlog"
	"github.com/noora-ekramy/accounting-demo/internal/gitops"
	"github.com/noora-ekramy/accounting-demo/internal/importer"
	"github.com/noora-ekramy/accounting-demo/internal/model"
	"github.com/noora-ekramy/accounting-demo/internal/normalize"
)

func newImportCommand(verbose *bool) *cobra.Command {
	var repoDir string
	var format string
	var workers int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Categorize CSVs from import/ and journal confident suggestions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(cmd.Context(), repoDir, *verbose)
			if err != nil {
				return err
			}
			return runImport(cmd, rt, format, workers, dryRun)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "repository directory")
	cmd.Flags().StringVar(&format, "format", "generic", "bank CSV format")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent categorization workers (0 = default)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "categorize without writing to the journal")

	return cmd
}

func runImport(cmd *cobra.Command, rt *runtime, format string, workers int, dryRun bool) error {
	parser := importer.DefaultRegistry().Get(format)
	if parser == nil {
		return fmt.Errorf("unknown format %q", format)
	}

	files, err := importer.Scan(rt.repoRoot)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("Nothing to import.")
		return nil
	}

	var audit []auditlog.Entry
	changed := map[string]bool{"import": true}
	for _, file := range files {
		accepted, pending, err := importFile(cmd, rt, parser, file, workers, dryRun, &audit, changed)
		if err != nil {
			return fmt.Errorf("importing %s: %w", file.Name, err)
		}
		fmt.Printf("%s: %d entries journaled, %d left for review\n", file.Name, accepted, pending)

		if !dryRun {
			if err := importer.MarkProcessed(rt.repoRoot, file.Name); err != nil {
				return err
			}
		}
	}

	if dryRun || len(audit) == 0 {
		return nil
	}

	if rt.cfg.Git.AutoCommit && gitops.IsRepo(rt.repoRoot) {
		paths := make([]string, 0, len(changed))
		for p := range changed {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		hash, err := gitops.CommitPaths(rt.repoRoot, "import: categorize bank transactions", rt.cfg.Git.AuthorName, rt.cfg.Git.AuthorEmail, paths)
		if err != nil {
			rt.log.Warn().Err(err).Msg("auto-commit failed")
		} else {
			for i := range audit {
				audit[i].CommitHash = hash
			}
		}
	}

	if err := auditlog.Append(rt.repoRoot, audit); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to write audit log: %v\n", err)
	}
	return nil
}

func importFile(cmd *cobra.Command, rt *runtime, parser importer.Parser, file importer.FileInfo, workers int, dryRun bool, audit *[]auditlog.Entry, changed map[string]bool) (accepted, pending int, err error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return 0, 0, err
	}
	txns, err := parser.Parse(f)
	f.Close()
	if err != nil {
		return 0, 0, err
	}

	results, err := rt.engine.CategorizeBatch(cmd.Context(), txns, workers)
	if err != nil {
		return 0, 0, err
	}

	for _, res := range results {
		if res.Err != nil {
			if errors.Is(res.Err, normalize.ErrInvalidTransaction) {
				rt.log.Warn().Str("txn", res.Transaction.ID).Err(res.Err).Msg("skipping transaction")
				continue
			}
			return accepted, pending, res.Err
		}
		if len(res.Postings) == 0 {
			pending++
			continue
		}

		top := res.Postings[0]
		*audit = append(*audit, auditlog.Entry{
			Timestamp:     time.Now().UTC(),
			Action:        "categorize",
			TransactionID: res.Transaction.ID,
			Details:       fmt.Sprintf("%d suggestion(s), top confidence %.2f", len(res.Postings), top.Confidence),
		})

		if dryRun || top.Confidence < rt.cfg.Thresholds.AutoConfirm {
			pending++
			continue
		}

		entryID, err := rt.journal.Accept(top, res.Transaction, model.StatusAutoConfirmed)
		if err != nil {
			return accepted, pending, err
		}
		accepted++
		date := res.Transaction.Date
		changed[fmt.Sprintf("%04d/%02d", date.Year(), int(date.Month()))] = true
		*audit = append(*audit, auditlog.Entry{
			Timestamp:     time.Now().UTC(),
			Action:        "accept",
			TransactionID: res.Transaction.ID,
			EntryID:       entryID,
			Details:       fmt.Sprintf("auto-confirmed at %.2f", top.Confidence),
		})
	}
	return accepted, pending, nil
}
