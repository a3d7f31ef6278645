package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/noora-ekramy/accounting-demo/internal/id"
	"github.com/noora-ekramy/accounting-demo/internal/model"
)

// Service persists accepted posting suggestions as journal entries.
// Entries live in <repoRoot>/<YYYY>/<MM>/journal.csv, one leg per row.
type Service struct {
	repoRoot string
	accounts AccountChecker
}

// NewService creates a journal Service.
func NewService(repoRoot string, accounts AccountChecker) *Service {
	return &Service{repoRoot: repoRoot, accounts: accounts}
}

// Accept validates a posting suggestion and appends it to the journal as a
// balanced entry. The month is taken from the transaction date. Returns
// the new entry ID.
func (s *Service) Accept(p model.Posting, txn model.Transaction, status model.EntryStatus) (string, error) {
	if err := Validate(p, s.accounts); err != nil {
		return "", fmt.Errorf("rejecting posting for %s: %w", p.TransactionID, err)
	}

	year := txn.Date.Year()
	month := int(txn.Date.Month())

	seq, err := s.NextEntrySeq(year, month)
	if err != nil {
		return "", err
	}
	entryID := id.FormatEntryID(year, month, seq)

	confidence := decimal.NewFromFloat(p.Confidence).Round(4)

	legs := make([]model.Leg, 0, len(p.Lines))
	for i, line := range p.Lines {
		leg := model.Leg{
			EntryID:       id.FormatLegID(entryID, i),
			Date:          txn.Date,
			AccountID:     line.AccountID,
			Description:   txn.Description,
			Counterparty:  txn.Counterparty,
			TransactionID: txn.ID,
			Confidence:    confidence,
			Status:        status,
			Rationale:     p.Rationale,
		}
		if line.Debit != 0 {
			leg.Debit = MinorToDecimal(line.Debit)
		}
		if line.Credit != 0 {
			leg.Credit = MinorToDecimal(line.Credit)
		}
		legs = append(legs, leg)
	}

	if err := s.appendLegs(year, month, legs); err != nil {
		return "", err
	}
	return entryID, nil
}

// ReadMonth reads all legs for a given year/month.
func (s *Service) ReadMonth(year, month int) ([]model.Leg, error) {
	path := s.MonthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer f.Close()

	legs, err := ReadLegs(f)
	if err != nil {
		return nil, fmt.Errorf("reading journal %s: %w", path, err)
	}
	return legs, nil
}

// ReadAll reads every leg across all months, oldest file first. Used to
// train the local classifier from accepted history.
func (s *Service) ReadAll() ([]model.Leg, error) {
	paths, err := filepath.Glob(filepath.Join(s.repoRoot, "[0-9][0-9][0-9][0-9]", "[0-9][0-9]", "journal.csv"))
	if err != nil {
		return nil, fmt.Errorf("globbing journal files: %w", err)
	}

	var all []model.Leg
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening journal %s: %w", path, err)
		}
		legs, err := ReadLegs(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading journal %s: %w", path, err)
		}
		all = append(all, legs...)
	}
	return all, nil
}

// NextEntrySeq returns the next available sequence number for a month.
func (s *Service) NextEntrySeq(year, month int) (int, error) {
	legs, err := s.ReadMonth(year, month)
	if err != nil {
		return 0, err
	}

	maxSeq := 0
	for _, leg := range legs {
		_, _, seq, err := id.ParseEntryID(leg.EntryID)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1, nil
}

// MonthPath returns the journal.csv path for a month.
func (s *Service) MonthPath(year, month int) string {
	return filepath.Join(s.repoRoot, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "journal.csv")
}

// MinorToDecimal renders minor currency units as a 2-dp decimal.
func MinorToDecimal(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

func (s *Service) appendLegs(year, month int, legs []model.Leg) error {
	path := s.MonthPath(year, month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating journal dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendLegs(f, legs); err != nil {
		return fmt.Errorf("appending legs: %w", err)
	}
	return nil
}
