package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/noora-ekramy/accounting-demo/internal/id"
	"github.com/noora-ekramy/accounting-demo/internal/model"
)

// GenericParser parses the plain date,description,amount[,reference] CSV
// the onboarding flow exports.
type GenericParser struct{}

const (
	genericDateFormat = "2006-01-02"
	genericColDate    = 0
	genericColDesc    = 1
	genericColAmount  = 2
	genericColRef     = 3
)

// Format returns the parser name.
func (p *GenericParser) Format() string { return "generic" }

// Parse reads a generic CSV and returns Transactions with fresh IDs.
func (p *GenericParser) Parse(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // reference column is optional

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading generic CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := parseGenericRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseGenericRow(rec []string) (model.Transaction, error) {
	if len(rec) < 3 {
		return model.Transaction{}, fmt.Errorf("expected at least 3 fields, got %d", len(rec))
	}

	date, err := time.Parse(genericDateFormat, rec[genericColDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", rec[genericColDate], err)
	}

	amount, err := AmountToMinor(rec[genericColAmount])
	if err != nil {
		return model.Transaction{}, err
	}

	ref := ""
	if len(rec) > genericColRef {
		ref = rec[genericColRef]
	}

	return model.Transaction{
		ID:          id.NewTransactionID(),
		Date:        date,
		Description: rec[genericColDesc],
		Amount:      amount,
		Reference:   ref,
	}, nil
}
