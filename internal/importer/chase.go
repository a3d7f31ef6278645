package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/noora-ekramy/accounting-demo/internal/id"
	"github.com/noora-ekramy/accounting-demo/internal/model"
)

// ChaseParser parses Chase bank checking CSV exports.
type ChaseParser struct{}

const (
	chaseDateFormat = "01/02/2006"
	chaseNumFields  = 7
	chaseColDate    = 1
	chaseColDesc    = 2
	chaseColAmount  = 3
)

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV and returns Transactions.
func (p *ChaseParser) Parse(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = chaseNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := parseChaseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseChaseRow(rec []string) (model.Transaction, error) {
	date, err := time.Parse(chaseDateFormat, rec[chaseColDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", rec[chaseColDate], err)
	}

	amount, err := AmountToMinor(rec[chaseColAmount])
	if err != nil {
		return model.Transaction{}, err
	}

	desc := rec[chaseColDesc]

	return model.Transaction{
		ID:          id.NewTransactionID(),
		Date:        date,
		Description: desc,
		Amount:      amount,
		Reference:   makeChaseRef(date, desc),
	}, nil
}

// makeChaseRef creates a reference like chase_20250103_GITHUB.
func makeChaseRef(date time.Time, desc string) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	return fmt.Sprintf("chase_%s_%s", date.Format("20060102"), prefix)
}
