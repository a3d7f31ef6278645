package model

// PostingLine is one side of a proposed double-entry. Exactly one of
// Debit/Credit must be nonzero; both are minor currency units.
type PostingLine struct {
	AccountID int
	Debit     int64
	Credit    int64
}

// Posting is a candidate double-entry suggestion for one transaction.
// It is ephemeral and owned by the caller until accepted into the journal.
type Posting struct {
	TransactionID string
	Lines         []PostingLine
	Confidence    float64 // 0.0 .. 1.0
	Rationale     string
}

// TotalDebits sums the debit side across all lines.
func (p Posting) TotalDebits() int64 {
	var sum int64
	for _, l := range p.Lines {
		sum += l.Debit
	}
	return sum
}

// TotalCredits sums the credit side across all lines.
func (p Posting) TotalCredits() int64 {
	var sum int64
	for _, l := range p.Lines {
		sum += l.Credit
	}
	return sum
}
