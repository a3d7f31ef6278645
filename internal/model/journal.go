package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus represents the lifecycle state of an accepted journal entry.
type EntryStatus string

const (
	StatusAutoConfirmed EntryStatus = "auto-confirmed"
	StatusPendingReview EntryStatus = "pending-review"
	StatusUserConfirmed EntryStatus = "user-confirmed"
	StatusUserCorrected EntryStatus = "user-corrected"
	StatusVoided        EntryStatus = "voided"
)

// Leg is a single row in journal.csv (one side of an accepted double-entry).
// Debit/Credit carry at most 2 decimal places; zero on the unused side.
type Leg struct {
	EntryID       string // "YYYY-MM-NNNx" where x = a,b,c...
	Date          time.Time
	AccountID     int
	Description   string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	Counterparty  string
	TransactionID string // bank transaction this entry was posted from
	Confidence    decimal.Decimal
	Status        EntryStatus
	Rationale     string
}

// EntryGroup returns the base entry ID (without leg suffix).
// "2025-01-001a" -> "2025-01-001"
func (l Leg) EntryGroup() string {
	id := l.EntryID
	i := len(id)
	for i > 0 && id[i-1] >= 'a' && id[i-1] <= 'z' {
		i--
	}
	return id[:i]
}
