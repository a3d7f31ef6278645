package model

import "time"

// Transaction represents an ingested bank transaction. Amounts are signed
// minor currency units (cents): negative = money out, positive = money in.
// Immutable once imported.
type Transaction struct {
	ID           string // assigned at import time
	Date         time.Time
	Description  string
	Amount       int64
	Counterparty string
	Reference    string
}

// Direction classifies which way money moved.
type Direction string

const (
	DirectionInflow  Direction = "inflow"
	DirectionOutflow Direction = "outflow"
)

// NormalizedTransaction is the cleaned, derived view of a Transaction that
// the categorization engine works with. It is recomputed on demand and
// never persisted as authoritative data.
type NormalizedTransaction struct {
	TransactionID    string
	CleanDescription string
	Counterparty     string
	Direction        Direction
}

// AbsAmount returns the transaction amount with the sign stripped.
func (t Transaction) AbsAmount() int64 {
	if t.Amount < 0 {
		return -t.Amount
	}
	return t.Amount
}
