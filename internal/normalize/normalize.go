// Package normalize turns raw bank transaction records into the cleaned
// view the categorization engine consumes. Normalization is pure and
// idempotent: the same raw transaction always yields the same result.
package normalize

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/noora-ekramy/accounting-demo/internal/model"
)

// ErrInvalidTransaction rejects transactions that cannot be categorized
// at all, such as a zero amount.
var ErrInvalidTransaction = errors.New("invalid transaction")

// Normalize derives the cleaned view of a raw transaction. Zero-amount
// transactions are rejected before any cleaning happens.
func Normalize(txn model.Transaction) (model.NormalizedTransaction, error) {
	if txn.Amount == 0 {
		return model.NormalizedTransaction{}, fmt.Errorf("transaction %s has zero amount: %w", txn.ID, ErrInvalidTransaction)
	}

	direction := model.DirectionInflow
	if txn.Amount < 0 {
		direction = model.DirectionOutflow
	}

	clean := CleanDescription(txn.Description)

	counterparty := txn.Counterparty
	if counterparty == "" {
		counterparty = extractCounterparty(clean)
	}

	return model.NormalizedTransaction{
		TransactionID:    txn.ID,
		CleanDescription: clean,
		Counterparty:     counterparty,
		Direction:        direction,
	}, nil
}

// CleanDescription strips punctuation noise from a bank description and
// collapses runs of whitespace. Letters, digits, ampersands, and spaces
// survive; everything else becomes a space.
func CleanDescription(desc string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '&':
			return r
		default:
			return ' '
		}
	}, desc)

	return strings.Join(strings.Fields(mapped), " ")
}

// extractCounterparty takes the leading alphabetic run of a cleaned
// description, stopping at the first token that looks like a reference
// code. "AWS Hosting 998271" -> "AWS Hosting".
func extractCounterparty(clean string) string {
	var words []string
	for _, tok := range strings.Fields(clean) {
		if !isAlphabetic(tok) {
			break
		}
		words = append(words, tok)
	}
	return strings.Join(words, " ")
}

func isAlphabetic(tok string) bool {
	for _, r := range tok {
		if !unicode.IsLetter(r) && r != '&' {
			return false
		}
	}
	return len(tok) > 0
}
