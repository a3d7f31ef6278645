package journal

import (
	"fmt"

	"github.com/noora-ekramy/accounting-demo/internal/model"
)

// Reason identifies why a candidate posting was rejected.
type Reason string

const (
	ReasonUnknownAccount Reason = "unknown-account"
	ReasonUnbalanced     Reason = "unbalanced"
	ReasonDegenerate     Reason = "degenerate-posting"
	ReasonMalformedLine  Reason = "malformed-line"
)

// ValidationError describes a single rejected posting.
type ValidationError struct {
	Reason Reason
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

// AccountChecker tests whether an account ID exists in the chart of accounts.
type AccountChecker interface {
	Exists(id int) bool
}

// Validate accepts or rejects a candidate posting. Checks run in a fixed
// order and the first violation wins: account resolution, balance, line
// count, then line shape. Validation never mutates anything; amounts are
// exact integer minor units throughout.
func Validate(p model.Posting, accounts AccountChecker) error {
	for _, line := range p.Lines {
		if !accounts.Exists(line.AccountID) {
			return &ValidationError{
				Reason: ReasonUnknownAccount,
				Detail: fmt.Sprintf("account %d not in chart of accounts", line.AccountID),
			}
		}
	}

	debits := p.TotalDebits()
	credits := p.TotalCredits()
	if debits != credits {
		return &ValidationError{
			Reason: ReasonUnbalanced,
			Detail: fmt.Sprintf("debits (%d) != credits (%d)", debits, credits),
		}
	}

	if len(p.Lines) < 2 {
		return &ValidationError{
			Reason: ReasonDegenerate,
			Detail: fmt.Sprintf("posting has %d line(s), need at least 2", len(p.Lines)),
		}
	}

	for i, line := range p.Lines {
		if line.Debit < 0 || line.Credit < 0 {
			return &ValidationError{
				Reason: ReasonMalformedLine,
				Detail: fmt.Sprintf("line %d has a negative amount", i),
			}
		}
		hasDebit := line.Debit != 0
		hasCredit := line.Credit != 0
		if hasDebit == hasCredit {
			return &ValidationError{
				Reason: ReasonMalformedLine,
				Detail: fmt.Sprintf("line %d must have exactly one of debit or credit", i),
			}
		}
	}

	return nil
}
