// Package oracle defines the external text-classification service the
// categorization engine consults, plus the available implementations.
// The oracle is untrusted: it may be slow, unreachable, or name accounts
// that do not exist, and callers must cope with all three.
package oracle

import (
	"context"
	"errors"

	"github.com/noora-ekramy/accounting-demo/internal/model"
)

// Candidate is one ranked category suggestion from a classifier.
type Candidate struct {
	AccountID  int
	Confidence float64 // 0.0 .. 1.0
	Rationale  string
}

// Classifier maps a transaction description to accounts drawn from the
// supplied candidate list. Implementations must honor ctx cancellation
// and return ErrTimeout/ErrTransport rather than provider-specific errors.
type Classifier interface {
	Classify(ctx context.Context, description string, candidates []model.Account) ([]Candidate, error)
	Name() string
}

// ErrTimeout means the classifier did not answer within the deadline.
var ErrTimeout = errors.New("oracle timeout")

// ErrTransport means the classifier was unreachable or answered garbage.
var ErrTransport = errors.New("oracle transport error")

// Unavailable reports whether err is a recoverable oracle failure. The
// engine treats these as zero candidates, never as a hard failure.
func Unavailable(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrTransport)
}

// clamp bounds a reported confidence to [0, 1].
func clamp(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
