// Package engine maps normalized bank transactions to ranked double-entry
// posting suggestions. The oracle proposes the category side; the engine
// synthesizes the offsetting cash line, validates, and ranks. It always
// produces at least one reviewable suggestion per transaction.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/noora-ekramy/accounting-demo/internal/chart"
	"github.com/noora-ekramy/accounting-demo/internal/journal"
	"github.com/noora-ekramy/accounting-demo/internal/model"
	"github.com/noora-ekramy/accounting-demo/internal/normalize"
	"github.com/noora-ekramy/accounting-demo/internal/oracle"
)

// DefaultOracleTimeout bounds a single classifier call.
const DefaultOracleTimeout = 30 * time.Second

// fallbackRationale is shown when no candidate survived.
const fallbackRationale = "no match found"

// Options configure an Engine. Zero values are resolved against the chart
// at construction time.
type Options struct {
	// CounterAccountID is the cash/bank account for the offsetting line.
	// When zero, the first asset account whose name mentions checking,
	// cash, or bank is used. Which account to offset against when several
	// exist is a configuration decision, not something the engine infers.
	CounterAccountID int

	// FallbackExpenseID / FallbackIncomeID receive zero-confidence
	// suggestions when the oracle produces nothing usable. When zero,
	// accounts named "Uncategorized Expense" / "Uncategorized Income"
	// are looked up in the chart.
	FallbackExpenseID int
	FallbackIncomeID  int

	// OracleTimeout bounds the classifier call. Defaults to DefaultOracleTimeout.
	OracleTimeout time.Duration

	// MaxSuggestions truncates the ranked output. 0 = no limit.
	MaxSuggestions int
}

// Engine is the transaction categorization engine.
type Engine struct {
	chart      *chart.Service
	classifier oracle.Classifier
	opts       Options
	log        zerolog.Logger
}

// New creates an Engine. The chart tree is validated up front: a malformed
// chart is fatal since no valid posting can be computed against it. The
// counter and fallback accounts are resolved and type-checked here so that
// Categorize can always degrade to a well-formed fallback.
func New(chartSvc *chart.Service, classifier oracle.Classifier, opts Options, log zerolog.Logger) (*Engine, error) {
	snap := chartSvc.Snapshot()
	if err := snap.ValidateTree(); err != nil {
		return nil, fmt.Errorf("chart of accounts: %w", err)
	}

	if opts.OracleTimeout <= 0 {
		opts.OracleTimeout = DefaultOracleTimeout
	}

	var err error
	if opts.CounterAccountID, err = resolveCounter(snap, opts.CounterAccountID); err != nil {
		return nil, err
	}
	if opts.FallbackExpenseID, err = resolveFallback(snap, opts.FallbackExpenseID, "Uncategorized Expense", model.AccountTypeExpense); err != nil {
		return nil, err
	}
	if opts.FallbackIncomeID, err = resolveFallback(snap, opts.FallbackIncomeID, "Uncategorized Income", model.AccountTypeRevenue); err != nil {
		return nil, err
	}

	return &Engine{
		chart:      chartSvc,
		classifier: classifier,
		opts:       opts,
		log:        log.With().Str("component", "engine").Logger(),
	}, nil
}

// Categorize is the engine's sole entry point: raw transaction in, ranked
// posting suggestions out. Zero-amount transactions are rejected; oracle
// failures degrade to a single zero-confidence fallback suggestion.
func (e *Engine) Categorize(ctx context.Context, txn model.Transaction) ([]model.Posting, error) {
	norm, err := normalize.Normalize(txn)
	if err != nil {
		return nil, err
	}

	// One consistent view for the whole request, even if onboarding
	// appends accounts concurrently.
	snap := e.chart.Snapshot()

	candidates := e.candidateAccounts(snap)

	cctx, cancel := context.WithTimeout(ctx, e.opts.OracleTimeout)
	defer cancel()

	suggested, err := e.classifier.Classify(cctx, norm.CleanDescription, candidates)
	if err != nil {
		if ctx.Err() != nil {
			// Caller cancellation: discard whatever the oracle sent.
			return nil, ctx.Err()
		}
		if !oracle.Unavailable(err) {
			e.log.Warn().Err(err).Str("classifier", e.classifier.Name()).Msg("unexpected classifier error, treating as unavailable")
		} else {
			e.log.Warn().Err(err).Str("txn", txn.ID).Str("classifier", e.classifier.Name()).Msg("oracle unavailable, falling back")
		}
		suggested = nil
	}

	postings := make([]model.Posting, 0, len(suggested))
	for _, cand := range suggested {
		if !snap.Exists(cand.AccountID) {
			e.log.Debug().Int("account", cand.AccountID).Str("txn", txn.ID).Msg("oracle named unknown account, discarding")
			continue
		}
		if cand.AccountID == e.opts.CounterAccountID {
			// Matching the cash side itself leaves nothing to offset.
			continue
		}
		p := e.buildPosting(txn, norm.Direction, cand.AccountID, cand.Confidence, cand.Rationale)
		if verr := journal.Validate(p, snap); verr != nil {
			e.log.Debug().Err(verr).Str("txn", txn.ID).Msg("dropping invalid candidate posting")
			continue
		}
		postings = append(postings, p)
	}

	if len(postings) == 0 {
		postings = append(postings, e.fallbackPosting(txn, norm.Direction))
	}

	ranked := Rank(postings)
	if e.opts.MaxSuggestions > 0 && len(ranked) > e.opts.MaxSuggestions {
		ranked = ranked[:e.opts.MaxSuggestions]
	}
	return ranked, nil
}

// ManualPosting synthesizes a full-confidence posting against a
// user-chosen account, bypassing the oracle. The usual validation still
// applies so a bad account choice is rejected, not journaled.
func (e *Engine) ManualPosting(txn model.Transaction, accountID int) (model.Posting, error) {
	norm, err := normalize.Normalize(txn)
	if err != nil {
		return model.Posting{}, err
	}

	if accountID == e.opts.CounterAccountID {
		return model.Posting{}, fmt.Errorf("account %d is the counter account; nothing to offset", accountID)
	}

	snap := e.chart.Snapshot()
	p := e.buildPosting(txn, norm.Direction, accountID, 1, "selected by user")
	if verr := journal.Validate(p, snap); verr != nil {
		return model.Posting{}, verr
	}
	return p, nil
}

// buildPosting synthesizes the two-line double entry: outflows debit the
// matched account and credit cash; inflows debit cash and credit the
// matched account.
func (e *Engine) buildPosting(txn model.Transaction, dir model.Direction, accountID int, confidence float64, rationale string) model.Posting {
	amount := txn.AbsAmount()

	var lines []model.PostingLine
	if dir == model.DirectionOutflow {
		lines = []model.PostingLine{
			{AccountID: accountID, Debit: amount},
			{AccountID: e.opts.CounterAccountID, Credit: amount},
		}
	} else {
		lines = []model.PostingLine{
			{AccountID: e.opts.CounterAccountID, Debit: amount},
			{AccountID: accountID, Credit: amount},
		}
	}

	return model.Posting{
		TransactionID: txn.ID,
		Lines:         lines,
		Confidence:    confidence,
		Rationale:     rationale,
	}
}

// fallbackPosting is the zero-confidence suggestion against the
// uncategorized account for the transaction's direction.
func (e *Engine) fallbackPosting(txn model.Transaction, dir model.Direction) model.Posting {
	accountID := e.opts.FallbackExpenseID
	if dir == model.DirectionInflow {
		accountID = e.opts.FallbackIncomeID
	}
	return e.buildPosting(txn, dir, accountID, 0, fallbackRationale)
}

// candidateAccounts is the chart subset offered to the oracle: everything
// except the counter account, which is implied by every suggestion.
func (e *Engine) candidateAccounts(snap *chart.Snapshot) []model.Account {
	all := snap.All()
	out := make([]model.Account, 0, len(all))
	for _, a := range all {
		if a.ID == e.opts.CounterAccountID {
			continue
		}
		out = append(out, a)
	}
	return out
}

func resolveCounter(snap *chart.Snapshot, configured int) (int, error) {
	if configured != 0 {
		a, ok := snap.Get(configured)
		if !ok {
			return 0, fmt.Errorf("counter account %d not in chart of accounts", configured)
		}
		if a.Type != model.AccountTypeAsset {
			return 0, fmt.Errorf("counter account %d (%s) must be an asset, got %s", a.ID, a.Name, a.Type)
		}
		return configured, nil
	}

	for _, a := range snap.ByType(model.AccountTypeAsset) {
		name := strings.ToLower(a.Name)
		if strings.Contains(name, "checking") || strings.Contains(name, "cash") || strings.Contains(name, "bank") {
			return a.ID, nil
		}
	}
	return 0, fmt.Errorf("no cash/bank asset account found; set counter_account_id in config")
}

func resolveFallback(snap *chart.Snapshot, configured int, name string, wantType model.AccountType) (int, error) {
	if configured != 0 {
		a, ok := snap.Get(configured)
		if !ok {
			return 0, fmt.Errorf("fallback account %d not in chart of accounts", configured)
		}
		if a.Type != wantType {
			return 0, fmt.Errorf("fallback account %d (%s) must be %s, got %s", a.ID, a.Name, wantType, a.Type)
		}
		return configured, nil
	}

	a, ok := snap.FindByName(name)
	if !ok {
		return 0, fmt.Errorf("chart of accounts has no %q account; add one or configure a fallback", name)
	}
	return a.ID, nil
}
