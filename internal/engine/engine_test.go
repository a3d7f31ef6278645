package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noora-ekramy/accounting-demo/internal/chart"
	"github.com/noora-ekramy/accounting-demo/internal/model"
	"github.com/noora-ekramy/accounting-demo/internal/normalize"
	"github.com/noora-ekramy/accounting-demo/internal/oracle"
)

// mockClassifier returns canned candidates or a canned error.
type mockClassifier struct {
	candidates []oracle.Candidate
	err        error
	gotDesc    string
	gotCands   []model.Account
}

func (m *mockClassifier) Classify(_ context.Context, description string, candidates []model.Account) ([]oracle.Candidate, error) {
	m.gotDesc = description
	m.gotCands = candidates
	if m.err != nil {
		return nil, m.err
	}
	return m.candidates, nil
}

func (m *mockClassifier) Name() string { return "mock" }

func testChart(t *testing.T) *chart.Service {
	t.Helper()
	return chart.NewService([]model.Account{
		{ID: 1010, Name: "Business Checking", Type: model.AccountTypeAsset},
		{ID: 4010, Name: "Service Revenue", Type: model.AccountTypeRevenue},
		{ID: 4990, Name: "Uncategorized Income", Type: model.AccountTypeRevenue},
		{ID: 5020, Name: "Software & SaaS", Type: model.AccountTypeExpense},
		{ID: 5025, Name: "Cloud Hosting Expense", Type: model.AccountTypeExpense},
		{ID: 5990, Name: "Uncategorized Expense", Type: model.AccountTypeExpense},
	})
}

func newTestEngine(t *testing.T, cls oracle.Classifier, opts Options) *Engine {
	t.Helper()
	e, err := New(testChart(t), cls, opts, zerolog.Nop())
	require.NoError(t, err)
	return e
}

func awsTxn() model.Transaction {
	return model.Transaction{
		ID:          "txn-1",
		Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Description: "AWS *Hosting 998271",
		Amount:      -4500,
	}
}

func TestCategorize_OutflowDebitsMatchedCreditsCash(t *testing.T) {
	cls := &mockClassifier{candidates: []oracle.Candidate{
		{AccountID: 5025, Confidence: 0.92, Rationale: "hosting vendor"},
	}}
	e := newTestEngine(t, cls, Options{})

	postings, err := e.Categorize(context.Background(), awsTxn())
	require.NoError(t, err)
	require.Len(t, postings, 1)

	p := postings[0]
	assert.Equal(t, "txn-1", p.TransactionID)
	assert.Equal(t, 0.92, p.Confidence)
	require.Len(t, p.Lines, 2)
	assert.Equal(t, model.PostingLine{AccountID: 5025, Debit: 4500}, p.Lines[0])
	assert.Equal(t, model.PostingLine{AccountID: 1010, Credit: 4500}, p.Lines[1])
	assert.Equal(t, p.TotalDebits(), p.TotalCredits())
}

func TestCategorize_InflowDebitsCashCreditsMatched(t *testing.T) {
	cls := &mockClassifier{candidates: []oracle.Candidate{
		{AccountID: 4010, Confidence: 0.85, Rationale: "client payment"},
	}}
	e := newTestEngine(t, cls, Options{})

	txn := awsTxn()
	txn.Description = "STRIPE PAYOUT"
	txn.Amount = 250000

	postings, err := e.Categorize(context.Background(), txn)
	require.NoError(t, err)
	require.Len(t, postings, 1)

	p := postings[0]
	require.Len(t, p.Lines, 2)
	assert.Equal(t, model.PostingLine{AccountID: 1010, Debit: 250000}, p.Lines[0])
	assert.Equal(t, model.PostingLine{AccountID: 4010, Credit: 250000}, p.Lines[1])
}

func TestCategorize_ZeroAmountRejected(t *testing.T) {
	e := newTestEngine(t, &mockClassifier{}, Options{})

	txn := awsTxn()
	txn.Amount = 0

	_, err := e.Categorize(context.Background(), txn)
	require.Error(t, err)
	assert.ErrorIs(t, err, normalize.ErrInvalidTransaction)
}

func TestCategorize_OracleTimeoutFallsBack(t *testing.T) {
	cls := &mockClassifier{err: fmt.Errorf("classify: %w", oracle.ErrTimeout)}
	e := newTestEngine(t, cls, Options{})

	postings, err := e.Categorize(context.Background(), awsTxn())
	require.NoError(t, err)
	require.Len(t, postings, 1, "exactly one fallback suggestion")

	p := postings[0]
	assert.Equal(t, 0.0, p.Confidence)
	assert.Equal(t, "no match found", p.Rationale)
	assert.Equal(t, 5990, p.Lines[0].AccountID, "outflow falls back to uncategorized expense")
	assert.Equal(t, 1010, p.Lines[1].AccountID)
}

func TestCategorize_InflowFallbackIsIncome(t *testing.T) {
	cls := &mockClassifier{err: fmt.Errorf("classify: %w", oracle.ErrTransport)}
	e := newTestEngine(t, cls, Options{})

	txn := awsTxn()
	txn.Amount = 120000

	postings, err := e.Categorize(context.Background(), txn)
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Equal(t, 1010, postings[0].Lines[0].AccountID)
	assert.Equal(t, 4990, postings[0].Lines[1].AccountID, "inflow falls back to uncategorized income")
	assert.Equal(t, 0.0, postings[0].Confidence)
}

func TestCategorize_EmptyOracleResultFallsBack(t *testing.T) {
	e := newTestEngine(t, &mockClassifier{}, Options{})

	postings, err := e.Categorize(context.Background(), awsTxn())
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Equal(t, 0.0, postings[0].Confidence)
	assert.Equal(t, 5990, postings[0].Lines[0].AccountID)
}

func TestCategorize_UnknownAccountDiscarded(t *testing.T) {
	cls := &mockClassifier{candidates: []oracle.Candidate{
		{AccountID: 9999, Confidence: 0.99, Rationale: "hallucinated"},
		{AccountID: 5025, Confidence: 0.70, Rationale: "hosting vendor"},
	}}
	e := newTestEngine(t, cls, Options{})

	postings, err := e.Categorize(context.Background(), awsTxn())
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Equal(t, 5025, postings[0].Lines[0].AccountID)
}

func TestCategorize_CounterAccountSuggestionDiscarded(t *testing.T) {
	cls := &mockClassifier{candidates: []oracle.Candidate{
		{AccountID: 1010, Confidence: 0.99, Rationale: "it is the bank"},
	}}
	e := newTestEngine(t, cls, Options{})

	postings, err := e.Categorize(context.Background(), awsTxn())
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Equal(t, 0.0, postings[0].Confidence, "counter account match degrades to fallback")
}

func TestCategorize_RankedAndTruncated(t *testing.T) {
	cls := &mockClassifier{candidates: []oracle.Candidate{
		{AccountID: 5020, Confidence: 0.40, Rationale: "saas"},
		{AccountID: 5025, Confidence: 0.90, Rationale: "hosting"},
		{AccountID: 4010, Confidence: 0.10, Rationale: "unlikely"},
	}}
	e := newTestEngine(t, cls, Options{MaxSuggestions: 2})

	postings, err := e.Categorize(context.Background(), awsTxn())
	require.NoError(t, err)
	require.Len(t, postings, 2)
	assert.Equal(t, 5025, postings[0].Lines[0].AccountID)
	assert.Equal(t, 5020, postings[1].Lines[0].AccountID)
}

func TestCategorize_CallerCancellation(t *testing.T) {
	cls := &mockClassifier{err: context.Canceled}
	e := newTestEngine(t, cls, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Categorize(ctx, awsTxn())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCategorize_PassesCleanDescriptionAndCandidates(t *testing.T) {
	cls := &mockClassifier{}
	e := newTestEngine(t, cls, Options{})

	_, err := e.Categorize(context.Background(), awsTxn())
	require.NoError(t, err)

	assert.Equal(t, "AWS Hosting 998271", cls.gotDesc, "oracle sees the cleaned description")
	for _, a := range cls.gotCands {
		assert.NotEqual(t, 1010, a.ID, "counter account is never a candidate")
	}
	assert.Len(t, cls.gotCands, 5)
}

func TestManualPosting(t *testing.T) {
	e := newTestEngine(t, &mockClassifier{}, Options{})

	p, err := e.ManualPosting(awsTxn(), 5020)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.Confidence)
	assert.Equal(t, "selected by user", p.Rationale)
	require.Len(t, p.Lines, 2)
	assert.Equal(t, model.PostingLine{AccountID: 5020, Debit: 4500}, p.Lines[0])
	assert.Equal(t, model.PostingLine{AccountID: 1010, Credit: 4500}, p.Lines[1])
}

func TestManualPosting_Rejects(t *testing.T) {
	e := newTestEngine(t, &mockClassifier{}, Options{})

	_, err := e.ManualPosting(awsTxn(), 9999)
	require.Error(t, err, "unknown account")

	_, err = e.ManualPosting(awsTxn(), 1010)
	require.Error(t, err, "counter account")

	txn := awsTxn()
	txn.Amount = 0
	_, err = e.ManualPosting(txn, 5020)
	assert.ErrorIs(t, err, normalize.ErrInvalidTransaction)
}

func TestNew_ResolvesCounterByName(t *testing.T) {
	e := newTestEngine(t, &mockClassifier{}, Options{})
	assert.Equal(t, 1010, e.opts.CounterAccountID)
}

func TestNew_RejectsNonAssetCounter(t *testing.T) {
	_, err := New(testChart(t), &mockClassifier{}, Options{CounterAccountID: 5025}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be an asset")
}

func TestNew_RejectsUnknownCounter(t *testing.T) {
	_, err := New(testChart(t), &mockClassifier{}, Options{CounterAccountID: 7777}, zerolog.Nop())
	require.Error(t, err)
}

func TestNew_RejectsMalformedChart(t *testing.T) {
	svc := chart.NewService([]model.Account{
		{ID: 1010, Name: "Business Checking", Type: model.AccountTypeAsset, ParentID: 2000},
	})
	_, err := New(svc, &mockClassifier{}, Options{}, zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, chart.ErrUnknownParent)
}

func TestNew_RequiresFallbackAccounts(t *testing.T) {
	svc := chart.NewService([]model.Account{
		{ID: 1010, Name: "Business Checking", Type: model.AccountTypeAsset},
	})
	_, err := New(svc, &mockClassifier{}, Options{}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Uncategorized Expense")
}

func TestNew_RejectsWrongTypeFallback(t *testing.T) {
	_, err := New(testChart(t), &mockClassifier{}, Options{FallbackExpenseID: 4010}, zerolog.Nop())
	require.Error(t, err)

	_, err = New(testChart(t), &mockClassifier{}, Options{FallbackIncomeID: 5020}, zerolog.Nop())
	require.Error(t, err)
}
