package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noora-ekramy/accounting-demo/internal/model"
	"github.com/noora-ekramy/accounting-demo/internal/oracle"
)

func batchTxns(n int) []model.Transaction {
	txns := make([]model.Transaction, n)
	for i := range txns {
		txns[i] = model.Transaction{
			ID:          fmt.Sprintf("txn-%d", i),
			Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			Description: "AWS Hosting",
			Amount:      -4500,
		}
	}
	return txns
}

func TestCategorizeBatch_PreservesInputOrder(t *testing.T) {
	cls := &mockClassifier{candidates: []oracle.Candidate{
		{AccountID: 5025, Confidence: 0.9, Rationale: "hosting"},
	}}
	e := newTestEngine(t, cls, Options{})

	txns := batchTxns(20)
	results, err := e.CategorizeBatch(context.Background(), txns, 4)
	require.NoError(t, err)
	require.Len(t, results, 20)

	for i, r := range results {
		assert.Equal(t, txns[i].ID, r.Transaction.ID)
		require.NoError(t, r.Err)
		require.NotEmpty(t, r.Postings)
		assert.Equal(t, txns[i].ID, r.Postings[0].TransactionID)
	}
}

func TestCategorizeBatch_PerTransactionErrors(t *testing.T) {
	e := newTestEngine(t, &mockClassifier{}, Options{})

	txns := batchTxns(3)
	txns[1].Amount = 0

	results, err := e.CategorizeBatch(context.Background(), txns, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err, "zero amount fails that transaction only")
	assert.NoError(t, results[2].Err)
}

func TestCategorizeBatch_Cancellation(t *testing.T) {
	e := newTestEngine(t, &mockClassifier{}, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := e.CategorizeBatch(ctx, batchTxns(50), 4)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results, "cancellation discards partial work")
}

func TestCategorizeBatch_Empty(t *testing.T) {
	e := newTestEngine(t, &mockClassifier{}, Options{})

	results, err := e.CategorizeBatch(context.Background(), nil, 4)
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestCategorizeBatch_MoreWorkersThanWork(t *testing.T) {
	cls := &mockClassifier{candidates: []oracle.Candidate{
		{AccountID: 5025, Confidence: 0.9, Rationale: "hosting"},
	}}
	e := newTestEngine(t, cls, Options{})

	results, err := e.CategorizeBatch(context.Background(), batchTxns(2), 16)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}
