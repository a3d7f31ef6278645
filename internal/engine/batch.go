package engine

import (
	"context"
	"sync"

	"github.com/noora-ekramy/accounting-demo/internal/model"
)

// defaultWorkers bounds batch fan-out when the caller does not.
const defaultWorkers = 4

// Result pairs one transaction with its categorization outcome. Err is
// per-transaction (e.g. zero amount) and does not abort the batch.
type Result struct {
	Transaction model.Transaction
	Postings    []model.Posting
	Err         error
}

// CategorizeBatch fans transactions out across workers. Each transaction
// is independent and the chart is read-only shared state, so no further
// coordination is needed. Results come back in input order. Cancellation
// discards all partial work and returns ctx.Err().
func (e *Engine) CategorizeBatch(ctx context.Context, txns []model.Transaction, workers int) ([]Result, error) {
	if len(txns) == 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > len(txns) {
		workers = len(txns)
	}

	results := make([]Result, len(txns))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				postings, err := e.Categorize(ctx, txns[i])
				results[i] = Result{Transaction: txns[i], Postings: postings, Err: err}
			}
		}()
	}

	canceled := false
	for i := range txns {
		select {
		case jobs <- i:
		case <-ctx.Done():
			canceled = true
		}
		if canceled {
			break
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
