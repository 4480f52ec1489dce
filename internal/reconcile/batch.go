package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/gcbaptista/go-reconcile/internal/metrics"
	"github.com/gcbaptista/go-reconcile/model"
)

// Reconcile scores every query of the batch. Queries run in parallel, at most
// maxParallel at a time; each query is scored sequentially. The first failing
// query cancels the others and fails the whole batch.
func (s *Service) Reconcile(ctx context.Context, batch *model.QueryBatch) (scored *model.ScoredBatch, err error) {
	startTime := time.Now()

	if err := s.validateBatch(batch); err != nil {
		return nil, err
	}
	defer func() {
		status := "ok"
		if err != nil {
			status = "failed"
		}
		metrics.RecordBatch(status, time.Since(startTime).Seconds())
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type queryResult struct {
		key     string
		results []model.MatchResult
		err     error
	}

	resultChan := make(chan queryResult, batch.Len())
	workers := make(chan struct{}, s.maxParallel)

	for _, key := range batch.Keys {
		go func(key string, q model.Query) {
			select {
			case workers <- struct{}{}:
				defer func() { <-workers }()
			case <-ctx.Done():
				resultChan <- queryResult{key: key, err: ctx.Err()}
				return
			}

			results, err := s.ReconcileQuery(ctx, q)
			resultChan <- queryResult{key: key, results: results, err: err}
		}(key, batch.Queries[key])
	}

	scored = model.NewScoredBatch(batch.Keys)
	for i := 0; i < batch.Len(); i++ {
		select {
		case qr := <-resultChan:
			if qr.err != nil {
				return nil, fmt.Errorf("query '%s': %w", qr.key, qr.err)
			}
			scored.Set(qr.key, qr.results)
		case <-ctx.Done():
			return nil, fmt.Errorf("reconciliation cancelled: %w", ctx.Err())
		}
	}

	s.logger.Debug("reconciled batch", "queries", batch.Len(), "took", time.Since(startTime))
	return scored, nil
}
