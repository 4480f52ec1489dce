package scoring

import (
	"context"

	"github.com/gcbaptista/go-reconcile/model"
	"github.com/gcbaptista/go-reconcile/services"
)

// recordCache memoizes candidate records for a single scoring call so each
// candidate is fetched at most once however many constraints read it.
// It is not safe for concurrent use and must not outlive the call.
type recordCache struct {
	repo    services.CandidateRepository
	records map[string]model.Record
	fetches int
}

func newRecordCache(repo services.CandidateRepository, size int) *recordCache {
	return &recordCache{
		repo:    repo,
		records: make(map[string]model.Record, size),
	}
}

// get returns the record for id, fetching it on first use. Failed fetches
// are not cached.
func (rc *recordCache) get(ctx context.Context, id string) (model.Record, error) {
	if record, ok := rc.records[id]; ok {
		return record, nil
	}
	rc.fetches++
	record, err := rc.repo.FetchRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	rc.records[id] = record
	return record, nil
}
