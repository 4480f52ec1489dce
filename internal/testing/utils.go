// Package testing provides an in-memory gazetteer and helpers for testing the
// reconciliation packages.
package testing

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-reconcile/model"
)

// FakeGazetteer is a CandidateRepository backed by maps. It counts calls and
// can be told to fail specific lookups. It is safe for concurrent use.
type FakeGazetteer struct {
	mu          sync.Mutex
	searches    map[string][]model.CandidateSummary
	records     map[string]model.Record
	searchErrs  map[string]error
	fetchErrs   map[string]error
	searchCalls int
	fetchCalls  map[string]int
}

// NewFakeGazetteer creates an empty fake gazetteer
func NewFakeGazetteer() *FakeGazetteer {
	return &FakeGazetteer{
		searches:   make(map[string][]model.CandidateSummary),
		records:    make(map[string]model.Record),
		searchErrs: make(map[string]error),
		fetchErrs:  make(map[string]error),
		fetchCalls: make(map[string]int),
	}
}

// AddPlace registers a place record under id
func (f *FakeGazetteer) AddPlace(id string, record model.Record) *FakeGazetteer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[id] = record
	return f
}

// AddSearch registers the candidates returned for text
func (f *FakeGazetteer) AddSearch(text string, candidates ...model.CandidateSummary) *FakeGazetteer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches[text] = candidates
	return f
}

// FailSearch makes searches for text return err
func (f *FakeGazetteer) FailSearch(text string, err error) *FakeGazetteer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchErrs[text] = err
	return f
}

// FailFetch makes record fetches for id return err
func (f *FakeGazetteer) FailFetch(id string, err error) *FakeGazetteer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchErrs[id] = err
	return f
}

// SearchByText implements services.CandidateRepository
func (f *FakeGazetteer) SearchByText(ctx context.Context, text string) ([]model.CandidateSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	if err, ok := f.searchErrs[text]; ok {
		return nil, err
	}
	found := f.searches[text]
	out := make([]model.CandidateSummary, len(found))
	copy(out, found)
	return out, nil
}

// FetchRecord implements services.CandidateRepository
func (f *FakeGazetteer) FetchRecord(ctx context.Context, id string) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls[id]++
	if err, ok := f.fetchErrs[id]; ok {
		return nil, err
	}
	record, ok := f.records[id]
	if !ok {
		return nil, fmt.Errorf("place %s not found", id)
	}
	out := make(model.Record, len(record))
	for k, v := range record {
		out[k] = v
	}
	return out, nil
}

// SearchCalls returns the number of text searches served
func (f *FakeGazetteer) SearchCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searchCalls
}

// FetchCalls returns the number of record fetches for id
func (f *FakeGazetteer) FetchCalls(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls[id]
}

// TotalFetchCalls returns the number of record fetches across all ids
func (f *FakeGazetteer) TotalFetchCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.fetchCalls {
		total += n
	}
	return total
}

// Candidates builds summaries from alternating id, name pairs
func Candidates(idNamePairs ...string) []model.CandidateSummary {
	if len(idNamePairs)%2 != 0 {
		panic("Candidates expects id, name pairs")
	}
	out := make([]model.CandidateSummary, 0, len(idNamePairs)/2)
	for i := 0; i < len(idNamePairs); i += 2 {
		out = append(out, model.CandidateSummary{ID: idNamePairs[i], DisplayName: idNamePairs[i+1]})
	}
	return out
}

// NewSampleGazetteer returns a fake gazetteer with a few places that share
// the name "Vilna" and differ by country and language
func NewSampleGazetteer() *FakeGazetteer {
	f := NewFakeGazetteer()
	f.AddPlace("101", model.Record{"primary_heb_full": "וילנה", "country_code": "LT", "language": "lit", "modernCountry": "Lithuania"})
	f.AddPlace("102", model.Record{"primary_heb_full": "וילנה", "country_code": "PL", "language": "pol", "modernCountry": "Poland"})
	f.AddPlace("103", model.Record{"primary_heb_full": "וילנה", "country_code": "US", "language": "eng"})
	f.AddPlace("201", model.Record{"primary_heb_full": "צפת", "country_code": "IL", "language": "heb", "wd": "Q212402"})
	f.AddSearch("וילנה", Candidates("101", "Vilnius", "102", "Wilno", "103", "Vilna NY")...)
	f.AddSearch("צפת", Candidates("201", "Safed")...)
	return f
}

// MatchCount returns how many results are flagged as a match
func MatchCount(results []model.MatchResult) int {
	n := 0
	for _, r := range results {
		if r.IsMatch {
			n++
		}
	}
	return n
}

// AssertValidResults checks the invariants every result list must hold:
// scores in [0, 100], the Place type and at most one match
func AssertValidResults(t *testing.T, results []model.MatchResult) {
	t.Helper()
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Score, 0.0, "score of %s below range", r.ID)
		assert.LessOrEqual(t, r.Score, 100.0, "score of %s above range", r.ID)
		require.Len(t, r.Type, 1)
		assert.Equal(t, model.PlaceType, r.Type[0])
	}
	assert.LessOrEqual(t, MatchCount(results), 1, "at most one result may be a match")
}

// ScoreByID indexes results by candidate id
func ScoreByID(results []model.MatchResult) map[string]model.MatchResult {
	out := make(map[string]model.MatchResult, len(results))
	for _, r := range results {
		out[r.ID] = r
	}
	return out
}
