// Package scoring computes confidence scores for gazetteer candidates.
//
// Queries without property constraints are scored by NameOnly, which splits
// confidence evenly between candidates. Queries with constraints are scored by
// PropertyScorer, which credits every candidate that best matches each
// constraint and flags a match only for a unique overall winner.
package scoring

import (
	"github.com/gcbaptista/go-reconcile/internal/ranking"
	"github.com/gcbaptista/go-reconcile/model"
)

// NameOnly scores candidates found by text alone. A single candidate is a
// certain match; otherwise every candidate gets an equal share of 100 and
// none is a match. Results are ordered by name.
func NameOnly(candidates []model.CandidateSummary) []model.MatchResult {
	switch len(candidates) {
	case 0:
		return []model.MatchResult{}
	case 1:
		return []model.MatchResult{ranking.NewResult(candidates[0], 100.0, true)}
	}

	share := 100.0 / float64(len(candidates))
	results := make([]model.MatchResult, len(candidates))
	for i, c := range candidates {
		results[i] = ranking.NewResult(c, share, false)
	}
	ranking.ByName(results)
	return results
}
