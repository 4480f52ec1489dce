package scoring

import (
	"context"

	"github.com/charmbracelet/log"

	internalErrors "github.com/gcbaptista/go-reconcile/internal/errors"
	"github.com/gcbaptista/go-reconcile/internal/ranking"
	"github.com/gcbaptista/go-reconcile/internal/similarity"
	"github.com/gcbaptista/go-reconcile/model"
	"github.com/gcbaptista/go-reconcile/services"
)

// Evaluation holds the intermediate values of a property-constrained scoring run.
// Ratios and WinningSets are indexed by constraint first, then by candidate.
type Evaluation struct {
	Ratios      [][]float64
	WinningSets [][]int
	Credits     []int
	BestIndex   int  // Lowest candidate index with the highest credit count, -1 without candidates
	UniqueBest  bool // True when exactly one candidate has the highest credit count
	Fetches     int  // Number of records fetched from the repository
}

// PropertyScorer scores candidates against property constraints
type PropertyScorer struct {
	repo    services.CandidateRepository
	catalog services.PropertyCatalog
	logger  *log.Logger
}

// NewPropertyScorer creates a scorer reading candidate records from repo and
// resolving property ids through catalog
func NewPropertyScorer(repo services.CandidateRepository, catalog services.PropertyCatalog, logger *log.Logger) *PropertyScorer {
	if logger == nil {
		logger = log.Default()
	}
	return &PropertyScorer{repo: repo, catalog: catalog, logger: logger}
}

// Score returns one result per candidate ordered by descending score.
// A candidate's score is the share of constraints it best matches; the match
// flag is set only when a single candidate has the highest credit count.
func (s *PropertyScorer) Score(ctx context.Context, candidates []model.CandidateSummary, constraints []model.PropertyConstraint) ([]model.MatchResult, error) {
	eval, err := s.Evaluate(ctx, candidates, constraints)
	if err != nil {
		return nil, err
	}

	results := make([]model.MatchResult, len(candidates))
	m := float64(len(constraints))
	for i, c := range candidates {
		score := 100.0 * float64(eval.Credits[i]) / m
		isMatch := eval.UniqueBest && i == eval.BestIndex
		results[i] = ranking.NewResult(c, score, isMatch)
	}
	ranking.ByScore(results)
	return results, nil
}

// Evaluate computes similarity ratios, winning sets and credit counts.
// Every referenced property must exist in the catalog; it is checked before
// any record is fetched. A failed record fetch aborts the evaluation.
func (s *PropertyScorer) Evaluate(ctx context.Context, candidates []model.CandidateSummary, constraints []model.PropertyConstraint) (*Evaluation, error) {
	if len(constraints) == 0 {
		return nil, internalErrors.NewValidationError("properties", "at least one property constraint is required")
	}

	keys := make([]string, len(constraints))
	for j, pc := range constraints {
		descriptor, ok := s.catalog.Lookup(pc.PropertyID)
		if !ok {
			return nil, internalErrors.NewUnknownPropertyError(pc.PropertyID)
		}
		keys[j] = descriptor.InternalKey
	}

	eval := &Evaluation{
		Ratios:      make([][]float64, len(constraints)),
		WinningSets: make([][]int, len(constraints)),
		Credits:     make([]int, len(candidates)),
		BestIndex:   -1,
	}
	if len(candidates) == 0 {
		return eval, nil
	}

	cache := newRecordCache(s.repo, len(candidates))
	for j, pc := range constraints {
		ratios := make([]float64, len(candidates))
		for i, c := range candidates {
			record, err := cache.get(ctx, c.ID)
			if err != nil {
				return nil, internalErrors.NewRecordFetchError(c.ID, err)
			}
			ratios[i] = similarity.Ratio(record.Value(keys[j]), pc.Value)
		}
		eval.Ratios[j] = ratios
		eval.WinningSets[j] = winningSet(ratios)
		for _, i := range eval.WinningSets[j] {
			eval.Credits[i]++
		}
	}
	eval.Fetches = cache.fetches
	eval.BestIndex, eval.UniqueBest = bestIndex(eval.Credits)

	s.logger.Debug("scored constrained query",
		"candidates", len(candidates),
		"constraints", len(constraints),
		"fetches", eval.Fetches,
		"unique_best", eval.UniqueBest)

	return eval, nil
}

// winningSet returns every index whose ratio equals the maximum. Ties are all kept.
func winningSet(ratios []float64) []int {
	if len(ratios) == 0 {
		return nil
	}
	maxRatio := ratios[0]
	for _, r := range ratios[1:] {
		if r > maxRatio {
			maxRatio = r
		}
	}
	var winners []int
	for i, r := range ratios {
		if r == maxRatio {
			winners = append(winners, i)
		}
	}
	return winners
}

// bestIndex returns the lowest index with the highest credit count and
// whether no other index shares that count
func bestIndex(credits []int) (int, bool) {
	if len(credits) == 0 {
		return -1, false
	}
	best, count := 0, 1
	for i := 1; i < len(credits); i++ {
		switch {
		case credits[i] > credits[best]:
			best, count = i, 1
		case credits[i] == credits[best]:
			count++
		}
	}
	return best, count == 1
}
