// Package ranking orders scored candidates and packages them as match results.
package ranking

import (
	"math"
	"sort"

	"github.com/gcbaptista/go-reconcile/model"
)

const (
	minScore = 0.0
	maxScore = 100.0
)

// NewResult packages a scored candidate. The score is clamped to [0, 100].
func NewResult(candidate model.CandidateSummary, score float64, isMatch bool) model.MatchResult {
	return model.MatchResult{
		ID:      candidate.ID,
		Name:    candidate.DisplayName,
		Score:   clamp(score),
		IsMatch: isMatch,
		Type:    []model.EntityType{model.PlaceType},
	}
}

// ByName sorts results ascending by name, comparing bytes
func ByName(results []model.MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})
}

// ByScore sorts results by descending score. Equal scores keep their
// original relative order.
func ByScore(results []model.MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}

func clamp(score float64) float64 {
	if math.IsNaN(score) || score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
