// Package ranking scores, explains and orders candidates against job vacancies.
package ranking

import (
	"math"

	"github.com/jonathan/talent-match/internal/types"
)

// Aggregate combines dimension scores into a CompatibilityResult (without rank).
// The overall score is the sum of raw × weight. Dimensions are reported in
// types.DimensionOrder regardless of input order, and the sum is taken in that
// order so identical inputs produce bit-identical scores.
func Aggregate(candidateID, vacancyID string, scores []types.DimensionScore, weights WeightConfig) types.CompatibilityResult {
	byDimension := make(map[types.Dimension]types.DimensionScore, len(scores))
	for _, s := range scores {
		byDimension[s.Dimension] = s
	}

	ordered := make([]types.DimensionScore, 0, len(scores))
	overall := 0.0
	for _, d := range types.DimensionOrder {
		s, ok := byDimension[d]
		if !ok {
			continue
		}
		s.Weight = weights[d]
		s.Contribution = s.Raw * s.Weight
		overall += s.Contribution
		ordered = append(ordered, s)
	}

	if overall > 1.0 {
		overall = 1.0
	}
	if overall < 0.0 {
		overall = 0.0
	}

	return types.CompatibilityResult{
		CandidateID:   candidateID,
		VacancyID:     vacancyID,
		OverallScore:  overall,
		Percent:       math.Round(overall*1000) / 10,
		Dimensions:    ordered,
		MatchedSkills: []string{},
		MissingSkills: []string{},
	}
}
