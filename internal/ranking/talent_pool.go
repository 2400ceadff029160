// Package ranking scores, explains and orders candidates against job vacancies.
package ranking

import (
	"context"

	"github.com/jonathan/talent-match/internal/normalize"
	"github.com/jonathan/talent-match/internal/types"
	"go.uber.org/zap"
)

// MatchTalentPool matches talent-bank registrants against a vacancy's category.
// Registrants without a declared area of interest cannot be matched: they are left
// out of Matches and reported through Skipped and SkippedIDs.
func (e *Engine) MatchTalentPool(
	ctx context.Context,
	vacancy *types.VacancyProfile,
	pool []types.CandidateProfile,
	weights WeightConfig,
) (*types.TalentPoolMatch, error) {
	if vacancy == nil {
		return nil, &ConfigError{Field: "vacancy", Message: "vacancy is required"}
	}
	if err := ValidateWeights(weights, talentPoolDimensions); err != nil {
		return nil, err
	}

	eligible := make([]types.CandidateProfile, 0, len(pool))
	skippedIDs := make([]string, 0)
	for _, registrant := range pool {
		if normalize.Fold(registrant.AreaOfInterest) == "" {
			skippedIDs = append(skippedIDs, registrant.ID)
			continue
		}
		eligible = append(eligible, registrant)
	}

	nv := normalize.Vacancy(vacancy)
	results, err := e.scoreAll(ctx, &nv, eligible, talentPoolDimensions, weights, 0)
	if err != nil {
		return nil, err
	}

	match := &types.TalentPoolMatch{
		VacancyID: vacancy.ID,
		Matches:   Rank(results, RankOptions{}),
		Skipped:   len(skippedIDs),
	}
	if len(skippedIDs) > 0 {
		match.SkippedIDs = skippedIDs
	}

	e.log.Debug("matched talent pool",
		zap.String("vacancy_id", vacancy.ID),
		zap.Int("pool", len(pool)),
		zap.Int("matched", len(match.Matches)),
		zap.Int("skipped", match.Skipped),
	)

	return match, nil
}

// MatchTalentPool matches the talent pool using an engine with default settings
func MatchTalentPool(
	ctx context.Context,
	vacancy *types.VacancyProfile,
	pool []types.CandidateProfile,
	weights WeightConfig,
) (*types.TalentPoolMatch, error) {
	return newDefaultEngine().MatchTalentPool(ctx, vacancy, pool, weights)
}
