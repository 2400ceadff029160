// Package ranking scores, explains and orders candidates against job vacancies.
package ranking

import (
	"fmt"
	"math"
	"sort"

	"github.com/jonathan/talent-match/internal/scoring"
	"github.com/jonathan/talent-match/internal/types"
)

// weightSumTolerance is how far the weights may drift from 1.0
const weightSumTolerance = 1e-6

// rankingDimensions are scored when ranking applicants for a vacancy
var rankingDimensions = []types.Dimension{
	types.DimensionSkills,
	types.DimensionExperience,
	types.DimensionLocation,
	types.DimensionSalary,
	types.DimensionAvailability,
}

// talentPoolDimensions are scored when matching talent-bank registrants. Location and
// salary are replaced by area of interest.
var talentPoolDimensions = []types.Dimension{
	types.DimensionSkills,
	types.DimensionExperience,
	types.DimensionAvailability,
	types.DimensionAreaOfInterest,
}

// WeightConfig maps each dimension to its weight in the overall score
type WeightConfig map[types.Dimension]float64

// DefaultWeights returns the weights used to rank applicants
func DefaultWeights() WeightConfig {
	return WeightConfig{
		types.DimensionSkills:       0.40,
		types.DimensionExperience:   0.20,
		types.DimensionLocation:     0.15,
		types.DimensionSalary:       0.15,
		types.DimensionAvailability: 0.10,
	}
}

// DefaultTalentPoolWeights returns the weights used to match the talent pool
func DefaultTalentPoolWeights() WeightConfig {
	return WeightConfig{
		types.DimensionSkills:         0.45,
		types.DimensionExperience:     0.20,
		types.DimensionAvailability:   0.10,
		types.DimensionAreaOfInterest: 0.25,
	}
}

// ValidateWeights checks w against the dimensions a matcher supports. Weights must be
// non-negative and sum to 1.0; they are never renormalized.
func ValidateWeights(w WeightConfig, allowed []types.Dimension) error {
	if len(w) == 0 {
		return &ConfigError{Field: "weights", Message: "no weights configured"}
	}

	allowedSet := make(map[types.Dimension]bool, len(allowed))
	for _, d := range allowed {
		allowedSet[d] = true
	}

	// Sorted so the first reported problem does not depend on map order.
	dims := make([]types.Dimension, 0, len(w))
	for d := range w {
		dims = append(dims, d)
	}
	sort.Slice(dims, func(i, j int) bool { return dims[i] < dims[j] })

	sum := 0.0
	for _, d := range dims {
		weight := w[d]
		field := fmt.Sprintf("weights.%s", d)
		switch {
		case !d.Valid():
			return &ConfigError{Field: field, Message: fmt.Sprintf("unknown dimension %q", d)}
		case !scoring.Has(d):
			return &ConfigError{Field: field, Message: fmt.Sprintf("no scorer for dimension %q", d)}
		case !allowedSet[d]:
			return &ConfigError{Field: field, Message: fmt.Sprintf("dimension %q is not scored by this matcher", d)}
		case math.IsNaN(weight) || math.IsInf(weight, 0):
			return &ConfigError{Field: field, Message: "weight must be a finite number"}
		case weight < 0:
			return &ConfigError{Field: field, Message: fmt.Sprintf("weight must be non-negative, got %v", weight)}
		}
		sum += weight
	}

	if math.Abs(sum-1.0) > weightSumTolerance {
		return &ConfigError{Field: "weights", Message: fmt.Sprintf("weights must sum to 1.0, got %v", sum)}
	}
	return nil
}

// ValidateForRanking checks w for use with RankCandidatesForVacancy
func (w WeightConfig) ValidateForRanking() error {
	return ValidateWeights(w, rankingDimensions)
}

// ValidateForTalentPool checks w for use with MatchTalentPool
func (w WeightConfig) ValidateForTalentPool() error {
	return ValidateWeights(w, talentPoolDimensions)
}
