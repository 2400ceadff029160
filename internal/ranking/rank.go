// Package ranking scores, explains and orders candidates against job vacancies.
package ranking

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/jonathan/talent-match/internal/types"
)

// RankOptions controls filtering, truncation and parallelism of a ranking run
type RankOptions struct {
	// MinScore drops results strictly below it. 0 keeps everything.
	MinScore float64 `json:"min_score"`
	// Limit caps the number of results after filtering. 0 means unbounded.
	Limit int `json:"limit"`
	// Parallelism is the number of candidates scored concurrently. 0 uses the
	// engine default; 1 is sequential.
	Parallelism int `json:"parallelism"`
}

// Validate checks the option ranges
func (o RankOptions) Validate() error {
	if math.IsNaN(o.MinScore) || o.MinScore < 0 || o.MinScore > 1 {
		return &ConfigError{Field: "min_score", Message: fmt.Sprintf("must be within [0,1], got %v", o.MinScore)}
	}
	if o.Limit < 0 {
		return &ConfigError{Field: "limit", Message: "must be non-negative"}
	}
	if o.Parallelism < 0 {
		return &ConfigError{Field: "parallelism", Message: "must be non-negative"}
	}
	return nil
}

// Rank filters results below MinScore, sorts by overall score descending with
// candidate ID ascending as tie-break, applies Limit and assigns 1-based ranks.
// Results sharing a candidate ID are ordered by their content, so the output
// does not depend on input order. The input slice is not modified.
func Rank(results []types.CompatibilityResult, opts RankOptions) []types.CompatibilityResult {
	ranked := make([]types.CompatibilityResult, 0, len(results))
	for _, r := range results {
		if r.OverallScore < opts.MinScore {
			continue
		}
		ranked = append(ranked, r)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].OverallScore != ranked[j].OverallScore {
			return ranked[i].OverallScore > ranked[j].OverallScore
		}
		if ranked[i].CandidateID != ranked[j].CandidateID {
			return ranked[i].CandidateID < ranked[j].CandidateID
		}
		return contentKey(&ranked[i]) < contentKey(&ranked[j])
	})

	if opts.Limit > 0 && len(ranked) > opts.Limit {
		ranked = ranked[:opts.Limit]
	}

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked
}

// contentKey is the canonical encoding of a result before ranking
func contentKey(r *types.CompatibilityResult) string {
	unranked := *r
	unranked.Rank = 0
	b, err := json.Marshal(unranked)
	if err != nil {
		return fmt.Sprintf("%+v", unranked)
	}
	return string(b)
}
