// Package ranking scores, explains and orders candidates against job vacancies.
package ranking

import (
	"context"
	"fmt"

	"github.com/jonathan/talent-match/internal/normalize"
	"github.com/jonathan/talent-match/internal/scoring"
	"github.com/jonathan/talent-match/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultParallelThreshold is the pool size above which parallel scoring kicks in
const DefaultParallelThreshold = 200

// EngineOptions configures an Engine. Zero values select defaults.
type EngineOptions struct {
	// Constants shapes the dimension scorers; nil uses scoring.DefaultConstants
	Constants *scoring.Constants
	// ParallelThreshold is the pool size above which candidates are scored concurrently
	ParallelThreshold int
	// Parallelism is used when RankOptions.Parallelism is 0 and by MatchTalentPool
	Parallelism int
	Logger      *zap.Logger
}

// Engine ranks candidates against vacancies. It holds only immutable configuration
// and is safe for concurrent use.
type Engine struct {
	constants         scoring.Constants
	parallelThreshold int
	parallelism       int
	log               *zap.Logger
}

// NewEngine builds an Engine, validating the scoring constants
func NewEngine(opts EngineOptions) (*Engine, error) {
	e := newDefaultEngine()

	if opts.Constants != nil {
		if err := opts.Constants.Validate(); err != nil {
			return nil, &ConfigError{Field: "scoring", Message: "invalid scoring constants", Cause: err}
		}
		e.constants = *opts.Constants
		e.constants.NoticeBands = append([]scoring.NoticeBand(nil), opts.Constants.NoticeBands...)
	}
	if opts.ParallelThreshold < 0 {
		return nil, &ConfigError{Field: "parallel_threshold", Message: "must be non-negative"}
	}
	if opts.ParallelThreshold > 0 {
		e.parallelThreshold = opts.ParallelThreshold
	}
	if opts.Parallelism < 0 {
		return nil, &ConfigError{Field: "parallelism", Message: "must be non-negative"}
	}
	if opts.Parallelism > 0 {
		e.parallelism = opts.Parallelism
	}
	if opts.Logger != nil {
		e.log = opts.Logger
	}

	return e, nil
}

func newDefaultEngine() *Engine {
	return &Engine{
		constants:         scoring.DefaultConstants(),
		parallelThreshold: DefaultParallelThreshold,
		parallelism:       1,
		log:               zap.NewNop(),
	}
}

// RankCandidatesForVacancy scores every candidate against the vacancy, then filters,
// orders and ranks them. Configuration errors are returned before any scoring.
// Zero candidates yield an empty result, not an error.
func (e *Engine) RankCandidatesForVacancy(
	ctx context.Context,
	vacancy *types.VacancyProfile,
	candidates []types.CandidateProfile,
	weights WeightConfig,
	opts RankOptions,
) ([]types.CompatibilityResult, error) {
	if vacancy == nil {
		return nil, &ConfigError{Field: "vacancy", Message: "vacancy is required"}
	}
	if err := ValidateWeights(weights, rankingDimensions); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	nv := normalize.Vacancy(vacancy)
	results, err := e.scoreAll(ctx, &nv, candidates, rankingDimensions, weights, opts.Parallelism)
	if err != nil {
		return nil, err
	}

	ranked := Rank(results, opts)
	e.log.Debug("ranked candidates",
		zap.String("vacancy_id", vacancy.ID),
		zap.Int("candidates", len(candidates)),
		zap.Int("returned", len(ranked)),
		zap.Float64("min_score", opts.MinScore),
		zap.Int("limit", opts.Limit),
	)

	return ranked, nil
}

// scoreAll scores candidates sequentially or, for large pools, on a bounded errgroup.
// Each goroutine owns one slot of the result slice, so no locking is needed; the
// caller merges after the join.
func (e *Engine) scoreAll(
	ctx context.Context,
	v *normalize.NormalizedVacancy,
	candidates []types.CandidateProfile,
	dims []types.Dimension,
	weights WeightConfig,
	parallelism int,
) ([]types.CompatibilityResult, error) {
	if parallelism == 0 {
		parallelism = e.parallelism
	}
	results := make([]types.CompatibilityResult, len(candidates))

	if parallelism <= 1 || len(candidates) <= e.parallelThreshold {
		e.log.Debug("scoring sequentially", zap.Int("candidates", len(candidates)))
		for i := range candidates {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("ranking cancelled after %d of %d candidates: %w", i, len(candidates), err)
			}
			results[i] = e.scoreCandidate(&candidates[i], v, dims, weights)
		}
		return results, nil
	}

	e.log.Debug("scoring in parallel",
		zap.Int("candidates", len(candidates)),
		zap.Int("parallelism", parallelism),
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i := range candidates {
		if gCtx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			// Candidates not yet started when the context is cancelled are skipped.
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = e.scoreCandidate(&candidates[i], v, dims, weights)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ranking cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("ranking cancelled: %w", err)
	}

	return results, nil
}

// scoreCandidate produces one complete result. It never fails: data problems fall
// back to neutral defaults and show up in the notes.
func (e *Engine) scoreCandidate(
	candidate *types.CandidateProfile,
	v *normalize.NormalizedVacancy,
	dims []types.Dimension,
	weights WeightConfig,
) types.CompatibilityResult {
	nc := normalize.Candidate(candidate)

	scores := make([]types.DimensionScore, 0, len(dims))
	var matched, missing []string
	for _, d := range dims {
		r := scoring.Score(d, &nc, v, &e.constants)
		scores = append(scores, types.DimensionScore{Dimension: d, Raw: r.Raw, Note: r.Note})
		if d == types.DimensionSkills {
			matched, missing = r.Matched, r.Missing
		}
	}

	result := Aggregate(nc.ID, v.ID, scores, weights)
	if matched != nil {
		result.MatchedSkills = matched
	}
	if missing != nil {
		result.MissingSkills = missing
	}
	result.Notes = generateNotes(&result, &nc, v)

	return result
}

// RankCandidatesForVacancy ranks candidates using an engine with default settings
func RankCandidatesForVacancy(
	ctx context.Context,
	vacancy *types.VacancyProfile,
	candidates []types.CandidateProfile,
	weights WeightConfig,
	opts RankOptions,
) ([]types.CompatibilityResult, error) {
	return newDefaultEngine().RankCandidatesForVacancy(ctx, vacancy, candidates, weights, opts)
}
