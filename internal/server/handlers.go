package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/ranking"
	"github.com/jonathan/talent-match/internal/server/middleware"
	"github.com/jonathan/talent-match/internal/types"
	"go.uber.org/zap"
)

// RunIDHeader carries the ID of a recorded ranking run
const RunIDHeader = "X-Ranking-Run-ID"

// RankRequest is the body of POST /v1/rank
type RankRequest struct {
	Vacancy    *types.VacancyProfile    `json:"vacancy"`
	Candidates []types.CandidateProfile `json:"candidates"`
	Weights    ranking.WeightConfig     `json:"weights,omitempty"`
	MinScore   *float64                 `json:"min_score,omitempty"`
	Limit      *int                     `json:"limit,omitempty"`
}

// MatchPoolRequest is the body of POST /v1/match-pool
type MatchPoolRequest struct {
	Vacancy    *types.VacancyProfile    `json:"vacancy"`
	TalentPool []types.CandidateProfile `json:"talent_pool"`
	Weights    ranking.WeightConfig     `json:"weights,omitempty"`
}

// StoredRankRequest is the optional body of POST /v1/vacancies/{id}/rank
type StoredRankRequest struct {
	Weights  ranking.WeightConfig `json:"weights,omitempty"`
	MinScore *float64             `json:"min_score,omitempty"`
	Limit    *int                 `json:"limit,omitempty"`
	Record   bool                 `json:"record,omitempty"`
}

// StoredMatchPoolRequest is the optional body of POST /v1/vacancies/{id}/match-pool
type StoredMatchPoolRequest struct {
	Weights ranking.WeightConfig `json:"weights,omitempty"`
	Record  bool                 `json:"record,omitempty"`
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.writeError(w, err)
		return
	}
	if err := validateVacancy(req.Vacancy); err != nil {
		s.writeError(w, err)
		return
	}
	if err := validateCandidates("candidates", req.Candidates); err != nil {
		s.writeError(w, err)
		return
	}

	ranked, err := s.engine.RankCandidatesForVacancy(r.Context(), req.Vacancy, req.Candidates,
		s.weights(req.Weights), s.rankOptions(req.MinScore, req.Limit))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.log.Info("ranked candidates",
		zap.String("vacancy_id", req.Vacancy.ID),
		zap.Int("candidates", len(req.Candidates)),
		zap.Int("returned", len(ranked)),
		zap.String("client", middleware.Client(r)),
	)
	s.jsonResponse(w, http.StatusOK, &types.RankingResults{VacancyID: req.Vacancy.ID, Ranked: ranked})
}

func (s *Server) handleMatchPool(w http.ResponseWriter, r *http.Request) {
	var req MatchPoolRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.writeError(w, err)
		return
	}
	if err := validateVacancy(req.Vacancy); err != nil {
		s.writeError(w, err)
		return
	}
	if err := validateCandidates("talent_pool", req.TalentPool); err != nil {
		s.writeError(w, err)
		return
	}

	match, err := s.engine.MatchTalentPool(r.Context(), req.Vacancy, req.TalentPool, s.talentPoolWeights(req.Weights))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.log.Info("matched talent pool",
		zap.String("vacancy_id", req.Vacancy.ID),
		zap.Int("matched", len(match.Matches)),
		zap.Int("skipped", match.Skipped),
		zap.String("client", middleware.Client(r)),
	)
	s.jsonResponse(w, http.StatusOK, match)
}

func (s *Server) handleRankVacancy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	vacancyID, err := parseVacancyID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req StoredRankRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		s.writeError(w, err)
		return
	}

	vacancy, err := s.loadVacancy(ctx, vacancyID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	rows, err := s.store.ListApplicants(ctx, vacancyID)
	if err != nil {
		s.writeError(w, fmt.Errorf("failed to load applicants: %w", err))
		return
	}
	candidates := db.Profiles(rows)

	ranked, err := s.engine.RankCandidatesForVacancy(ctx, vacancy, candidates,
		s.weights(req.Weights), s.rankOptions(req.MinScore, req.Limit))
	if err != nil {
		s.writeError(w, err)
		return
	}

	if req.Record {
		err := s.recordRun(ctx, w, &db.RankingRunInput{
			VacancyID:      vacancyID,
			Kind:           db.RunKindApplicants,
			CandidateCount: len(candidates),
			Results:        ranked,
		})
		if err != nil {
			s.writeError(w, err)
			return
		}
	}

	s.jsonResponse(w, http.StatusOK, &types.RankingResults{VacancyID: vacancy.ID, Ranked: ranked})
}

func (s *Server) handleMatchPoolVacancy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	vacancyID, err := parseVacancyID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req StoredMatchPoolRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		s.writeError(w, err)
		return
	}

	vacancy, err := s.loadVacancy(ctx, vacancyID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	rows, err := s.store.ListTalentPool(ctx)
	if err != nil {
		s.writeError(w, fmt.Errorf("failed to load talent pool: %w", err))
		return
	}
	pool := db.Profiles(rows)

	match, err := s.engine.MatchTalentPool(ctx, vacancy, pool, s.talentPoolWeights(req.Weights))
	if err != nil {
		s.writeError(w, err)
		return
	}

	if req.Record {
		err := s.recordRun(ctx, w, &db.RankingRunInput{
			VacancyID:      vacancyID,
			Kind:           db.RunKindTalentPool,
			CandidateCount: len(pool),
			Skipped:        match.Skipped,
			Results:        match.Matches,
		})
		if err != nil {
			s.writeError(w, err)
			return
		}
	}

	s.jsonResponse(w, http.StatusOK, match)
}

// loadVacancy fetches a stored vacancy, failing when no database is configured
func (s *Server) loadVacancy(ctx context.Context, id uuid.UUID) (*types.VacancyProfile, error) {
	if s.store == nil {
		return nil, &ErrUnavailable{Dependency: "database"}
	}
	row, err := s.store.GetVacancy(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load vacancy: %w", err)
	}
	if row == nil {
		return nil, &ErrNotFound{Resource: "vacancy", ID: id.String()}
	}
	return row.Profile(), nil
}

// recordRun stores the run and exposes its ID through RunIDHeader
func (s *Server) recordRun(ctx context.Context, w http.ResponseWriter, input *db.RankingRunInput) error {
	runID, err := s.store.RecordRankingRun(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to record ranking run: %w", err)
	}
	w.Header().Set(RunIDHeader, runID.String())
	s.log.Info("recorded ranking run",
		zap.String("run_id", runID.String()),
		zap.String("vacancy_id", input.VacancyID.String()),
		zap.String("kind", input.Kind),
	)
	return nil
}

func (s *Server) weights(w ranking.WeightConfig) ranking.WeightConfig {
	if w == nil {
		return s.settings.Weights
	}
	return w
}

func (s *Server) talentPoolWeights(w ranking.WeightConfig) ranking.WeightConfig {
	if w == nil {
		return s.settings.TalentPoolWeights
	}
	return w
}

// rankOptions applies per-request overrides to the configured options
func (s *Server) rankOptions(minScore *float64, limit *int) ranking.RankOptions {
	opts := s.settings.RankOptions()
	if minScore != nil {
		opts.MinScore = *minScore
	}
	if limit != nil {
		opts.Limit = *limit
	}
	return opts
}

func parseVacancyID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: fmt.Sprintf("invalid vacancy ID %q", raw)}
	}
	return id, nil
}

// decodeJSON reads a size-limited JSON body into v. An empty body is accepted
// when optional is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return &ErrValidation{Field: "body", Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	return nil
}

func validateVacancy(v *types.VacancyProfile) error {
	if v == nil {
		return &ErrValidation{Field: "vacancy", Message: "vacancy is required"}
	}
	if err := v.Validate(); err != nil {
		return &ErrValidation{Field: "vacancy", Message: err.Error()}
	}
	return nil
}

func validateCandidates(field string, candidates []types.CandidateProfile) error {
	for i := range candidates {
		if err := candidates[i].Validate(); err != nil {
			return &ErrValidation{Field: fmt.Sprintf("%s[%d]", field, i), Message: err.Error()}
		}
	}
	return nil
}
