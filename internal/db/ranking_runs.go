package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Ranking Run Methods
// -----------------------------------------------------------------------------

// RecordRankingRun stores the summary and full results of a ranking and returns the run ID
func (db *DB) RecordRankingRun(ctx context.Context, input *RankingRunInput) (uuid.UUID, error) {
	if input.Kind != RunKindApplicants && input.Kind != RunKindTalentPool {
		return uuid.Nil, fmt.Errorf("unknown ranking run kind %q", input.Kind)
	}

	resultsJSON, err := json.Marshal(input.Results)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal ranking results: %w", err)
	}
	topID, topScore := topResult(input.Results)

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO ranking_runs (vacancy_id, kind, candidate_count, result_count,
		                           skipped_count, top_candidate_id, top_score, results)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		input.VacancyID, input.Kind, input.CandidateCount, len(input.Results),
		input.Skipped, topID, topScore, resultsJSON,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to record ranking run: %w", err)
	}
	return id, nil
}

// ListRankingRuns retrieves the most recent runs for a vacancy
func (db *DB) ListRankingRuns(ctx context.Context, vacancyID uuid.UUID, limit int) ([]RankingRun, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, vacancy_id, kind, candidate_count, result_count, skipped_count,
		        top_candidate_id, top_score, created_at
		 FROM ranking_runs WHERE vacancy_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		vacancyID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ranking runs: %w", err)
	}
	defer rows.Close()

	var runs []RankingRun
	for rows.Next() {
		var run RankingRun
		if err := rows.Scan(&run.ID, &run.VacancyID, &run.Kind, &run.CandidateCount, &run.ResultCount,
			&run.SkippedCount, &run.TopCandidateID, &run.TopScore, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ranking run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
