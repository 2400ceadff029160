package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Candidate Methods
// -----------------------------------------------------------------------------

const candidateColumns = `c.id, c.name, c.skills, c.experience_years, c.salary_min, c.salary_max,
		        c.location, c.modality, c.contract_type, c.availability, c.notice_days,
		        c.area_of_interest, c.in_talent_bank, c.created_at`

// ListApplicants retrieves the candidates who applied to a vacancy, oldest application first
func (db *DB) ListApplicants(ctx context.Context, vacancyID uuid.UUID) ([]Candidate, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+candidateColumns+`
		 FROM candidates c
		 JOIN applications a ON a.candidate_id = c.id
		 WHERE a.vacancy_id = $1
		 ORDER BY a.applied_at, c.id`,
		vacancyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applicants: %w", err)
	}
	return scanCandidates(rows)
}

// ListTalentPool retrieves every candidate registered in the talent bank
func (db *DB) ListTalentPool(ctx context.Context) ([]Candidate, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+candidateColumns+`
		 FROM candidates c
		 WHERE c.in_talent_bank
		 ORDER BY c.created_at, c.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list talent pool: %w", err)
	}
	return scanCandidates(rows)
}

// CreateCandidate inserts a candidate and returns it with its generated ID
func (db *DB) CreateCandidate(ctx context.Context, c *Candidate) (*Candidate, error) {
	created := *c
	err := db.pool.QueryRow(ctx,
		`INSERT INTO candidates (name, skills, experience_years, salary_min, salary_max, location,
		                         modality, contract_type, availability, notice_days,
		                         area_of_interest, in_talent_bank)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at`,
		c.Name, nonNil(c.Skills), c.ExperienceYears, c.SalaryMin, c.SalaryMax, c.Location,
		c.Modality, c.ContractType, c.Availability, c.NoticeDays,
		c.AreaOfInterest, c.InTalentBank,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create candidate: %w", err)
	}
	return &created, nil
}

// DeleteCandidate removes a candidate and its applications
func (db *DB) DeleteCandidate(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}
	return nil
}

// AddApplication links a candidate to a vacancy; applying twice is a no-op
func (db *DB) AddApplication(ctx context.Context, vacancyID, candidateID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO applications (vacancy_id, candidate_id) VALUES ($1, $2)
		 ON CONFLICT (vacancy_id, candidate_id) DO NOTHING`,
		vacancyID, candidateID,
	)
	if err != nil {
		return fmt.Errorf("failed to add application: %w", err)
	}
	return nil
}

func scanCandidates(rows pgx.Rows) ([]Candidate, error) {
	defer rows.Close()

	candidates := make([]Candidate, 0)
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Skills, &c.ExperienceYears, &c.SalaryMin, &c.SalaryMax,
			&c.Location, &c.Modality, &c.ContractType, &c.Availability, &c.NoticeDays,
			&c.AreaOfInterest, &c.InTalentBank, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}
	return candidates, nil
}
