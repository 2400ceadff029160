package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Vacancy Methods
// -----------------------------------------------------------------------------

// GetVacancy retrieves a vacancy by its ID. Returns nil, nil when no row exists.
func (db *DB) GetVacancy(ctx context.Context, id uuid.UUID) (*Vacancy, error) {
	var v Vacancy
	err := db.pool.QueryRow(ctx,
		`SELECT id, title, required_skills, desired_skills, min_experience_years,
		        max_experience_years, salary_min, salary_max, location, modality,
		        contract_type, category, created_at
		 FROM vacancies WHERE id = $1`,
		id,
	).Scan(&v.ID, &v.Title, &v.RequiredSkills, &v.DesiredSkills, &v.MinExperienceYears,
		&v.MaxExperienceYears, &v.SalaryMin, &v.SalaryMax, &v.Location, &v.Modality,
		&v.ContractType, &v.Category, &v.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vacancy: %w", err)
	}
	return &v, nil
}

// CreateVacancy inserts a vacancy and returns it with its generated ID
func (db *DB) CreateVacancy(ctx context.Context, v *Vacancy) (*Vacancy, error) {
	created := *v
	err := db.pool.QueryRow(ctx,
		`INSERT INTO vacancies (title, required_skills, desired_skills, min_experience_years,
		                        max_experience_years, salary_min, salary_max, location,
		                        modality, contract_type, category)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at`,
		v.Title, nonNil(v.RequiredSkills), nonNil(v.DesiredSkills), v.MinExperienceYears,
		v.MaxExperienceYears, v.SalaryMin, v.SalaryMax, v.Location,
		v.Modality, v.ContractType, v.Category,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create vacancy: %w", err)
	}
	return &created, nil
}

// DeleteVacancy removes a vacancy along with its applications and ranking runs
func (db *DB) DeleteVacancy(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM vacancies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete vacancy: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
