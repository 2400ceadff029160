package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/talent-match/internal/types"
)

// Ranking run kinds
const (
	RunKindApplicants = "applicants"
	RunKindTalentPool = "talent_pool"
)

// Vacancy is a row of the vacancies table
type Vacancy struct {
	ID                 uuid.UUID `json:"id"`
	Title              string    `json:"title"`
	RequiredSkills     []string  `json:"required_skills"`
	DesiredSkills      []string  `json:"desired_skills"`
	MinExperienceYears int       `json:"min_experience_years"`
	MaxExperienceYears *int      `json:"max_experience_years,omitempty"`
	SalaryMin          *float64  `json:"salary_min,omitempty"`
	SalaryMax          *float64  `json:"salary_max,omitempty"`
	Location           string    `json:"location"`
	Modality           string    `json:"modality"`
	ContractType       string    `json:"contract_type"`
	Category           string    `json:"category"`
	CreatedAt          time.Time `json:"created_at"`
}

// Candidate is a row of the candidates table
type Candidate struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Skills          []string  `json:"skills"`
	ExperienceYears int       `json:"experience_years"`
	SalaryMin       *float64  `json:"salary_min,omitempty"`
	SalaryMax       *float64  `json:"salary_max,omitempty"`
	Location        string    `json:"location"`
	Modality        string    `json:"modality"`
	ContractType    string    `json:"contract_type"`
	Availability    string    `json:"availability"`
	NoticeDays      *int      `json:"notice_days,omitempty"`
	AreaOfInterest  string    `json:"area_of_interest"`
	InTalentBank    bool      `json:"in_talent_bank"`
	CreatedAt       time.Time `json:"created_at"`
}

// RankingRun is a stored summary of one ranking or talent-pool invocation
type RankingRun struct {
	ID             uuid.UUID `json:"id"`
	VacancyID      uuid.UUID `json:"vacancy_id"`
	Kind           string    `json:"kind"`
	CandidateCount int       `json:"candidate_count"`
	ResultCount    int       `json:"result_count"`
	SkippedCount   int       `json:"skipped_count"`
	TopCandidateID *string   `json:"top_candidate_id,omitempty"`
	TopScore       *float64  `json:"top_score,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// RankingRunInput is what RecordRankingRun persists
type RankingRunInput struct {
	VacancyID      uuid.UUID
	Kind           string
	CandidateCount int
	Skipped        int
	Results        []types.CompatibilityResult
}

// Profile converts the row into the engine's vacancy input
func (v *Vacancy) Profile() *types.VacancyProfile {
	return &types.VacancyProfile{
		ID:                 v.ID.String(),
		Title:              v.Title,
		RequiredSkills:     v.RequiredSkills,
		DesiredSkills:      v.DesiredSkills,
		MinExperienceYears: v.MinExperienceYears,
		MaxExperienceYears: v.MaxExperienceYears,
		SalaryRange:        salaryRange(v.SalaryMin, v.SalaryMax),
		Location:           v.Location,
		Modality:           types.WorkModality(v.Modality),
		ContractType:       types.ContractType(v.ContractType),
		Category:           v.Category,
	}
}

// Profile converts the row into the engine's candidate input
func (c *Candidate) Profile() types.CandidateProfile {
	profile := types.CandidateProfile{
		ID:              c.ID.String(),
		Name:            c.Name,
		Skills:          c.Skills,
		ExperienceYears: c.ExperienceYears,
		DesiredSalary:   salaryRange(c.SalaryMin, c.SalaryMax),
		Location:        c.Location,
		Modality:        types.WorkModality(c.Modality),
		ContractType:    types.ContractType(c.ContractType),
		Availability:    types.Availability(c.Availability),
		AreaOfInterest:  c.AreaOfInterest,
	}
	if c.NoticeDays != nil {
		profile.NoticeDays = *c.NoticeDays
	}
	return profile
}

// Profiles converts a slice of rows, preserving order
func Profiles(candidates []Candidate) []types.CandidateProfile {
	profiles := make([]types.CandidateProfile, len(candidates))
	for i := range candidates {
		profiles[i] = candidates[i].Profile()
	}
	return profiles
}

// salaryRange maps nullable columns to a range; a missing minimum with a known maximum starts at zero
func salaryRange(minValue, maxValue *float64) *types.SalaryRange {
	if minValue == nil && maxValue == nil {
		return nil
	}
	r := &types.SalaryRange{Max: maxValue}
	if minValue != nil {
		r.Min = *minValue
	}
	return r
}

// topResult returns the first ranked result's candidate and score, if any
func topResult(results []types.CompatibilityResult) (*string, *float64) {
	if len(results) == 0 {
		return nil, nil
	}
	id := results[0].CandidateID
	score := results[0].OverallScore
	return &id, &score
}
