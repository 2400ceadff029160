package db

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/talent-match/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestVacancy_Profile(t *testing.T) {
	id := uuid.New()
	row := &Vacancy{
		ID:                 id,
		Title:              "Data Analyst",
		RequiredSkills:     []string{"python", "sql"},
		DesiredSkills:      []string{"airflow"},
		MinExperienceYears: 2,
		MaxExperienceYears: intPtr(5),
		SalaryMin:          floatPtr(4000),
		SalaryMax:          floatPtr(8000),
		Location:           "Sao Paulo - SP",
		Modality:           "hybrid",
		ContractType:       "clt",
		Category:           "data",
	}

	profile := row.Profile()

	assert.Equal(t, id.String(), profile.ID)
	assert.Equal(t, []string{"python", "sql"}, profile.RequiredSkills)
	assert.Equal(t, 5, *profile.MaxExperienceYears)
	require.NotNil(t, profile.SalaryRange)
	assert.Equal(t, 4000.0, profile.SalaryRange.Min)
	assert.Equal(t, 8000.0, *profile.SalaryRange.Max)
	assert.Equal(t, types.ModalityHybrid, profile.Modality)
	assert.Equal(t, types.ContractCLT, profile.ContractType)
	assert.NoError(t, profile.Validate())
}

func TestCandidate_Profile(t *testing.T) {
	id := uuid.New()
	row := &Candidate{
		ID:              id,
		Name:            "Ana",
		Skills:          []string{"Python"},
		ExperienceYears: 3,
		SalaryMin:       floatPtr(5000),
		Availability:    "notice",
		NoticeDays:      intPtr(45),
		AreaOfInterest:  "data",
	}

	profile := row.Profile()

	assert.Equal(t, id.String(), profile.ID)
	assert.Equal(t, 45, profile.NoticeDays)
	assert.Equal(t, types.AvailabilityNotice, profile.Availability)
	require.NotNil(t, profile.DesiredSalary)
	assert.Nil(t, profile.DesiredSalary.Max)

	row.NoticeDays = nil
	assert.Zero(t, row.Profile().NoticeDays)
}

func TestSalaryRange(t *testing.T) {
	assert.Nil(t, salaryRange(nil, nil))

	onlyMax := salaryRange(nil, floatPtr(3000))
	require.NotNil(t, onlyMax)
	assert.Zero(t, onlyMax.Min)
	assert.Equal(t, 3000.0, *onlyMax.Max)

	onlyMin := salaryRange(floatPtr(2500), nil)
	require.NotNil(t, onlyMin)
	assert.Equal(t, 2500.0, onlyMin.Min)
	assert.Nil(t, onlyMin.Max)
}

func TestProfiles_PreservesOrder(t *testing.T) {
	rows := []Candidate{{ID: uuid.New()}, {ID: uuid.New()}, {ID: uuid.New()}}

	profiles := Profiles(rows)

	require.Len(t, profiles, 3)
	for i := range rows {
		assert.Equal(t, rows[i].ID.String(), profiles[i].ID)
	}
	assert.NotNil(t, Profiles(nil))
}

func TestTopResult(t *testing.T) {
	id, score := topResult(nil)
	assert.Nil(t, id)
	assert.Nil(t, score)

	id, score = topResult([]types.CompatibilityResult{
		{CandidateID: "cand_a", OverallScore: 0.9},
		{CandidateID: "cand_b", OverallScore: 0.4},
	})
	require.NotNil(t, id)
	assert.Equal(t, "cand_a", *id)
	assert.Equal(t, 0.9, *score)
}

func TestNonNil(t *testing.T) {
	assert.Equal(t, []string{}, nonNil(nil))
	assert.Equal(t, []string{"go"}, nonNil([]string{"go"}))
}
