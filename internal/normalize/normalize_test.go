package normalize

import (
	"testing"

	"github.com/jonathan/talent-match/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestFold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  São   Paulo ", "sao paulo"},
		{"AÇÚCAR", "acucar"},
		{"Rio de Janeiro", "rio de janeiro"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Fold(tt.input))
		})
	}
}

func TestSkill(t *testing.T) {
	assert.Equal(t, "go", Skill("Golang"))
	assert.Equal(t, "kubernetes", Skill(" K8s "))
	assert.Equal(t, "react", Skill("ReactJS"))
	assert.Equal(t, "english", Skill("Inglês"))
	assert.Equal(t, "python", Skill("PYTHON"))
	assert.Equal(t, "", Skill("  "))
}

func TestSkills_DeduplicatesAndSorts(t *testing.T) {
	got := Skills([]string{"SQL", "python", "Python ", "", "golang", "Go"})
	assert.Equal(t, []string{"go", "python", "sql"}, got)

	assert.Empty(t, Skills(nil))
	assert.NotNil(t, Skills(nil))
}

func TestLocation(t *testing.T) {
	tests := []struct {
		input  string
		city   string
		region string
	}{
		{"São Paulo, SP", "sao paulo", "sp"},
		{"Campinas - SP", "campinas", "sp"},
		{"Curitiba/PR", "curitiba", "pr"},
		{"sao paulo", "sao paulo", ""},
		{"Somewhere near the coast", "somewhere near the coast", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			city, region := Location(tt.input)
			assert.Equal(t, tt.city, city)
			assert.Equal(t, tt.region, region)
		})
	}
}

func TestModality(t *testing.T) {
	m, ok := Modality("Híbrido")
	assert.True(t, ok)
	assert.Equal(t, types.ModalityHybrid, m)

	m, ok = Modality("Home Office")
	assert.True(t, ok)
	assert.Equal(t, types.ModalityRemote, m)

	m, ok = Modality("whenever")
	assert.False(t, ok)
	assert.Equal(t, types.WorkModality(""), m)
}

func TestCandidate_Defaults(t *testing.T) {
	n := Candidate(&types.CandidateProfile{ID: "cand_001"})

	assert.Equal(t, "cand_001", n.ID)
	assert.Empty(t, n.Skills)
	assert.Nil(t, n.Salary, "missing salary means no constraint")
	assert.Equal(t, 0, n.ExperienceYears)
	assert.Empty(t, n.Diagnostics)
}

func TestCandidate_ClampsAndNotes(t *testing.T) {
	n := Candidate(&types.CandidateProfile{
		ID:              "cand_002",
		ExperienceYears: -4,
		DesiredSalary:   &types.SalaryRange{Min: 5000, Max: floatPtr(3000)},
		Modality:        "sometimes",
		ContractType:    "CLT",
		Availability:    "whenever",
	})

	assert.Equal(t, 0, n.ExperienceYears)
	require.NotNil(t, n.Salary)
	assert.True(t, n.Salary.Unbounded)
	assert.Equal(t, 5000.0, n.Salary.Min)
	assert.Equal(t, types.WorkModality(""), n.Modality)
	assert.Equal(t, types.ContractCLT, n.ContractType)
	assert.Equal(t, types.Availability(""), n.Availability)

	dims := make(map[types.Dimension]int)
	for _, d := range n.Diagnostics {
		dims[d.Dimension]++
	}
	assert.Equal(t, 1, dims[types.DimensionExperience])
	assert.Equal(t, 1, dims[types.DimensionSalary])
	assert.Equal(t, 1, dims[types.DimensionLocation])
	assert.Equal(t, 1, dims[types.DimensionAvailability])
}

func TestCandidate_Availability(t *testing.T) {
	tests := []struct {
		name       string
		input      types.Availability
		noticeDays int
		expected   types.Availability
		days       int
	}{
		{"immediate", "immediate", 0, types.AvailabilityImmediate, 0},
		{"portuguese immediate", "Imediato", 0, types.AvailabilityImmediate, 0},
		{"notice with days field", "notice", 45, types.AvailabilityNotice, 45},
		{"free text days", "30 days", 0, types.AvailabilityNotice, 30},
		{"zero days", "0 days", 0, types.AvailabilityImmediate, 0},
		{"not available", "not_available", 0, types.AvailabilityNotAvailable, 0},
		{"missing", "", 0, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Candidate(&types.CandidateProfile{ID: "c", Availability: tt.input, NoticeDays: tt.noticeDays})
			assert.Equal(t, tt.expected, n.Availability)
			assert.Equal(t, tt.days, n.NoticeDays)
		})
	}
}

func TestVacancy_SkillsAndExperience(t *testing.T) {
	n := Vacancy(&types.VacancyProfile{
		ID:                 "vac_1",
		RequiredSkills:     []string{"Python", "SQL", "python"},
		DesiredSkills:      []string{"sql", "Docker"},
		MinExperienceYears: 2,
		MaxExperienceYears: intPtr(5),
		Location:           "São Paulo",
		Category:           "Dados",
	})

	assert.Equal(t, []string{"python", "sql"}, n.RequiredSkills)
	assert.Equal(t, []string{"docker"}, n.DesiredSkills, "skills already required are not desired")
	assert.Equal(t, 2, n.MinExperience)
	assert.Equal(t, 5, n.MaxExperience)
	assert.Equal(t, "sao paulo", n.City)
	assert.Equal(t, "dados", n.Category)
	assert.Nil(t, n.Salary)
}

func TestVacancy_InvalidMaxExperienceIgnored(t *testing.T) {
	n := Vacancy(&types.VacancyProfile{ID: "vac_2", MinExperienceYears: 5, MaxExperienceYears: intPtr(1)})

	assert.Equal(t, -1, n.MaxExperience)
	require.Len(t, n.Diagnostics, 1)
	assert.Equal(t, types.DimensionExperience, n.Diagnostics[0].Dimension)
}

func TestCandidate_Pure(t *testing.T) {
	p := &types.CandidateProfile{ID: "c", Skills: []string{"B", "a"}}
	first := Candidate(p)
	second := Candidate(p)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"B", "a"}, p.Skills, "input must not be mutated")
}
