package observability

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/jonathan/talent-match/internal/types"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestPrintVacancy(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	vacancy := &types.VacancyProfile{
		ID:                 "vac_001",
		Title:              "Data Analyst",
		RequiredSkills:     []string{"python", "sql"},
		DesiredSkills:      []string{"airflow"},
		MinExperienceYears: 2,
		MaxExperienceYears: intPtr(5),
		Location:           "sao paulo",
		Modality:           types.ModalityHybrid,
	}

	p.PrintVacancy(vacancy)
	output := buf.String()

	assert.Contains(t, output, "VACANCY")
	assert.Contains(t, output, "Data Analyst")
	assert.Contains(t, output, "2-5 years")
	assert.Contains(t, output, "python")
	assert.Contains(t, output, "airflow")
	assert.Contains(t, output, "hybrid")
}

func TestPrintVacancy_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintVacancy(nil)

	assert.Empty(t, buf.String())
}

func TestPrintRankedCandidates(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	results := []types.CompatibilityResult{
		{
			CandidateID:  "cand_a",
			OverallScore: 0.85,
			Percent:      85,
			Rank:         1,
			Dimensions: []types.DimensionScore{
				{Dimension: types.DimensionSkills, Raw: 1},
				{Dimension: types.DimensionSalary, Raw: 0.5},
			},
			MatchedSkills: []string{"python", "sql"},
		},
	}

	p.PrintRankedCandidates(results)
	output := buf.String()

	assert.Contains(t, output, "TOP RANKED CANDIDATES")
	assert.Contains(t, output, "#1  cand_a")
	assert.Contains(t, output, "0.85")
	assert.Contains(t, output, "skl=1.00 sal=0.50")
	assert.Contains(t, output, "python, sql")
}

func TestPrintRankedCandidates_Truncates(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	results := make([]types.CompatibilityResult, 8)
	for i := range results {
		results[i] = types.CompatibilityResult{CandidateID: fmt.Sprintf("cand_%d", i), Rank: i + 1}
	}

	p.PrintRankedCandidates(results)
	output := buf.String()

	assert.Contains(t, output, "cand_4")
	assert.NotContains(t, output, "cand_5")
	assert.Contains(t, output, "and 3 more candidates")
}

func TestPrintRankedCandidates_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRankedCandidates(nil)

	assert.Empty(t, buf.String())
}

func TestPrintTalentPoolMatch(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintTalentPoolMatch(&types.TalentPoolMatch{
		Matches:    []types.CompatibilityResult{{CandidateID: "reg_1", Rank: 1}},
		Skipped:    2,
		SkippedIDs: []string{"reg_2", "reg_3"},
	})
	output := buf.String()

	assert.Contains(t, output, "TALENT POOL")
	assert.Contains(t, output, "Skipped:  2")
	assert.Contains(t, output, "reg_2, reg_3")
	assert.Contains(t, output, "TOP RANKED CANDIDATES")
	assert.Equal(t, 2, strings.Count(output, "┌"))
}
