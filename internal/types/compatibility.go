// Package types provides type definitions for structured data used throughout the talent-match system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Dimension is one independently scored axis of candidate/vacancy fit
type Dimension string

// Scored dimensions
const (
	DimensionSkills         Dimension = "skills"
	DimensionExperience     Dimension = "experience"
	DimensionLocation       Dimension = "location"
	DimensionSalary         Dimension = "salary"
	DimensionAvailability   Dimension = "availability"
	DimensionAreaOfInterest Dimension = "area_of_interest"
)

// DimensionOrder is the fixed order in which dimensions appear in every explanation.
var DimensionOrder = []Dimension{
	DimensionSkills,
	DimensionExperience,
	DimensionLocation,
	DimensionSalary,
	DimensionAvailability,
	DimensionAreaOfInterest,
}

// Valid reports whether d is a known dimension
func (d Dimension) Valid() bool {
	for _, known := range DimensionOrder {
		if d == known {
			return true
		}
	}
	return false
}

// DimensionScore is the score of one candidate on one dimension
type DimensionScore struct {
	Dimension    Dimension `json:"dimension"`
	Raw          float64   `json:"raw"`
	Weight       float64   `json:"weight"`
	Contribution float64   `json:"contribution"`
	// Note carries a diagnostic when the dimension fell back to a neutral default
	Note string `json:"note,omitempty"`
}

// CompatibilityResult is the ranked, explained compatibility of one candidate with one vacancy
type CompatibilityResult struct {
	CandidateID   string           `json:"candidate_id"`
	VacancyID     string           `json:"vacancy_id"`
	OverallScore  float64          `json:"overall_score"`
	Percent       float64          `json:"percent"`
	Dimensions    []DimensionScore `json:"dimensions"`
	MatchedSkills []string         `json:"matched_skills"`
	MissingSkills []string         `json:"missing_skills"`
	Notes         string           `json:"notes"`
	Rank          int              `json:"rank"`
}

// Dimension returns the score for d, or false if d was not part of the result
func (r *CompatibilityResult) Dimension(d Dimension) (DimensionScore, bool) {
	for _, ds := range r.Dimensions {
		if ds.Dimension == d {
			return ds, true
		}
	}
	return DimensionScore{}, false
}

// RankingResults is the output of ranking candidates for a vacancy
type RankingResults struct {
	VacancyID string                `json:"vacancy_id"`
	Ranked    []CompatibilityResult `json:"ranked"`
}

// TalentPoolMatch is the output of matching the talent pool against a vacancy.
// Registrants without an area of interest are counted in Skipped and listed in SkippedIDs.
type TalentPoolMatch struct {
	VacancyID  string                `json:"vacancy_id"`
	Matches    []CompatibilityResult `json:"matches"`
	Skipped    int                   `json:"skipped"`
	SkippedIDs []string              `json:"skipped_ids,omitempty"`
}
