// Package ranking scores, explains and orders candidates against job vacancies.
package ranking

import (
	"fmt"
	"strings"

	"github.com/jonathan/talent-match/internal/normalize"
	"github.com/jonathan/talent-match/internal/types"
)

// generateNotes creates a brief explanation of a candidate's result
func generateNotes(result *types.CompatibilityResult, c *normalize.NormalizedCandidate, v *normalize.NormalizedVacancy) string {
	var parts []string

	// Skill match description
	if skills, ok := result.Dimension(types.DimensionSkills); ok && len(v.RequiredSkills) > 0 {
		matched := strings.Join(result.MatchedSkills, ", ")
		switch {
		case len(result.MatchedSkills) == 0:
			parts = append(parts, "No required skill matches")
		case skills.Raw >= 0.7:
			parts = append(parts, fmt.Sprintf("Strong skill match (%s)", matched))
		case skills.Raw >= 0.4:
			parts = append(parts, fmt.Sprintf("Moderate skill match (%s)", matched))
		default:
			parts = append(parts, fmt.Sprintf("Weak skill match (%s)", matched))
		}
		if len(result.MissingSkills) > 0 {
			parts = append(parts, fmt.Sprintf("Missing %s", strings.Join(result.MissingSkills, ", ")))
		}
	}

	if exp, ok := result.Dimension(types.DimensionExperience); ok && exp.Raw < 1.0 {
		if c.ExperienceYears < v.MinExperience {
			parts = append(parts, fmt.Sprintf("Below minimum experience (%d of %d years)", c.ExperienceYears, v.MinExperience))
		} else {
			parts = append(parts, fmt.Sprintf("Above maximum experience (%d of %d years)", c.ExperienceYears, v.MaxExperience))
		}
	}

	if area, ok := result.Dimension(types.DimensionAreaOfInterest); ok && area.Raw == 0 {
		parts = append(parts, fmt.Sprintf("Area of interest %q differs from %q", c.Area, v.Category))
	}

	if c.ContractType != "" && v.ContractType != "" && c.ContractType != v.ContractType {
		parts = append(parts, fmt.Sprintf("Contract preference %s differs from %s", c.ContractType, v.ContractType))
	}

	// Diagnostics not tied to a dimension
	for _, diag := range v.Diagnostics {
		if diag.Dimension == "" {
			parts = append(parts, "Vacancy: "+diag.Message)
		}
	}
	for _, diag := range c.Diagnostics {
		if diag.Dimension == "" {
			parts = append(parts, diag.Message)
		}
	}

	// Neutral defaults and other per-dimension notes
	for _, ds := range result.Dimensions {
		if ds.Note != "" && ds.Dimension != types.DimensionSkills {
			parts = append(parts, fmt.Sprintf("%s: %s", ds.Dimension, ds.Note))
		}
	}

	return strings.Join(parts, ". ")
}
