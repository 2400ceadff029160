// Package types provides type definitions for structured data used throughout the talent-match system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// VacancyProfile is a job vacancy as supplied by the caller
type VacancyProfile struct {
	ID                 string       `json:"id" validate:"required"`
	Title              string       `json:"title,omitempty"`
	RequiredSkills     []string     `json:"required_skills,omitempty"`
	DesiredSkills      []string     `json:"desired_skills,omitempty"`
	MinExperienceYears int          `json:"min_experience_years" validate:"gte=0"`
	MaxExperienceYears *int         `json:"max_experience_years,omitempty" validate:"omitempty,gte=0"`
	SalaryRange        *SalaryRange `json:"salary_range,omitempty"`
	Location           string       `json:"location,omitempty"`
	Modality           WorkModality `json:"modality,omitempty"`
	ContractType       ContractType `json:"contract_type,omitempty"`
	Category           string       `json:"category,omitempty"`
}

// Validate validates the VacancyProfile using the validator and checks range consistency.
func (v *VacancyProfile) Validate() error {
	validate := validator.New()
	if err := validate.Struct(v); err != nil {
		return err
	}
	if v.MaxExperienceYears != nil && *v.MaxExperienceYears < v.MinExperienceYears {
		return fmt.Errorf("max_experience_years (%d) is below min_experience_years (%d)",
			*v.MaxExperienceYears, v.MinExperienceYears)
	}
	return nil
}
