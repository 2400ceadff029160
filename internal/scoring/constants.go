// Package scoring provides the per-dimension compatibility scorers.
package scoring

import (
	"fmt"
	"math"
)

// Constants holds the tunable shape of the dimension scorers
type Constants struct {
	// RequiredSkillShare and DesiredSkillShare split the skills dimension when a
	// vacancy lists desired skills. They must sum to 1.
	RequiredSkillShare float64 `json:"required_skill_share"`
	DesiredSkillShare  float64 `json:"desired_skill_share"`

	// ExperienceDecayPerYear is the score lost per year outside the vacancy's range
	ExperienceDecayPerYear float64 `json:"experience_decay_per_year"`

	// LocationPartialCredit is awarded for same-region or hybrid-compatible mismatches
	LocationPartialCredit float64 `json:"location_partial_credit"`

	// SalaryDecayRatio is the overshoot above the offered maximum, as a fraction of
	// that maximum, at which the salary score reaches 0.
	SalaryDecayRatio float64 `json:"salary_decay_ratio"`

	// NoticeBands maps notice periods to scores. Bands are checked in order and the
	// first band whose MaxDays covers the notice wins; longer notices get LongNoticeScore.
	NoticeBands     []NoticeBand `json:"notice_bands"`
	LongNoticeScore float64      `json:"long_notice_score"`

	// UnknownAvailabilityScore is used when the candidate declared no availability
	UnknownAvailabilityScore float64 `json:"unknown_availability_score"`
}

// NoticeBand scores notice periods up to MaxDays
type NoticeBand struct {
	MaxDays int     `json:"max_days"`
	Score   float64 `json:"score"`
}

// DefaultConstants returns the standard scorer configuration
func DefaultConstants() Constants {
	return Constants{
		RequiredSkillShare:     0.8,
		DesiredSkillShare:      0.2,
		ExperienceDecayPerYear: 0.25,
		LocationPartialCredit:  0.5,
		SalaryDecayRatio:       0.5,
		NoticeBands: []NoticeBand{
			{MaxDays: 30, Score: 0.7},
			{MaxDays: 60, Score: 0.4},
		},
		LongNoticeScore:          0.2,
		UnknownAvailabilityScore: 0.5,
	}
}

// Validate checks that every constant keeps the scorers inside [0,1]
func (k *Constants) Validate() error {
	unit := []struct {
		name  string
		value float64
	}{
		{"required_skill_share", k.RequiredSkillShare},
		{"desired_skill_share", k.DesiredSkillShare},
		{"location_partial_credit", k.LocationPartialCredit},
		{"long_notice_score", k.LongNoticeScore},
		{"unknown_availability_score", k.UnknownAvailabilityScore},
	}
	for _, u := range unit {
		if math.IsNaN(u.value) || u.value < 0 || u.value > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", u.name, u.value)
		}
	}

	if math.Abs(k.RequiredSkillShare+k.DesiredSkillShare-1) > 1e-6 {
		return fmt.Errorf("required_skill_share and desired_skill_share must sum to 1, got %v",
			k.RequiredSkillShare+k.DesiredSkillShare)
	}
	if math.IsNaN(k.ExperienceDecayPerYear) || k.ExperienceDecayPerYear <= 0 {
		return fmt.Errorf("experience_decay_per_year must be positive, got %v", k.ExperienceDecayPerYear)
	}
	if math.IsNaN(k.SalaryDecayRatio) || k.SalaryDecayRatio <= 0 {
		return fmt.Errorf("salary_decay_ratio must be positive, got %v", k.SalaryDecayRatio)
	}

	prev := -1
	for i, band := range k.NoticeBands {
		if band.MaxDays <= prev {
			return fmt.Errorf("notice_bands[%d]: max_days must be increasing", i)
		}
		if math.IsNaN(band.Score) || band.Score < 0 || band.Score > 1 {
			return fmt.Errorf("notice_bands[%d]: score must be within [0,1], got %v", i, band.Score)
		}
		prev = band.MaxDays
	}

	return nil
}
