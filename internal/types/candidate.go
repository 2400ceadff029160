// Package types provides type definitions for structured data used throughout the talent-match system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/go-playground/validator/v10"

// WorkModality is where a candidate wants to work or where a vacancy is performed
type WorkModality string

// Work modalities. The zero value means the modality was not stated.
const (
	ModalityOnSite WorkModality = "on_site"
	ModalityHybrid WorkModality = "hybrid"
	ModalityRemote WorkModality = "remote"
)

// ContractType is the employment contract kind
type ContractType string

// Contract types. The zero value means any contract is acceptable.
const (
	ContractCLT       ContractType = "clt"
	ContractPJ        ContractType = "pj"
	ContractIntern    ContractType = "internship"
	ContractTemporary ContractType = "temporary"
	ContractFreelance ContractType = "freelance"
)

// Availability describes when a candidate can start
type Availability string

// Availability values. For AvailabilityNotice the notice length is in CandidateProfile.NoticeDays.
const (
	AvailabilityImmediate    Availability = "immediate"
	AvailabilityNotice       Availability = "notice"
	AvailabilityNotAvailable Availability = "not_available"
)

// SalaryRange is a monthly salary range. A nil Max means unbounded.
type SalaryRange struct {
	Min float64  `json:"min" validate:"gte=0"`
	Max *float64 `json:"max,omitempty" validate:"omitempty,gte=0"`
}

// CandidateProfile is a candidate as supplied by the caller (applicant or talent-bank registrant).
// It is treated as immutable for the duration of a ranking run.
type CandidateProfile struct {
	ID              string       `json:"id" validate:"required"`
	Name            string       `json:"name,omitempty"`
	Skills          []string     `json:"skills,omitempty"`
	ExperienceYears int          `json:"experience_years"`
	DesiredSalary   *SalaryRange `json:"desired_salary,omitempty" validate:"-"`
	Location        string       `json:"location,omitempty"`
	Modality        WorkModality `json:"modality,omitempty"`
	ContractType    ContractType `json:"contract_type,omitempty"`
	Availability    Availability `json:"availability,omitempty"`
	NoticeDays      int          `json:"notice_days,omitempty"`
	AreaOfInterest  string       `json:"area_of_interest,omitempty"`
}

// Validate validates the CandidateProfile using the validator.
// Only identity is enforced; every other field, the salary range included, is
// normalized by the engine.
func (c *CandidateProfile) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}
