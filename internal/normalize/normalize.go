// Package normalize canonicalizes raw candidate and vacancy fields into comparable units.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/jonathan/talent-match/internal/types"
)

// Diagnostic records a field that fell back to its neutral default during normalization.
// Dimension is empty for fields that do not feed a scored dimension.
type Diagnostic struct {
	Dimension types.Dimension
	Message   string
}

// Salary is a normalized salary range. Unbounded is true when no maximum was given.
type Salary struct {
	Min       float64
	Max       float64
	Unbounded bool
}

// NormalizedCandidate is a CandidateProfile in comparable form
type NormalizedCandidate struct {
	ID              string
	Skills          []string
	SkillSet        map[string]struct{}
	ExperienceYears int
	// Salary is nil when the candidate stated no expectation
	Salary       *Salary
	City         string
	Region       string
	Modality     types.WorkModality
	ContractType types.ContractType
	Availability types.Availability
	NoticeDays   int
	Area         string
	Diagnostics  []Diagnostic
}

// NormalizedVacancy is a VacancyProfile in comparable form
type NormalizedVacancy struct {
	ID             string
	RequiredSkills []string
	DesiredSkills  []string
	MinExperience  int
	// MaxExperience is -1 when the vacancy has no maximum
	MaxExperience int
	// Salary is nil when the vacancy offers no range
	Salary       *Salary
	City         string
	Region       string
	Modality     types.WorkModality
	ContractType types.ContractType
	Category     string
	Diagnostics  []Diagnostic
}

// HasSkill reports whether the candidate lists the normalized skill
func (c *NormalizedCandidate) HasSkill(skill string) bool {
	_, ok := c.SkillSet[skill]
	return ok
}

// Candidate normalizes a candidate profile. It never fails: missing or malformed
// fields map to neutral defaults and are recorded in Diagnostics.
func Candidate(p *types.CandidateProfile) NormalizedCandidate {
	n := NormalizedCandidate{
		ID:     p.ID,
		Skills: Skills(p.Skills),
		Area:   Fold(p.AreaOfInterest),
	}

	n.SkillSet = make(map[string]struct{}, len(n.Skills))
	for _, s := range n.Skills {
		n.SkillSet[s] = struct{}{}
	}

	n.ExperienceYears = p.ExperienceYears
	if n.ExperienceYears < 0 {
		n.ExperienceYears = 0
		n.note(types.DimensionExperience, fmt.Sprintf("negative experience %d clamped to 0", p.ExperienceYears))
	}

	var salaryNotes []string
	n.Salary, salaryNotes = salary(p.DesiredSalary)
	for _, msg := range salaryNotes {
		n.note(types.DimensionSalary, msg)
	}

	n.City, n.Region = Location(p.Location)

	if p.Modality != "" {
		m, ok := Modality(string(p.Modality))
		if !ok {
			n.note(types.DimensionLocation, fmt.Sprintf("unknown modality %q ignored", p.Modality))
		}
		n.Modality = m
	}

	if p.ContractType != "" {
		ct, ok := Contract(string(p.ContractType))
		if !ok {
			n.note("", fmt.Sprintf("unknown contract type %q ignored", p.ContractType))
		}
		n.ContractType = ct
	}

	n.Availability, n.NoticeDays = availability(p.Availability, p.NoticeDays)
	if p.Availability != "" && n.Availability == "" {
		n.note(types.DimensionAvailability, fmt.Sprintf("unknown availability %q", p.Availability))
	}

	return n
}

// Vacancy normalizes a vacancy profile. Like Candidate it never fails.
func Vacancy(v *types.VacancyProfile) NormalizedVacancy {
	n := NormalizedVacancy{
		ID:             v.ID,
		RequiredSkills: Skills(v.RequiredSkills),
		Category:       Fold(v.Category),
		MaxExperience:  -1,
	}

	// A skill listed as both required and desired counts as required only.
	required := make(map[string]struct{}, len(n.RequiredSkills))
	for _, s := range n.RequiredSkills {
		required[s] = struct{}{}
	}
	n.DesiredSkills = make([]string, 0, len(v.DesiredSkills))
	for _, s := range Skills(v.DesiredSkills) {
		if _, dup := required[s]; !dup {
			n.DesiredSkills = append(n.DesiredSkills, s)
		}
	}

	n.MinExperience = v.MinExperienceYears
	if n.MinExperience < 0 {
		n.MinExperience = 0
		n.note(types.DimensionExperience, "negative minimum experience clamped to 0")
	}
	if v.MaxExperienceYears != nil {
		switch {
		case *v.MaxExperienceYears < n.MinExperience:
			n.note(types.DimensionExperience, "maximum experience below minimum ignored")
		default:
			n.MaxExperience = *v.MaxExperienceYears
		}
	}

	var salaryNotes []string
	n.Salary, salaryNotes = salary(v.SalaryRange)
	for _, msg := range salaryNotes {
		n.note(types.DimensionSalary, msg)
	}

	n.City, n.Region = Location(v.Location)

	if v.Modality != "" {
		m, ok := Modality(string(v.Modality))
		if !ok {
			n.note(types.DimensionLocation, fmt.Sprintf("unknown modality %q ignored", v.Modality))
		}
		n.Modality = m
	}

	if v.ContractType != "" {
		ct, ok := Contract(string(v.ContractType))
		if !ok {
			n.note("", fmt.Sprintf("unknown contract type %q ignored", v.ContractType))
		}
		n.ContractType = ct
	}

	return n
}

func (c *NormalizedCandidate) note(d types.Dimension, msg string) {
	c.Diagnostics = append(c.Diagnostics, Diagnostic{Dimension: d, Message: msg})
}

func (v *NormalizedVacancy) note(d types.Dimension, msg string) {
	v.Diagnostics = append(v.Diagnostics, Diagnostic{Dimension: d, Message: msg})
}

// salary normalizes an optional range; nil means no constraint.
func salary(r *types.SalaryRange) (*Salary, []string) {
	if r == nil {
		return nil, nil
	}

	var notes []string
	s := &Salary{Min: r.Min, Unbounded: true}
	if s.Min < 0 {
		s.Min = 0
		notes = append(notes, "negative salary minimum clamped to 0")
	}
	if r.Max != nil {
		if *r.Max < s.Min {
			notes = append(notes, "salary maximum below minimum treated as unbounded")
		} else {
			s.Max = *r.Max
			s.Unbounded = false
		}
	}
	return s, notes
}

var modalityAliases = map[string]types.WorkModality{
	"on_site":     types.ModalityOnSite,
	"on-site":     types.ModalityOnSite,
	"onsite":      types.ModalityOnSite,
	"on site":     types.ModalityOnSite,
	"presencial":  types.ModalityOnSite,
	"hybrid":      types.ModalityHybrid,
	"hibrido":     types.ModalityHybrid,
	"remote":      types.ModalityRemote,
	"remoto":      types.ModalityRemote,
	"home office": types.ModalityRemote,
}

// Modality maps a free-form modality string to the enum. ok is false for unknown input.
func Modality(s string) (types.WorkModality, bool) {
	m, ok := modalityAliases[Fold(s)]
	return m, ok
}

var contractAliases = map[string]types.ContractType{
	"clt":        types.ContractCLT,
	"pj":         types.ContractPJ,
	"internship": types.ContractIntern,
	"estagio":    types.ContractIntern,
	"temporary":  types.ContractTemporary,
	"temporario": types.ContractTemporary,
	"freelance":  types.ContractFreelance,
	"freelancer": types.ContractFreelance,
}

// Contract maps a free-form contract string to the enum. ok is false for unknown input.
func Contract(s string) (types.ContractType, bool) {
	ct, ok := contractAliases[Fold(s)]
	return ct, ok
}

var noticePattern = regexp.MustCompile(`^(\d+)\s*(d|day|days|dia|dias)?$`)

// availability maps the declared availability to the enum plus notice length.
// Strings such as "30 days" are read as a notice period. Unknown input yields "".
func availability(a types.Availability, noticeDays int) (types.Availability, int) {
	folded := Fold(string(a))
	switch folded {
	case "":
		return "", 0
	case "immediate", "imediato", "imediata":
		return types.AvailabilityImmediate, 0
	case "not_available", "not available", "unavailable", "indisponivel":
		return types.AvailabilityNotAvailable, 0
	case "notice":
		if noticeDays < 0 {
			noticeDays = 0
		}
		return types.AvailabilityNotice, noticeDays
	}

	if m := noticePattern.FindStringSubmatch(folded); m != nil {
		days, err := strconv.Atoi(m[1])
		if err == nil {
			if days == 0 {
				return types.AvailabilityImmediate, 0
			}
			return types.AvailabilityNotice, days
		}
	}
	return "", 0
}
