// Package scoring provides the per-dimension compatibility scorers.
package scoring

import (
	"math"
	"strings"

	"github.com/jonathan/talent-match/internal/normalize"
	"github.com/jonathan/talent-match/internal/types"
)

// Result is the outcome of scoring one candidate on one dimension
type Result struct {
	Raw  float64
	Note string
	// Matched and Missing list required skills; only the skills scorer fills them
	Matched []string
	Missing []string
}

// Scorer is a pure function scoring a candidate against a vacancy on one dimension
type Scorer func(c *normalize.NormalizedCandidate, v *normalize.NormalizedVacancy, k *Constants) Result

// table is the closed set of dimension scorers
var table = map[types.Dimension]Scorer{
	types.DimensionSkills:         scoreSkills,
	types.DimensionExperience:     scoreExperience,
	types.DimensionLocation:       scoreLocation,
	types.DimensionSalary:         scoreSalary,
	types.DimensionAvailability:   scoreAvailability,
	types.DimensionAreaOfInterest: scoreAreaOfInterest,
}

// Has reports whether a scorer exists for d
func Has(d types.Dimension) bool {
	_, ok := table[d]
	return ok
}

// Score runs the scorer for d, clamps the raw score to [0,1] and attaches any
// normalization diagnostics recorded for that dimension.
// Unknown dimensions score 0; callers validate dimensions before scoring.
func Score(d types.Dimension, c *normalize.NormalizedCandidate, v *normalize.NormalizedVacancy, k *Constants) Result {
	scorer, ok := table[d]
	if !ok {
		return Result{Note: "unknown dimension"}
	}

	r := scorer(c, v, k)
	r.Raw = clamp01(r.Raw)

	var notes []string
	for _, diag := range v.Diagnostics {
		if diag.Dimension == d {
			notes = append(notes, "vacancy: "+diag.Message)
		}
	}
	for _, diag := range c.Diagnostics {
		if diag.Dimension == d {
			notes = append(notes, diag.Message)
		}
	}
	if r.Note != "" {
		notes = append(notes, r.Note)
	}
	r.Note = strings.Join(notes, "; ")

	return r
}

// scoreSkills is the share of required skills the candidate has. When desired skills
// exist they contribute DesiredSkillShare of the score.
func scoreSkills(c *normalize.NormalizedCandidate, v *normalize.NormalizedVacancy, k *Constants) Result {
	if len(v.RequiredSkills) == 0 {
		return Result{Raw: 1.0, Note: "no required skills", Matched: []string{}, Missing: []string{}}
	}

	matched := make([]string, 0, len(v.RequiredSkills))
	missing := make([]string, 0)
	for _, skill := range v.RequiredSkills {
		if c.HasSkill(skill) {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	requiredFraction := float64(len(matched)) / float64(len(v.RequiredSkills))

	if len(v.DesiredSkills) == 0 {
		return Result{Raw: requiredFraction, Matched: matched, Missing: missing}
	}

	desiredMatched := 0
	for _, skill := range v.DesiredSkills {
		if c.HasSkill(skill) {
			desiredMatched++
		}
	}
	desiredFraction := float64(desiredMatched) / float64(len(v.DesiredSkills))

	score := k.RequiredSkillShare*requiredFraction + k.DesiredSkillShare*desiredFraction
	if score > 1.0 {
		score = 1.0
	}

	return Result{Raw: score, Matched: matched, Missing: missing}
}

// scoreExperience is 1.0 inside the vacancy's range and decays linearly per year outside it
func scoreExperience(c *normalize.NormalizedCandidate, v *normalize.NormalizedVacancy, k *Constants) Result {
	years := c.ExperienceYears

	gap := 0
	switch {
	case years < v.MinExperience:
		gap = v.MinExperience - years
	case v.MaxExperience >= 0 && years > v.MaxExperience:
		gap = years - v.MaxExperience
	}
	if gap == 0 {
		return Result{Raw: 1.0}
	}

	score := 1.0 - float64(gap)*k.ExperienceDecayPerYear
	if score < 0 {
		score = 0
	}
	return Result{Raw: score}
}

// scoreLocation compares locations, honoring remote vacancies and hybrid-compatible preferences
func scoreLocation(c *normalize.NormalizedCandidate, v *normalize.NormalizedVacancy, k *Constants) Result {
	if v.Modality == types.ModalityRemote {
		return Result{Raw: 1.0}
	}
	if v.City == "" {
		return Result{Raw: 1.0, Note: "vacancy location missing, dimension neutral"}
	}
	if c.City == "" {
		return Result{Raw: 1.0, Note: "candidate location missing, dimension neutral"}
	}

	sameRegion := c.Region != "" && c.Region == v.Region
	if c.City == v.City && (c.Region == "" || v.Region == "" || sameRegion) {
		return Result{Raw: 1.0}
	}
	if sameRegion {
		return Result{Raw: k.LocationPartialCredit, Note: "same region"}
	}
	if v.Modality == types.ModalityHybrid &&
		(c.Modality == types.ModalityHybrid || c.Modality == types.ModalityRemote) {
		return Result{Raw: k.LocationPartialCredit, Note: "different location, hybrid compatible"}
	}

	return Result{Raw: 0}
}

// scoreSalary is 1.0 while the candidate's ask fits under the offered maximum and
// decays to 0 as the ask exceeds it.
func scoreSalary(c *normalize.NormalizedCandidate, v *normalize.NormalizedVacancy, k *Constants) Result {
	if c.Salary == nil {
		return Result{Raw: 1.0, Note: "salary expectation missing, dimension neutral"}
	}
	if v.Salary == nil {
		return Result{Raw: 1.0, Note: "vacancy salary range missing, dimension neutral"}
	}

	ask := c.Salary.Min
	if v.Salary.Unbounded || ask <= v.Salary.Max {
		return Result{Raw: 1.0}
	}

	tolerance := v.Salary.Max * k.SalaryDecayRatio
	if tolerance <= 0 {
		return Result{Raw: 0, Note: "salary expectation above offered maximum"}
	}

	score := 1.0 - (ask-v.Salary.Max)/tolerance
	if score < 0 {
		score = 0
	}
	return Result{Raw: score, Note: "salary expectation above offered maximum"}
}

// scoreAvailability looks the candidate's availability up in the notice table
func scoreAvailability(c *normalize.NormalizedCandidate, _ *normalize.NormalizedVacancy, k *Constants) Result {
	switch c.Availability {
	case types.AvailabilityImmediate:
		return Result{Raw: 1.0}
	case types.AvailabilityNotAvailable:
		return Result{Raw: 0.0}
	case types.AvailabilityNotice:
		for _, band := range k.NoticeBands {
			if c.NoticeDays <= band.MaxDays {
				return Result{Raw: band.Score}
			}
		}
		return Result{Raw: k.LongNoticeScore}
	default:
		return Result{Raw: k.UnknownAvailabilityScore, Note: "availability missing, dimension neutral"}
	}
}

// scoreAreaOfInterest is 1.0 when the declared area equals the vacancy's category
func scoreAreaOfInterest(c *normalize.NormalizedCandidate, v *normalize.NormalizedVacancy, _ *Constants) Result {
	if v.Category == "" {
		return Result{Raw: 1.0, Note: "vacancy category missing, dimension neutral"}
	}
	if c.Area != "" && c.Area == v.Category {
		return Result{Raw: 1.0}
	}
	return Result{Raw: 0}
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
