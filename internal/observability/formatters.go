// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/talent-match/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len([]rune(line)) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintVacancy outputs a human-readable summary of the vacancy being ranked against.
func (p *Printer) PrintVacancy(vacancy *types.VacancyProfile) {
	if vacancy == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Vacancy:  %s\n", vacancy.ID))
	if vacancy.Title != "" {
		sb.WriteString(fmt.Sprintf("Title:    %s\n", vacancy.Title))
	}
	if vacancy.Location != "" || vacancy.Modality != "" {
		sb.WriteString(fmt.Sprintf("Location: %s (%s)\n", vacancy.Location, vacancy.Modality))
	}
	if vacancy.MaxExperienceYears != nil {
		sb.WriteString(fmt.Sprintf("Experience: %d-%d years\n", vacancy.MinExperienceYears, *vacancy.MaxExperienceYears))
	} else {
		sb.WriteString(fmt.Sprintf("Experience: %d+ years\n", vacancy.MinExperienceYears))
	}
	sb.WriteString("\n")

	// Required skills
	if len(vacancy.RequiredSkills) > 0 {
		sb.WriteString("Required Skills:\n")
		count := min(len(vacancy.RequiredSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", vacancy.RequiredSkills[i]))
		}
		if len(vacancy.RequiredSkills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(vacancy.RequiredSkills)-maxItemsToShow))
		}
	}

	// Desired skills
	if len(vacancy.DesiredSkills) > 0 {
		sb.WriteString("Desired Skills:\n")
		count := min(len(vacancy.DesiredSkills), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", vacancy.DesiredSkills[i]))
		}
		if len(vacancy.DesiredSkills) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(vacancy.DesiredSkills)-3))
		}
	}

	p.printBox("VACANCY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRankedCandidates outputs the top N ranked candidates with per-dimension scores.
func (p *Printer) PrintRankedCandidates(results []types.CompatibilityResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total candidates ranked: %d\n\n", len(results)))

	count := min(len(results), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := results[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", r.Rank, r.CandidateID))
		sb.WriteString(fmt.Sprintf("    Score: %.2f (%.1f%%)\n", r.OverallScore, r.Percent))

		dims := make([]string, 0, len(r.Dimensions))
		for _, ds := range r.Dimensions {
			dims = append(dims, fmt.Sprintf("%s=%.2f", abbreviate(ds.Dimension), ds.Raw))
		}
		sb.WriteString(fmt.Sprintf("    %s\n", strings.Join(dims, " ")))

		if len(r.MatchedSkills) > 0 {
			skills := strings.Join(r.MatchedSkills, ", ")
			if len(skills) > 40 {
				skills = skills[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("    Skills: %s\n", skills))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(results) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates", len(results)-maxItemsToShow))
	}

	p.printBox("TOP RANKED CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTalentPoolMatch outputs talent-pool matches along with the skipped count.
func (p *Printer) PrintTalentPoolMatch(match *types.TalentPoolMatch) {
	if match == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Matched:  %d\n", len(match.Matches)))
	sb.WriteString(fmt.Sprintf("Skipped:  %d (no area of interest)\n", match.Skipped))

	if len(match.SkippedIDs) > 0 {
		count := min(len(match.SkippedIDs), maxItemsToShow)
		sb.WriteString(fmt.Sprintf("  %s", strings.Join(match.SkippedIDs[:count], ", ")))
		if len(match.SkippedIDs) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf(" ... and %d more", len(match.SkippedIDs)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	p.printBox("TALENT POOL", strings.TrimSuffix(sb.String(), "\n"))
	p.PrintRankedCandidates(match.Matches)
}

func abbreviate(d types.Dimension) string {
	switch d {
	case types.DimensionSkills:
		return "skl"
	case types.DimensionExperience:
		return "exp"
	case types.DimensionLocation:
		return "loc"
	case types.DimensionSalary:
		return "sal"
	case types.DimensionAvailability:
		return "avl"
	case types.DimensionAreaOfInterest:
		return "area"
	}
	return string(d)
}
