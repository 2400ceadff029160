package main

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/talent-match/internal/config"
	"github.com/jonathan/talent-match/internal/ranking"
	"github.com/jonathan/talent-match/internal/schemas"
	"github.com/jonathan/talent-match/internal/scoring"
	"github.com/spf13/cobra"
)

// effectiveConfig is the scoring configuration a ranking would run with
type effectiveConfig struct {
	Weights           ranking.WeightConfig `json:"weights"`
	TalentPoolWeights ranking.WeightConfig `json:"talent_pool_weights"`
	Scoring           scoring.Constants    `json:"scoring"`
	MinScore          float64              `json:"min_score"`
	Limit             int                  `json:"limit"`
	Parallelism       int                  `json:"parallelism"`
	ParallelThreshold int                  `json:"parallel_threshold"`
}

func newValidateConfigCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-config",
		Short: "Validate a config file and print the effective scoring configuration",
		Long:  "Loads --config, checks weights and scoring constants and any input files it names, and prints the configuration after defaults are applied.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if g.configPath == "" {
				return fmt.Errorf("--config is required")
			}

			cfg, err := loadCommandConfig(cmd, g, nil)
			if err != nil {
				return err
			}

			checked, err := validateInputFiles(cfg)
			if err != nil {
				return err
			}

			effective := effectiveConfig{
				Weights:           cfg.Weights,
				TalentPoolWeights: cfg.TalentPoolWeights,
				Scoring:           scoring.DefaultConstants(),
				MinScore:          cfg.MinScore,
				Limit:             cfg.Limit,
				Parallelism:       cfg.Parallelism,
				ParallelThreshold: cfg.ParallelThreshold,
			}
			if cfg.Scoring != nil {
				effective.Scoring = *cfg.Scoring
			}
			if effective.ParallelThreshold == 0 {
				effective.ParallelThreshold = ranking.DefaultParallelThreshold
			}

			jsonOutput, err := json.MarshalIndent(effective, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal effective config: %w", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Validation passed: %s\n", g.configPath)
			for _, path := range checked {
				_, _ = fmt.Fprintf(out, "Input valid: %s\n", path)
			}
			_, _ = fmt.Fprintln(out, string(jsonOutput))
			return nil
		},
	}
}

// validateInputFiles checks each input path the config names against its schema
// and returns the paths that were checked
func validateInputFiles(cfg config.Config) ([]string, error) {
	inputs := []struct {
		path   string
		schema string
	}{
		{cfg.Vacancy, schemas.VacancySchema},
		{cfg.Candidates, schemas.CandidatesSchema},
		{cfg.TalentPool, schemas.CandidatesSchema},
	}

	var checked []string
	for _, in := range inputs {
		if in.path == "" {
			continue
		}
		if err := schemas.ValidateFile(in.schema, in.path); err != nil {
			return nil, fmt.Errorf("invalid input %s: %w", in.path, err)
		}
		checked = append(checked, in.path)
	}
	return checked, nil
}
