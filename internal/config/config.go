// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/talent-match/internal/ranking"
	"github.com/jonathan/talent-match/internal/scoring"
)

// DatabaseURLEnv is consulted when no database URL is configured
const DatabaseURLEnv = "TALENT_MATCH_DATABASE_URL"

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	Vacancy    string `json:"vacancy,omitempty"`     // Path to VacancyProfile JSON file
	Candidates string `json:"candidates,omitempty"`  // Path to candidate list JSON file
	TalentPool string `json:"talent_pool,omitempty"` // Path to talent-pool registrant list JSON file

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// Scoring
	Weights           ranking.WeightConfig `json:"weights,omitempty"`             // Applicant ranking weights
	TalentPoolWeights ranking.WeightConfig `json:"talent_pool_weights,omitempty"` // Talent-pool matching weights
	Scoring           *scoring.Constants   `json:"scoring,omitempty"`             // Scorer constants

	// Ranking options
	MinScore          float64 `json:"min_score,omitempty" validate:"gte=0,lte=1"`
	Limit             int     `json:"limit,omitempty" validate:"gte=0"`
	Parallelism       int     `json:"parallelism,omitempty" validate:"gte=0"`
	ParallelThreshold int     `json:"parallel_threshold,omitempty" validate:"gte=0"`

	// Logging: "console" (default) or "json"
	LogFormat string `json:"log_format,omitempty" validate:"omitempty,oneof=console json"`

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.Weights != nil {
		if err := c.Weights.ValidateForRanking(); err != nil {
			return err
		}
	}
	if c.TalentPoolWeights != nil {
		if err := c.TalentPoolWeights.ValidateForTalentPool(); err != nil {
			return err
		}
	}
	if c.Scoring != nil {
		if err := c.Scoring.Validate(); err != nil {
			return fmt.Errorf("config error: 'scoring': %w", err)
		}
	}

	// Validate file paths exist (if specified)
	inputs := []struct {
		name string
		path string
	}{
		{"vacancy", c.Vacancy},
		{"candidates", c.Candidates},
		{"talent_pool", c.TalentPool},
	}
	for _, in := range inputs {
		if in.path == "" {
			continue
		}
		if _, err := os.Stat(in.path); os.IsNotExist(err) {
			return fmt.Errorf("config error: %s file not found: %s", in.name, in.path)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Vacancy == "" {
		result.Vacancy = defaults.Vacancy
	}
	if result.Candidates == "" {
		result.Candidates = defaults.Candidates
	}
	if result.TalentPool == "" {
		result.TalentPool = defaults.TalentPool
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = os.Getenv(DatabaseURLEnv)
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}

	// Scoring: fall back to defaults, then to the built-in configuration
	if result.Weights == nil {
		result.Weights = defaults.Weights
	}
	if result.Weights == nil {
		result.Weights = ranking.DefaultWeights()
	}
	if result.TalentPoolWeights == nil {
		result.TalentPoolWeights = defaults.TalentPoolWeights
	}
	if result.TalentPoolWeights == nil {
		result.TalentPoolWeights = ranking.DefaultTalentPoolWeights()
	}
	if result.Scoring == nil {
		result.Scoring = defaults.Scoring
	}

	// Numeric fields: use default if zero
	if result.MinScore == 0 {
		result.MinScore = defaults.MinScore
	}
	if result.Limit == 0 {
		result.Limit = defaults.Limit
	}
	if result.Parallelism == 0 {
		result.Parallelism = defaults.Parallelism
	}
	if result.ParallelThreshold == 0 {
		result.ParallelThreshold = defaults.ParallelThreshold
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// RankOptions returns the ranking options described by the configuration
func (c *Config) RankOptions() ranking.RankOptions {
	return ranking.RankOptions{
		MinScore:    c.MinScore,
		Limit:       c.Limit,
		Parallelism: c.Parallelism,
	}
}

// EngineOptions returns the engine options described by the configuration
func (c *Config) EngineOptions() ranking.EngineOptions {
	return ranking.EngineOptions{
		Constants:         c.Scoring,
		ParallelThreshold: c.ParallelThreshold,
		Parallelism:       c.Parallelism,
	}
}
