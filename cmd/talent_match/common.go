package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jonathan/talent-match/internal/config"
	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/logger"
	"github.com/jonathan/talent-match/internal/ranking"
	"github.com/jonathan/talent-match/internal/schemas"
	"github.com/jonathan/talent-match/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const databaseURLHint = config.DatabaseURLEnv + " env var"

// sourceOptions are the input and output flags shared by rank and match-pool
type sourceOptions struct {
	vacancyPath string
	vacancyID   string
	outPath     string
	record      bool
}

func (s *sourceOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.vacancyPath, "vacancy", "j", "", "Path to input VacancyProfile JSON file")
	cmd.Flags().StringVar(&s.vacancyID, "vacancy-id", "", "Load the vacancy from the database by UUID")
	cmd.Flags().StringVarP(&s.outPath, "out", "o", "", "Path to output JSON file (default: stdout)")
	cmd.Flags().BoolVar(&s.record, "record", false, "Record a ranking run summary in the database (requires --vacancy-id)")
	cmd.MarkFlagsMutuallyExclusive("vacancy", "vacancy-id")
}

// loadCommandConfig loads the optional config file, applies flag overrides and defaults,
// and validates the result.
func loadCommandConfig(cmd *cobra.Command, g *globalOptions, overrides func(*config.Config)) (config.Config, error) {
	var cfg config.Config
	if g.configPath != "" {
		loadedCfg, err := config.LoadConfig(g.configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
	}

	// Command-line args take priority; only override if the flag was explicitly set
	flags := cmd.Flags()
	if flags.Changed("db-url") {
		cfg.DatabaseURL = g.databaseURL
	}
	if flags.Changed("verbose") {
		cfg.Verbose = g.verbose
	}
	if flags.Changed("log-json") {
		cfg.LogFormat = "console"
		if g.logJSON {
			cfg.LogFormat = "json"
		}
	}
	if overrides != nil {
		overrides(&cfg)
	}

	cfg = cfg.MergeWithDefaults(config.Config{LogFormat: "console"})
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newCommandLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.LogFormat == "json", cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

func newEngine(cfg *config.Config, log *zap.Logger) (*ranking.Engine, error) {
	opts := cfg.EngineOptions()
	opts.Logger = log
	engine, err := ranking.NewEngine(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create ranking engine: %w", err)
	}
	return engine, nil
}

// readValidated reads a JSON file, checks it against a built-in schema and decodes it into v.
func readValidated(path, schema string, v any) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := schemas.ValidateBytes(schema, content); err != nil {
		return fmt.Errorf("invalid input %s: %w", path, err)
	}

	if err := json.Unmarshal(content, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return nil
}

func loadVacancyFile(path string) (*types.VacancyProfile, error) {
	var vacancy types.VacancyProfile
	if err := readValidated(path, schemas.VacancySchema, &vacancy); err != nil {
		return nil, err
	}
	if err := vacancy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid vacancy %s: %w", path, err)
	}
	return &vacancy, nil
}

func loadCandidatesFile(path string) ([]types.CandidateProfile, error) {
	candidates := make([]types.CandidateProfile, 0)
	if err := readValidated(path, schemas.CandidatesSchema, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// store lazily connects to the database the first time it is needed
type store struct {
	url string
	db  *db.DB
}

func (s *store) get(ctx context.Context) (*db.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	if s.url == "" {
		return nil, fmt.Errorf("database URL is required: set --db-url, database_url in config or %s", databaseURLHint)
	}
	database, err := db.Connect(ctx, s.url)
	if err != nil {
		return nil, err
	}
	s.db = database
	return database, nil
}

func (s *store) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// loadVacancy reads the vacancy from a file or, given an ID, from the database
func loadVacancy(ctx context.Context, src *sourceOptions, st *store) (*types.VacancyProfile, uuid.UUID, error) {
	switch {
	case src.vacancyPath != "":
		vacancy, err := loadVacancyFile(src.vacancyPath)
		return vacancy, uuid.Nil, err
	case src.vacancyID != "":
		id, err := uuid.Parse(src.vacancyID)
		if err != nil {
			return nil, uuid.Nil, fmt.Errorf("invalid --vacancy-id: %w", err)
		}
		database, err := st.get(ctx)
		if err != nil {
			return nil, uuid.Nil, err
		}
		row, err := database.GetVacancy(ctx, id)
		if err != nil {
			return nil, uuid.Nil, err
		}
		if row == nil {
			return nil, uuid.Nil, fmt.Errorf("vacancy %s not found", id)
		}
		vacancy := row.Profile()
		if err := vacancy.Validate(); err != nil {
			return nil, uuid.Nil, fmt.Errorf("invalid vacancy %s: %w", id, err)
		}
		return vacancy, id, nil
	default:
		return nil, uuid.Nil, fmt.Errorf("either --vacancy or --vacancy-id must be provided (via flag or config)")
	}
}

// writeOutput writes v as indented JSON to path, or to w when path is empty, then checks
// the written document against its schema. Schema mismatches are logged, not returned.
func writeOutput(w io.Writer, path, schema string, v any, log *zap.Logger) error {
	jsonOutput, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	if err := schemas.ValidateBytes(schema, jsonOutput); err != nil {
		log.Warn("output validation failed", zap.String("schema", schema), zap.Error(err))
	}

	if path == "" {
		_, err := fmt.Fprintln(w, string(jsonOutput))
		return err
	}

	// Ensure output directory exists
	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}
	if err := os.WriteFile(path, jsonOutput, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}

// recordRun stores a ranking run summary when --record was requested
func recordRun(ctx context.Context, st *store, input *db.RankingRunInput, log *zap.Logger) error {
	database, err := st.get(ctx)
	if err != nil {
		return err
	}
	runID, err := database.RecordRankingRun(ctx, input)
	if err != nil {
		return err
	}
	log.Info("recorded ranking run",
		zap.String("run_id", runID.String()),
		zap.String("vacancy_id", input.VacancyID.String()),
		zap.String("kind", input.Kind),
	)
	return nil
}
