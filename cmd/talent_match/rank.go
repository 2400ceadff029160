package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/talent-match/internal/config"
	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/observability"
	"github.com/jonathan/talent-match/internal/schemas"
	"github.com/jonathan/talent-match/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rankOptions struct {
	sourceOptions
	candidatesPath string
	minScore       float64
	limit          int
	parallelism    int
}

func newRankCmd(g *globalOptions) *cobra.Command {
	opts := &rankOptions{}

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank applicants against a vacancy",
		Long: `Scores every candidate against the vacancy and writes a RankingResults JSON ordered by
compatibility, highest first. Ties are broken by candidate ID.

Candidates come from --candidates, or from the vacancy's applicants in the database when
--vacancy-id is used without --candidates.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRank(cmd, g, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.candidatesPath, "candidates", "c", "", "Path to input candidate list JSON file")
	cmd.Flags().Float64Var(&opts.minScore, "min-score", 0, "Drop candidates scoring below this value (0-1)")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Return at most this many candidates (0 = all)")
	cmd.Flags().IntVar(&opts.parallelism, "parallelism", 0, "Candidates scored concurrently for large pools (0 = engine default)")

	return cmd
}

func runRank(cmd *cobra.Command, g *globalOptions, opts *rankOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadCommandConfig(cmd, g, func(cfg *config.Config) {
		flags := cmd.Flags()
		if flags.Changed("vacancy") {
			cfg.Vacancy = opts.vacancyPath
		}
		if flags.Changed("candidates") {
			cfg.Candidates = opts.candidatesPath
		}
		if flags.Changed("min-score") {
			cfg.MinScore = opts.minScore
		}
		if flags.Changed("limit") {
			cfg.Limit = opts.limit
		}
		if flags.Changed("parallelism") {
			cfg.Parallelism = opts.parallelism
		}
	})
	if err != nil {
		return err
	}
	if opts.vacancyID == "" {
		opts.vacancyPath = cfg.Vacancy
	}
	if opts.record && opts.vacancyID == "" {
		return fmt.Errorf("--record requires --vacancy-id")
	}

	log, err := newCommandLogger(&cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	st := &store{url: cfg.DatabaseURL}
	defer st.Close()

	vacancy, vacancyUUID, err := loadVacancy(ctx, &opts.sourceOptions, st)
	if err != nil {
		return err
	}

	var candidates []types.CandidateProfile
	switch {
	case cfg.Candidates != "":
		candidates, err = loadCandidatesFile(cfg.Candidates)
	case opts.vacancyID != "":
		candidates, err = loadApplicants(ctx, st, vacancyUUID)
	default:
		err = fmt.Errorf("either --candidates or --vacancy-id must be provided (via flag or config)")
	}
	if err != nil {
		return err
	}

	engine, err := newEngine(&cfg, log)
	if err != nil {
		return err
	}

	log.Info("ranking candidates",
		zap.String("vacancy_id", vacancy.ID),
		zap.Int("candidates", len(candidates)),
	)
	ranked, err := engine.RankCandidatesForVacancy(ctx, vacancy, candidates, cfg.Weights, cfg.RankOptions())
	if err != nil {
		return fmt.Errorf("failed to rank candidates: %w", err)
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		printer.PrintVacancy(vacancy)
		printer.PrintRankedCandidates(ranked)
	}

	results := types.RankingResults{VacancyID: vacancy.ID, Ranked: ranked}
	if err := writeOutput(cmd.OutOrStdout(), opts.outPath, schemas.RankingResultsSchema, results, log); err != nil {
		return err
	}

	if opts.record {
		input := &db.RankingRunInput{
			VacancyID:      vacancyUUID,
			Kind:           db.RunKindApplicants,
			CandidateCount: len(candidates),
			Results:        ranked,
		}
		if err := recordRun(ctx, st, input, log); err != nil {
			return err
		}
	}

	if opts.outPath != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully ranked %d candidates to %s\n", len(ranked), opts.outPath)
	}
	return nil
}

func loadApplicants(ctx context.Context, st *store, vacancyID uuid.UUID) ([]types.CandidateProfile, error) {
	database, err := st.get(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := database.ListApplicants(ctx, vacancyID)
	if err != nil {
		return nil, err
	}
	return db.Profiles(rows), nil
}
