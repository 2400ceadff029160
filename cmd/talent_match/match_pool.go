package main

import (
	"context"
	"fmt"

	"github.com/jonathan/talent-match/internal/config"
	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/observability"
	"github.com/jonathan/talent-match/internal/schemas"
	"github.com/jonathan/talent-match/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type matchPoolOptions struct {
	sourceOptions
	talentPoolPath string
}

func newMatchPoolCmd(g *globalOptions) *cobra.Command {
	opts := &matchPoolOptions{}

	cmd := &cobra.Command{
		Use:   "match-pool",
		Short: "Match talent-bank registrants against a vacancy",
		Long: `Scores talent-bank registrants against the vacancy's category and writes a TalentPoolMatch
JSON. Registrants without an area of interest are skipped and counted.

Registrants come from --talent-pool, or from the database talent bank otherwise.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMatchPool(cmd, g, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.talentPoolPath, "talent-pool", "p", "", "Path to input registrant list JSON file")

	return cmd
}

func runMatchPool(cmd *cobra.Command, g *globalOptions, opts *matchPoolOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadCommandConfig(cmd, g, func(cfg *config.Config) {
		if cmd.Flags().Changed("vacancy") {
			cfg.Vacancy = opts.vacancyPath
		}
		if cmd.Flags().Changed("talent-pool") {
			cfg.TalentPool = opts.talentPoolPath
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

	var pool []types.CandidateProfile
	if cfg.TalentPool != "" {
		pool, err = loadCandidatesFile(cfg.TalentPool)
	} else {
		pool, err = loadTalentPool(ctx, st)
	}
	if err != nil {
		return err
	}

	engine, err := newEngine(&cfg, log)
	if err != nil {
		return err
	}

	log.Info("matching talent pool",
		zap.String("vacancy_id", vacancy.ID),
		zap.Int("registrants", len(pool)),
	)
	match, err := engine.MatchTalentPool(ctx, vacancy, pool, cfg.TalentPoolWeights)
	if err != nil {
		return fmt.Errorf("failed to match talent pool: %w", err)
	}
	if match.Skipped > 0 {
		log.Info("skipped registrants without area of interest", zap.Int("skipped", match.Skipped))
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		printer.PrintVacancy(vacancy)
		printer.PrintTalentPoolMatch(match)
	}

	if err := writeOutput(cmd.OutOrStdout(), opts.outPath, schemas.TalentPoolSchema, match, log); err != nil {
		return err
	}

	if opts.record {
		input := &db.RankingRunInput{
			VacancyID:      vacancyUUID,
			Kind:           db.RunKindTalentPool,
			CandidateCount: len(pool),
			Skipped:        match.Skipped,
			Results:        match.Matches,
		}
		if err := recordRun(ctx, st, input, log); err != nil {
			return err
		}
	}

	if opts.outPath != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully matched %d registrants (%d skipped) to %s\n",
			len(match.Matches), match.Skipped, opts.outPath)
	}
	return nil
}

func loadTalentPool(ctx context.Context, st *store) ([]types.CandidateProfile, error) {
	database, err := st.get(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := database.ListTalentPool(ctx)
	if err != nil {
		return nil, err
	}
	return db.Profiles(rows), nil
}
