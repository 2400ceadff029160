package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/talent-match/internal/config"
	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/server"
	"github.com/jonathan/talent-match/internal/server/middleware"
	"github.com/jonathan/talent-match/internal/server/ratelimit"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// APIKeysEnv lists the accepted API keys as "client:token" pairs separated by commas
const APIKeysEnv = "TALENT_MATCH_API_KEYS"

type serveOptions struct {
	port    int
	migrate bool
}

func newServeCmd(g *globalOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start an HTTP server that exposes the ranking and talent-pool matching endpoints.

Requests under /v1 require "Authorization: Bearer <token>" when ` + APIKeysEnv + ` is set.
The /v1/vacancies endpoints read vacancies and candidates from the database and are
only available when a database URL is configured.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, g, opts)
		},
	}

	cmd.Flags().IntVar(&opts.port, "port", 8080, "Port to listen on")
	cmd.Flags().BoolVar(&opts.migrate, "migrate", false, "Apply the database schema before serving")

	return cmd
}

func runServe(cmd *cobra.Command, g *globalOptions, opts *serveOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadCommandConfig(cmd, g, nil)
	if err != nil {
		return err
	}
	if opts.migrate && cfg.DatabaseURL == "" {
		return fmt.Errorf("--migrate requires a database URL")
	}

	log, err := newCommandLogger(&cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	var store server.Store
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()

		if opts.migrate {
			if err := database.Migrate(ctx); err != nil {
				return err
			}
			log.Info("database schema applied")
		}
		store = database
	} else {
		log.Warn("no database configured; /v1/vacancies endpoints are disabled",
			zap.String("env", config.DatabaseURLEnv))
	}

	keys := middleware.ParseAPIKeys(os.Getenv(APIKeysEnv))
	if len(keys) == 0 {
		log.Warn("no API keys configured; /v1 endpoints are unauthenticated", zap.String("env", APIKeysEnv))
	}

	srv, err := server.New(server.Config{
		Port:      opts.port,
		Settings:  cfg,
		APIKeys:   keys,
		RateLimit: ratelimit.LoadConfig(),
	}, store, log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
