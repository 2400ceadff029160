// Package main provides the talent_match CLI for ranking candidates against job vacancies.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every subcommand
type globalOptions struct {
	configPath  string
	databaseURL string
	verbose     bool
	logJSON     bool
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "talent_match",
		Short: "Candidate and vacancy compatibility ranking",
		Long: `talent_match scores candidates against a job vacancy across skills, experience, location,
salary and availability, and returns an explained, deterministic ranking.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().StringVar(&g.databaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to "+databaseURLHint+")")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.PersistentFlags().BoolVar(&g.logJSON, "log-json", false, "Emit logs as JSON")

	rootCmd.AddCommand(newRankCmd(g))
	rootCmd.AddCommand(newMatchPoolCmd(g))
	rootCmd.AddCommand(newValidateConfigCmd(g))
	rootCmd.AddCommand(newServeCmd(g))

	return rootCmd
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
