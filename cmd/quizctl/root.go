package main

import (
	"context"
	"fmt"

	"quiz-hub/internal/config"
	"quiz-hub/internal/database"
	"quiz-hub/internal/logger"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	Verbose bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "quizctl",
		Short: "Operate and play Quiz Hub",
		Long: `quizctl manages the Quiz Hub database and question bank, and plays a
quiz in the terminal against a running API server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newSeedCommand(opts))
	cmd.AddCommand(newGenerateCommand(opts))
	cmd.AddCommand(newPlayCommand(opts))
	return cmd
}

// setup loads config.yaml and initializes the global logger.
func setup(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Verbose {
		cfg.Logger.Level = "debug"
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}

func openDB(ctx context.Context, opts *rootOptions) (*config.Config, *sqlx.DB, error) {
	cfg, err := setup(opts)
	if err != nil {
		return nil, nil, err
	}
	db, err := database.NewSQLXDB(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
