// Package commands implements the splitbook command line.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitbook/internal/buildinfo"
	"github.com/mmynk/splitbook/internal/config"
	"github.com/mmynk/splitbook/internal/storage"
	"github.com/mmynk/splitbook/internal/storage/postgres"
	"github.com/mmynk/splitbook/internal/storage/sqlite"
	"github.com/mmynk/splitbook/pkg/logging"
)

// app is the state shared by every subcommand once the root has loaded the
// configuration.
type app struct {
	configPath string
	cfg        config.Config
	logger     *slog.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "splitbook",
		Short:   "Shared expense ledger with equal, exact and percentage splits",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			a.cfg = cfg
			a.logger = logging.Setup(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to splitbook.yaml (environment variables override it)")

	rootCmd.AddCommand(newServeCommand(a))
	rootCmd.AddCommand(newExportCommand(a))
	rootCmd.AddCommand(newMigrateCommand(a))
	rootCmd.AddCommand(newInitCommand())

	return rootCmd
}

// openStore opens the configured backend. Both backends apply their schema
// on open.
func openStore(ctx context.Context, cfg config.DatabaseConfig) (storage.Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case config.DriverPostgres:
		store, err := postgres.New(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		return store, nil
	default:
		store, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		return store, nil
	}
}
