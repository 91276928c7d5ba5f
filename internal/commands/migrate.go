package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context(), a.cfg.Database)
			if err != nil {
				return err
			}
			if err := store.Close(); err != nil {
				return fmt.Errorf("closing store: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date (%s)\n", a.cfg.Database.Driver)
			return nil
		},
	}
}
