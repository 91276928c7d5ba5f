package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitbook/internal/export"
	"github.com/mmynk/splitbook/internal/ledger"
)

func newExportCommand(a *app) *cobra.Command {
	var userID string
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write balance sheets as CSV",
		Long: "Write the overall balance sheet, or one user's with --user, as CSV.\n" +
			"Rows use the same layout as the download endpoints.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" || output == "-" {
				return runExport(cmd.Context(), a, cmd.OutOrStdout(), userID)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			if err := runExport(cmd.Context(), a, f, userID); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", output, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "export only this user's balance sheet")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func runExport(ctx context.Context, a *app, w io.Writer, userID string) error {
	store, err := openStore(ctx, a.cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	l := ledger.New(store)

	if userID != "" {
		sheet, err := l.GetUserBalanceSheet(ctx, userID)
		if err != nil {
			return err
		}
		return export.WriteBalanceSheet(w, sheet)
	}

	sheets, err := l.GetOverallBalanceSheet(ctx)
	if err != nil {
		return err
	}
	a.logger.Debug("Exporting overall balance sheet", "users", len(sheets))
	return export.WriteBalanceSheets(w, sheets)
}
