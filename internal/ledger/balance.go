package ledger

import (
	"context"
	"fmt"

	"github.com/mmynk/splitbook/internal/calculator"
	"github.com/mmynk/splitbook/internal/models"
	"github.com/mmynk/splitbook/internal/storage"
)

// GetUserBalanceSheet computes userID's balance sheet from the expenses they
// own. Nothing is cached; every call re-reads the store.
func (s *Service) GetUserBalanceSheet(ctx context.Context, userID string) (models.BalanceSheet, error) {
	var sheet models.BalanceSheet
	err := s.store.InTx(ctx, func(ctx context.Context, q storage.Queries) error {
		_, err := q.GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		sheet, err = balanceSheet(ctx, q, userID)
		return err
	})
	if err != nil {
		return models.BalanceSheet{}, fmt.Errorf("user balance sheet: %w", err)
	}

	s.metrics.BalanceRead("user")
	return sheet, nil
}

// GetOverallBalanceSheet returns one balance sheet per user, in the store's
// user order. All reads share one transaction so the set of users and their
// expenses is consistent within the call.
func (s *Service) GetOverallBalanceSheet(ctx context.Context) ([]models.BalanceSheet, error) {
	var sheets []models.BalanceSheet
	err := s.store.InTx(ctx, func(ctx context.Context, q storage.Queries) error {
		users, err := q.ListUsers(ctx)
		if err != nil {
			return err
		}
		sheets = make([]models.BalanceSheet, 0, len(users))
		for _, u := range users {
			sheet, err := balanceSheet(ctx, q, u.ID)
			if err != nil {
				return err
			}
			sheets = append(sheets, sheet)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("overall balance sheet: %w", err)
	}

	s.metrics.BalanceRead("overall")
	return sheets, nil
}

func balanceSheet(ctx context.Context, q storage.Queries, userID string) (models.BalanceSheet, error) {
	expenses, err := q.ListExpensesByOwner(ctx, userID)
	if err != nil {
		return models.BalanceSheet{}, err
	}
	return calculator.BuildBalanceSheet(userID, expenses), nil
}

