package service

import (
	"time"

	"github.com/mmynk/splitbook/internal/models"
	"github.com/mmynk/splitbook/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Mobile:      u.Mobile,
		CreatedAt:   time.Unix(u.CreatedAt, 0).UTC(),
	}
}

func toAPIExpense(e *models.Expense) *api.Expense {
	splits := make([]*api.ExpenseSplit, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = &api.ExpenseSplit{
			ID:         s.ID,
			UserID:     s.UserID,
			Amount:     s.Amount,
			Percentage: s.Percentage,
		}
	}
	return &api.Expense{
		ID:          e.ID,
		OwnerID:     e.OwnerID,
		Amount:      e.Amount,
		Description: e.Description,
		SplitMethod: e.SplitMethod.String(),
		CreatedAt:   time.Unix(e.CreatedAt, 0).UTC(),
		Splits:      splits,
	}
}

func toAPIExpenses(expenses []*models.Expense) []*api.Expense {
	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}
	return out
}

func toAPIBalanceSheet(b models.BalanceSheet) *api.BalanceSheet {
	return &api.BalanceSheet{
		UserID:      b.UserID,
		TotalAmount: b.TotalAmount,
		Details:     toAPIExpenses(b.Details),
	}
}
