package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitbook/internal/models"
)

// BuildBalanceSheet folds the expenses a user owns into a balance sheet.
//
// The total is what the user paid: the sum of Amount over expenses whose
// OwnerID is userID. Shares the user carries as a participant on someone
// else's expense are not netted in. Expenses owned by other users are ignored.
// Details is never nil, so a user with no expenses gets a zero total and an
// empty list.
func BuildBalanceSheet(userID string, expenses []*models.Expense) models.BalanceSheet {
	sheet := models.BalanceSheet{
		UserID:      userID,
		TotalAmount: decimal.Zero,
		Details:     make([]*models.Expense, 0, len(expenses)),
	}
	for _, e := range expenses {
		if e.OwnerID != userID {
			continue
		}
		sheet.TotalAmount = sheet.TotalAmount.Add(e.Amount)
		sheet.Details = append(sheet.Details, e)
	}
	return sheet
}

// OverallTotal sums TotalAmount across sheets.
func OverallTotal(sheets []models.BalanceSheet) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sheets {
		total = total.Add(s.TotalAmount)
	}
	return total
}
