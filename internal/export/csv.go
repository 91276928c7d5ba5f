// Package export renders balance sheets as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/mmynk/splitbook/internal/models"
)

// Header is the first row of every balance sheet export.
var Header = []string{"User ID", "Total Amount", "Expense ID", "Description", "Amount", "Split Method"}

// UserFilename is the attachment name for one user's balance sheet.
func UserFilename(userID string) string {
	return fmt.Sprintf("id-%s_balance_sheet.csv", userID)
}

// OverallFilename is the attachment name for the overall balance sheet.
const OverallFilename = "overall_balance_sheet.csv"

// WriteBalanceSheet writes the header and one row per owned expense.
// A sheet without expenses produces only the header.
func WriteBalanceSheet(w io.Writer, sheet models.BalanceSheet) error {
	return WriteBalanceSheets(w, []models.BalanceSheet{sheet})
}

// WriteBalanceSheets writes the header followed by the rows of every sheet,
// in order.
func WriteBalanceSheets(w io.Writer, sheets []models.BalanceSheet) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := 2
	for _, sheet := range sheets {
		for _, e := range sheet.Details {
			if err := cw.Write(marshalRow(sheet, e)); err != nil {
				return fmt.Errorf("writing row %d: %w", row, err)
			}
			row++
		}
	}

	cw.Flush()
	return cw.Error()
}

func marshalRow(sheet models.BalanceSheet, e *models.Expense) []string {
	return []string{
		sheet.UserID,
		sheet.TotalAmount.StringFixed(2),
		e.ID,
		e.Description,
		e.Amount.StringFixed(2),
		e.SplitMethod.String(),
	}
}
