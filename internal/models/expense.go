package models

import "github.com/shopspring/decimal"

// Expense represents one shared cost event.
// Expenses are immutable after creation: there is no edit or delete path.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Amount is the positive total cost.
	Amount decimal.Decimal

	// Description is a free-text label.
	Description string

	// SplitMethod is fixed at creation.
	SplitMethod SplitMethod

	// OwnerID is the user who recorded (paid) the expense.
	OwnerID string

	// Splits holds one entry per participant, in input order.
	Splits []ExpenseSplit

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// SplitTotal returns the sum of all split amounts.
func (e *Expense) SplitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range e.Splits {
		total = total.Add(s.Amount)
	}
	return total
}

// BalanceSheet is a user's total owned-expense amount plus itemized detail.
// It is computed on every read and never persisted.
type BalanceSheet struct {
	UserID      string
	TotalAmount decimal.Decimal
	Details     []*Expense
}
