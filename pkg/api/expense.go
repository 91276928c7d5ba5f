package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// Participant is one line of the split instructions. Amount is read for
// "exact" splits and Percentage for "percentage" splits.
type Participant struct {
	UserID     string              `json:"user_id"`
	Amount     decimal.NullDecimal `json:"amount"`
	Percentage decimal.NullDecimal `json:"percentage"`
}

type CreateExpenseRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	SplitMethod  string          `json:"split_method"`
	Participants []Participant   `json:"splits"`
}

// ExpenseSplit is one participant's stored share.
type ExpenseSplit struct {
	ID         string              `json:"id"`
	UserID     string              `json:"user_id"`
	Amount     decimal.Decimal     `json:"amount"`
	Percentage decimal.NullDecimal `json:"percentage"`
}

type Expense struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"owner_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	SplitMethod string          `json:"split_method"`
	CreatedAt   time.Time       `json:"created_at"`
	Splits      []*ExpenseSplit `json:"splits"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListUserExpensesRequest struct{}

type ListUserExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

// BalanceSheet is the total a user has paid and the expenses behind it.
type BalanceSheet struct {
	UserID      string          `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Details     []*Expense      `json:"details"`
}

type GetUserBalanceSheetRequest struct{}

type GetUserBalanceSheetResponse struct {
	BalanceSheet *BalanceSheet `json:"balance_sheet"`
}

type GetOverallBalanceSheetRequest struct{}

type GetOverallBalanceSheetResponse struct {
	BalanceSheets []*BalanceSheet `json:"balance_sheets"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}
