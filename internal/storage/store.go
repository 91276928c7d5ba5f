// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/splitbook/internal/models"
)

// Queries is the set of persistence operations the ledger needs.
// Implementations exist both for a plain connection and for an open
// transaction, so the same code runs inside or outside InTx.
type Queries interface {
	// InsertExpense writes the expense row only; splits are inserted separately.
	// expense.ID and expense.CreatedAt are populated if empty.
	InsertExpense(ctx context.Context, expense *models.Expense) error

	// InsertExpenseSplit writes one split row. split.ID is populated if empty.
	InsertExpenseSplit(ctx context.Context, split *models.ExpenseSplit) error

	// GetExpense retrieves an expense with its splits.
	// Returns *apperr.NotFoundError if it does not exist.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByOwner returns the expenses recorded by ownerID with their
	// splits, oldest first.
	ListExpensesByOwner(ctx context.Context, ownerID string) ([]*models.Expense, error)

	// CreateUser inserts a new user. A duplicate email returns ErrDuplicateEmail.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID returns *apperr.NotFoundError when the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByEmail returns *apperr.NotFoundError when the user does not exist.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// ListUsers returns every user ordered by creation time, then ID.
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// Store defines the interface for ledger storage.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the ledger or service layers.
type Store interface {
	Queries

	// InTx runs fn inside a transaction. The transaction commits when fn
	// returns nil and rolls back on any error or panic.
	InTx(ctx context.Context, fn func(ctx context.Context, q Queries) error) error

	// Close releases any resources held by the store.
	Close() error
}
