package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitbook/internal/apperr"
	"github.com/mmynk/splitbook/internal/models"
)

// InsertExpense persists the expense row (not its splits).
func (q *queries) InsertExpense(ctx context.Context, expense *models.Expense) error {
	// Generate ID if not set
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO expenses (id, owner_id, amount, description, split_method, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.OwnerID, expense.Amount.String(), expense.Description,
		string(expense.SplitMethod), expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	return nil
}

// InsertExpenseSplit persists one participant's share.
func (q *queries) InsertExpenseSplit(ctx context.Context, split *models.ExpenseSplit) error {
	if split.ID == "" {
		split.ID = uuid.New().String()
	}

	var percentage any
	if split.Percentage.Valid {
		percentage = split.Percentage.Decimal.String()
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO expense_splits (id, expense_id, user_id, amount, percentage)
		 VALUES (?, ?, ?, ?, ?)`,
		split.ID, split.ExpenseID, split.UserID, split.Amount.StringFixed(2), percentage,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense split: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID, including its splits.
func (q *queries) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	var method string

	err := q.db.QueryRowContext(ctx,
		`SELECT id, owner_id, amount, description, split_method, created_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(&expense.ID, &expense.OwnerID, &expense.Amount, &expense.Description, &method, &expense.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("expense", expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	expense.SplitMethod = models.SplitMethod(method)

	if err := q.attachSplits(ctx, []*models.Expense{expense}); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpensesByOwner retrieves all expenses recorded by ownerID, oldest first.
func (q *queries) ListExpensesByOwner(ctx context.Context, ownerID string) ([]*models.Expense, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, owner_id, amount, description, split_method, created_at
		 FROM expenses WHERE owner_id = ? ORDER BY created_at, rowid`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by owner: %w", err)
	}
	defer rows.Close()

	expenses := []*models.Expense{}
	for rows.Next() {
		expense := &models.Expense{}
		var method string
		if err := rows.Scan(&expense.ID, &expense.OwnerID, &expense.Amount, &expense.Description,
			&method, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.SplitMethod = models.SplitMethod(method)
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	rows.Close()

	if err := q.attachSplits(ctx, expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// attachSplits loads the splits of every expense in one query and assigns
// them in insertion order.
func (q *queries) attachSplits(ctx context.Context, expenses []*models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	byID := make(map[string]*models.Expense, len(expenses))
	args := make([]any, len(expenses))
	for i, e := range expenses {
		byID[e.ID] = e
		args[i] = e.ID
	}

	rows, err := q.db.QueryContext(ctx,
		`SELECT id, expense_id, user_id, amount, percentage
		 FROM expense_splits
		 WHERE expense_id IN (?`+repeatPlaceholder(len(expenses)-1)+`)
		 ORDER BY rowid`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var split models.ExpenseSplit
		var percentage sql.NullString
		if err := rows.Scan(&split.ID, &split.ExpenseID, &split.UserID, &split.Amount, &percentage); err != nil {
			return fmt.Errorf("failed to scan expense split: %w", err)
		}
		if percentage.Valid {
			p, err := decimal.NewFromString(percentage.String)
			if err != nil {
				return fmt.Errorf("failed to parse split percentage %q: %w", percentage.String, err)
			}
			split.Percentage = decimal.NewNullDecimal(p)
		}
		if e, ok := byID[split.ExpenseID]; ok {
			e.Splits = append(e.Splits, split)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expense splits: %w", err)
	}
	return nil
}
