package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitbook/internal/apperr"
	"github.com/mmynk/splitbook/internal/models"
)

const expenseColumns = `id, owner_id, amount::text, description, split_method, created_at`

func (q *queries) InsertExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	_, err := q.db.Exec(ctx,
		`INSERT INTO expenses (id, owner_id, amount, description, split_method, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		expense.ID, expense.OwnerID, expense.Amount.String(), expense.Description,
		string(expense.SplitMethod), expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

func (q *queries) InsertExpenseSplit(ctx context.Context, split *models.ExpenseSplit) error {
	if split.ID == "" {
		split.ID = uuid.New().String()
	}

	var percentage *string
	if split.Percentage.Valid {
		p := split.Percentage.Decimal.String()
		percentage = &p
	}

	_, err := q.db.Exec(ctx,
		`INSERT INTO expense_splits (id, expense_id, user_id, amount, percentage)
		 VALUES ($1, $2, $3, $4, $5)`,
		split.ID, split.ExpenseID, split.UserID, split.Amount.StringFixed(2), percentage,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense split: %w", err)
	}
	return nil
}

func (q *queries) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense, err := scanExpense(q.db.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, expenseID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("expense", expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := q.attachSplits(ctx, []*models.Expense{expense}); err != nil {
		return nil, err
	}
	return expense, nil
}

func (q *queries) ListExpensesByOwner(ctx context.Context, ownerID string) ([]*models.Expense, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE owner_id = $1 ORDER BY created_at, seq`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses for owner %s: %w", ownerID, err)
	}

	expenses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Expense, error) {
		return scanExpense(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan expenses: %w", err)
	}
	if expenses == nil {
		expenses = []*models.Expense{}
	}

	if err := q.attachSplits(ctx, expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (q *queries) attachSplits(ctx context.Context, expenses []*models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	byID := make(map[string]*models.Expense, len(expenses))
	ids := make([]string, len(expenses))
	for i, e := range expenses {
		byID[e.ID] = e
		ids[i] = e.ID
	}

	rows, err := q.db.Query(ctx,
		`SELECT id, expense_id, user_id, amount::text, percentage::text
		 FROM expense_splits WHERE expense_id = ANY($1) ORDER BY seq`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			split      models.ExpenseSplit
			amount     string
			percentage *string
		)
		if err := rows.Scan(&split.ID, &split.ExpenseID, &split.UserID, &amount, &percentage); err != nil {
			return fmt.Errorf("failed to scan expense split: %w", err)
		}
		if split.Amount, err = decimal.NewFromString(amount); err != nil {
			return fmt.Errorf("failed to parse split amount %q: %w", amount, err)
		}
		if percentage != nil {
			p, err := decimal.NewFromString(*percentage)
			if err != nil {
				return fmt.Errorf("failed to parse split percentage %q: %w", *percentage, err)
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

func scanExpense(row pgx.Row) (*models.Expense, error) {
	var (
		expense models.Expense
		amount  string
		method  string
	)
	if err := row.Scan(&expense.ID, &expense.OwnerID, &amount, &expense.Description, &method, &expense.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parsing amount %q: %w", amount, err)
	}
	expense.Amount = parsed
	expense.SplitMethod = models.SplitMethod(method)
	return &expense, nil
}
