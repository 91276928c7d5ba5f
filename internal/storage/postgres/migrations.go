package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied statement by statement on startup.
// seq columns give a stable insertion order independent of created_at.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		seq BIGINT GENERATED ALWAYS AS IDENTITY,
		email TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL,
		mobile TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		seq BIGINT GENERATED ALWAYS AS IDENTITY,
		owner_id TEXT NOT NULL REFERENCES users(id),
		amount NUMERIC NOT NULL CHECK (amount > 0),
		description TEXT NOT NULL,
		split_method TEXT NOT NULL CHECK (split_method IN ('equal', 'exact', 'percentage')),
		created_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS expense_splits (
		id TEXT PRIMARY KEY,
		seq BIGINT GENERATED ALWAYS AS IDENTITY,
		expense_id TEXT NOT NULL REFERENCES expenses(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL REFERENCES users(id),
		amount NUMERIC(14, 2) NOT NULL,
		percentage NUMERIC
	)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_owner_id ON expenses(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_expense_splits_expense_id ON expense_splits(expense_id)`,
	`CREATE INDEX IF NOT EXISTS idx_expense_splits_user_id ON expense_splits(user_id)`,
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
