package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitbook/internal/apperr"
	"github.com/mmynk/splitbook/internal/models"
	"github.com/mmynk/splitbook/internal/storage"
)

// newTestStore connects to the database named by SPLITBOOK_TEST_POSTGRES_DSN.
// Tests are skipped when it is unset.
func newTestStore(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv("SPLITBOOK_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SPLITBOOK_TEST_POSTGRES_DSN not set")
	}
	store, err := New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func createUser(t *testing.T, q storage.Queries) *models.User {
	t.Helper()
	user := models.NewUser(uuid.NewString()+"@example.com", "Test", "", "hash")
	require.NoError(t, q.CreateUser(context.Background(), user))
	return user
}

func TestPostgresStore_Expenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, store)
	bob := createUser(t, store)

	expense := &models.Expense{
		OwnerID:     alice.ID,
		Amount:      decimal.RequireFromString("100.00"),
		Description: "Groceries",
		SplitMethod: models.SplitExact,
	}
	err := store.InTx(ctx, func(ctx context.Context, q storage.Queries) error {
		if err := q.InsertExpense(ctx, expense); err != nil {
			return err
		}
		for _, s := range []models.ExpenseSplit{
			{UserID: alice.ID, Amount: decimal.RequireFromString("60.00")},
			{UserID: bob.ID, Amount: decimal.RequireFromString("40.00")},
		} {
			s.ExpenseID = expense.ID
			if err := q.InsertExpenseSplit(ctx, &s); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	got, err := store.GetExpense(ctx, expense.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(100)))
	require.Len(t, got.Splits, 2)
	assert.Equal(t, alice.ID, got.Splits[0].UserID)
	assert.Equal(t, "40.00", got.Splits[1].Amount.StringFixed(2))
	assert.False(t, got.Splits[1].Percentage.Valid)

	list, err := store.ListExpensesByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, expense.ID, list[0].ID)

	empty, err := store.ListExpensesByOwner(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPostgresStore_RollsBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, store)

	boom := errors.New("boom")
	var id string
	err := store.InTx(ctx, func(ctx context.Context, q storage.Queries) error {
		e := &models.Expense{OwnerID: alice.ID, Amount: decimal.NewFromInt(5), Description: "x", SplitMethod: models.SplitEqual}
		if err := q.InsertExpense(ctx, e); err != nil {
			return err
		}
		id = e.ID
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.GetExpense(ctx, id)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestPostgresStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, store)

	got, err := store.GetUserByEmail(ctx, alice.Email)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = store.GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	dup := models.NewUser(alice.Email, "dup", "", "hash")
	assert.ErrorIs(t, store.CreateUser(ctx, dup), storage.ErrDuplicateEmail)

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, users)
}
