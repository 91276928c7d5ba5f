package ledger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitbook/internal/apperr"
	"github.com/mmynk/splitbook/internal/calculator"
	"github.com/mmynk/splitbook/internal/metrics"
	"github.com/mmynk/splitbook/internal/models"
	"github.com/mmynk/splitbook/internal/storage/sqlite"
)

type fixture struct {
	svc     *Service
	metrics *metrics.Metrics
	alice   *models.User
	bob     *models.User
	charlie *models.User
}

func setup(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	f := &fixture{metrics: metrics.New(prometheus.NewRegistry())}
	f.svc = New(store, append([]Option{WithMetrics(f.metrics)}, opts...)...)

	ctx := context.Background()
	for _, u := range []**models.User{&f.alice, &f.bob, &f.charlie} {
		*u = models.NewUser(uuid.NewString()+"@example.com", "user", "", "hash")
		require.NoError(t, store.CreateUser(ctx, *u))
	}
	return f
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func some(s string) decimal.NullDecimal { return decimal.NewNullDecimal(d(s)) }

func TestCreateExpense(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	t.Run("equal split is persisted with its splits", func(t *testing.T) {
		expense, err := f.svc.CreateExpense(ctx, CreateExpenseInput{
			OwnerID:     f.alice.ID,
			Amount:      d("100.00"),
			Description: "Dinner",
			SplitMethod: "equal",
			Participants: []calculator.Participant{
				{UserID: f.alice.ID}, {UserID: f.bob.ID}, {UserID: f.charlie.ID},
			},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, expense.ID)
		require.Len(t, expense.Splits, 3)
		for _, s := range expense.Splits {
			assert.Equal(t, "33.33", s.Amount.StringFixed(2))
			assert.Equal(t, expense.ID, s.ExpenseID)
		}

		got, err := f.svc.GetExpense(ctx, expense.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SplitEqual, got.SplitMethod)
		assert.Len(t, got.Splits, 3)
	})

	t.Run("percentage split stores input percentages", func(t *testing.T) {
		expense, err := f.svc.CreateExpense(ctx, CreateExpenseInput{
			OwnerID:     f.bob.ID,
			Amount:      d("200.00"),
			Description: "Hotel",
			SplitMethod: "Percentage",
			Participants: []calculator.Participant{
				{UserID: f.alice.ID, Percentage: some("70")},
				{UserID: f.bob.ID, Percentage: some("30")},
			},
		})
		require.NoError(t, err)
		require.Len(t, expense.Splits, 2)
		assert.Equal(t, "140.00", expense.Splits[0].Amount.StringFixed(2))
		assert.True(t, expense.Splits[0].Percentage.Decimal.Equal(d("70")))
		assert.Equal(t, "60.00", expense.Splits[1].Amount.StringFixed(2))
	})

	t.Run("same participant twice is allowed", func(t *testing.T) {
		expense, err := f.svc.CreateExpense(ctx, CreateExpenseInput{
			OwnerID:      f.charlie.ID,
			Amount:       d("10.00"),
			SplitMethod:  "equal",
			Participants: []calculator.Participant{{UserID: f.bob.ID}, {UserID: f.bob.ID}},
		})
		require.NoError(t, err)
		assert.Len(t, expense.Splits, 2)
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.ExpensesCreated.WithLabelValues("equal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ExpensesCreated.WithLabelValues("percentage")))
}

func TestCreateExpense_RejectsWithoutWriting(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   CreateExpenseInput
		wantErr error
	}{
		{
			name: "exact amounts do not match total",
			input: CreateExpenseInput{
				Amount:      d("100.00"),
				SplitMethod: "exact",
				Participants: []calculator.Participant{
					{UserID: "bob", Amount: some("60.00")},
					{UserID: "charlie", Amount: some("39.99")},
				},
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "percentages do not add up",
			input: CreateExpenseInput{
				Amount:      d("100.00"),
				SplitMethod: "percentage",
				Participants: []calculator.Participant{
					{UserID: "bob", Percentage: some("50")},
					{UserID: "charlie", Percentage: some("40")},
				},
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "unknown split method",
			input: CreateExpenseInput{
				Amount:       d("10.00"),
				SplitMethod:  "shares",
				Participants: []calculator.Participant{{UserID: "bob"}},
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "negative amount",
			input: CreateExpenseInput{
				Amount:       d("-5"),
				SplitMethod:  "equal",
				Participants: []calculator.Participant{{UserID: "bob"}},
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "sub-cent amount",
			input: CreateExpenseInput{
				Amount:       d("0.004"),
				SplitMethod:  "equal",
				Participants: []calculator.Participant{{UserID: "bob"}},
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "amount above maximum",
			input: CreateExpenseInput{
				Amount:       d("1e10000000"),
				SplitMethod:  "equal",
				Participants: []calculator.Participant{{UserID: "bob"}, {UserID: "charlie"}},
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "negative percentage",
			input: CreateExpenseInput{
				Amount:      d("100.00"),
				SplitMethod: "percentage",
				Participants: []calculator.Participant{
					{UserID: "bob", Percentage: some("150")},
					{UserID: "charlie", Percentage: some("-50")},
				},
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "no participants",
			input: CreateExpenseInput{
				Amount:      d("5"),
				SplitMethod: "equal",
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "unknown participant",
			input: CreateExpenseInput{
				Amount:       d("10.00"),
				SplitMethod:  "equal",
				Participants: []calculator.Participant{{UserID: "bob"}, {UserID: "ghost"}},
			},
			wantErr: apperr.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.input
			in.OwnerID = f.alice.ID
			for i, p := range in.Participants {
				switch p.UserID {
				case "bob":
					in.Participants[i].UserID = f.bob.ID
				case "charlie":
					in.Participants[i].UserID = f.charlie.ID
				}
			}

			expense, err := f.svc.CreateExpense(ctx, in)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, expense)

			owned, err := f.svc.GetUserExpenses(ctx, f.alice.ID)
			require.NoError(t, err)
			assert.Empty(t, owned)
		})
	}

	t.Run("unknown owner", func(t *testing.T) {
		_, err := f.svc.CreateExpense(ctx, CreateExpenseInput{
			OwnerID:      "ghost",
			Amount:       d("10.00"),
			SplitMethod:  "equal",
			Participants: []calculator.Participant{{UserID: f.bob.ID}},
		})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SplitRejections.WithLabelValues("exact")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SplitRejections.WithLabelValues("unknown")))
}

func TestCreateExpense_RemainderDistribution(t *testing.T) {
	f := setup(t, WithRemainderDistribution())

	expense, err := f.svc.CreateExpense(context.Background(), CreateExpenseInput{
		OwnerID:     f.alice.ID,
		Amount:      d("100.00"),
		SplitMethod: "equal",
		Participants: []calculator.Participant{
			{UserID: f.alice.ID}, {UserID: f.bob.ID}, {UserID: f.charlie.ID},
		},
	})
	require.NoError(t, err)
	assert.True(t, expense.SplitTotal().Equal(d("100.00")))
}

func TestBalanceSheets(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	record := func(owner *models.User, amount string) {
		t.Helper()
		_, err := f.svc.CreateExpense(ctx, CreateExpenseInput{
			OwnerID:      owner.ID,
			Amount:       d(amount),
			Description:  "item",
			SplitMethod:  "equal",
			Participants: []calculator.Participant{{UserID: f.alice.ID}, {UserID: f.bob.ID}},
		})
		require.NoError(t, err)
	}
	record(f.alice, "100.00")
	record(f.alice, "20.50")
	record(f.bob, "9.99")

	t.Run("user sheet sums owned expenses", func(t *testing.T) {
		sheet, err := f.svc.GetUserBalanceSheet(ctx, f.alice.ID)
		require.NoError(t, err)
		assert.Equal(t, f.alice.ID, sheet.UserID)
		assert.Equal(t, "120.50", sheet.TotalAmount.StringFixed(2))
		assert.Len(t, sheet.Details, 2)
	})

	t.Run("participant-only user has an empty sheet", func(t *testing.T) {
		sheet, err := f.svc.GetUserBalanceSheet(ctx, f.charlie.ID)
		require.NoError(t, err)
		assert.True(t, sheet.TotalAmount.IsZero())
		assert.NotNil(t, sheet.Details)
		assert.Empty(t, sheet.Details)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.svc.GetUserBalanceSheet(ctx, "ghost")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("overall sheet covers every user and sums to all expenses", func(t *testing.T) {
		sheets, err := f.svc.GetOverallBalanceSheet(ctx)
		require.NoError(t, err)
		require.Len(t, sheets, 3)
		assert.Equal(t, f.alice.ID, sheets[0].UserID)
		assert.Equal(t, f.bob.ID, sheets[1].UserID)
		assert.Equal(t, f.charlie.ID, sheets[2].UserID)
		assert.Equal(t, "130.49", calculator.OverallTotal(sheets).StringFixed(2))
	})

	t.Run("reads are idempotent", func(t *testing.T) {
		first, err := f.svc.GetOverallBalanceSheet(ctx)
		require.NoError(t, err)
		second, err := f.svc.GetOverallBalanceSheet(ctx)
		require.NoError(t, err)
		require.Len(t, second, len(first))
		for i := range first {
			assert.Equal(t, first[i].UserID, second[i].UserID)
			assert.True(t, first[i].TotalAmount.Equal(second[i].TotalAmount))
			assert.Len(t, second[i].Details, len(first[i].Details))
		}
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.BalanceSheetRead.WithLabelValues("user")))
}
