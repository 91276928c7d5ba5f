// Package ledger is the transport-independent surface for recording shared
// expenses and reading balance sheets. Handlers call it with an already
// authenticated user id; it never sees tokens.
package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitbook/internal/apperr"
	"github.com/mmynk/splitbook/internal/calculator"
	"github.com/mmynk/splitbook/internal/metrics"
	"github.com/mmynk/splitbook/internal/models"
	"github.com/mmynk/splitbook/internal/storage"
)

// Service records expenses and derives balance sheets from a Store.
type Service struct {
	store     storage.Store
	metrics   *metrics.Metrics
	splitOpts []calculator.Option
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records expense and balance counters on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithRemainderDistribution makes equal splits add up to the expense total.
// See calculator.WithRemainderDistribution.
func WithRemainderDistribution() Option {
	return func(s *Service) {
		s.splitOpts = append(s.splitOpts, calculator.WithRemainderDistribution())
	}
}

// New creates a Service backed by store.
func New(store storage.Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateExpenseInput carries the caller's request to record an expense.
type CreateExpenseInput struct {
	OwnerID      string
	Amount       decimal.Decimal
	Description  string
	SplitMethod  string
	Participants []calculator.Participant
}

// CreateExpense validates the split instructions and, only if they are
// consistent with the total, writes the expense and all of its splits in a
// single transaction. A failed call leaves nothing behind.
func (s *Service) CreateExpense(ctx context.Context, in CreateExpenseInput) (*models.Expense, error) {
	method, err := models.ParseSplitMethod(in.SplitMethod)
	if err != nil {
		s.metrics.SplitRejected("unknown")
		return nil, apperr.Validation("split_method", "%v", err)
	}

	shares, err := calculator.ComputeSplits(in.Amount, method, in.Participants, s.splitOpts...)
	if err != nil {
		s.metrics.SplitRejected(method.String())
		return nil, err
	}

	expense := &models.Expense{
		OwnerID:     in.OwnerID,
		Amount:      in.Amount,
		Description: in.Description,
		SplitMethod: method,
	}

	err = s.store.InTx(ctx, func(ctx context.Context, q storage.Queries) error {
		if err := s.requireUsers(ctx, q, in.OwnerID, shares); err != nil {
			return err
		}

		if err := q.InsertExpense(ctx, expense); err != nil {
			return err
		}

		splits := make([]models.ExpenseSplit, 0, len(shares))
		for _, share := range shares {
			split := models.ExpenseSplit{
				ExpenseID:  expense.ID,
				UserID:     share.UserID,
				Amount:     share.Amount,
				Percentage: share.Percentage,
			}
			if err := q.InsertExpenseSplit(ctx, &split); err != nil {
				return err
			}
			splits = append(splits, split)
		}
		expense.Splits = splits
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	s.metrics.ExpenseCreated(method.String())
	return expense, nil
}

// requireUsers checks that the owner and every participant exist.
func (s *Service) requireUsers(ctx context.Context, q storage.Queries, ownerID string, shares []calculator.Share) error {
	seen := make(map[string]bool, len(shares)+1)
	check := func(id string) error {
		if seen[id] {
			return nil
		}
		seen[id] = true
		_, err := q.GetUserByID(ctx, id)
		return err
	}

	if err := check(ownerID); err != nil {
		return err
	}
	for _, share := range shares {
		if err := check(share.UserID); err != nil {
			return err
		}
	}
	return nil
}

// GetExpense returns one expense with its splits.
func (s *Service) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	return s.store.GetExpense(ctx, expenseID)
}

// GetUserExpenses returns the expenses userID recorded, oldest first.
func (s *Service) GetUserExpenses(ctx context.Context, userID string) ([]*models.Expense, error) {
	return s.store.ListExpensesByOwner(ctx, userID)
}

// GetUser looks up a user by id.
func (s *Service) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.store.GetUserByID(ctx, userID)
}

// ListUsers returns all users in creation order.
func (s *Service) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.store.ListUsers(ctx)
}
