package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitbook/internal/calculator"
	"github.com/mmynk/splitbook/internal/ledger"
	"github.com/mmynk/splitbook/internal/middleware"
	"github.com/mmynk/splitbook/pkg/api"
	"github.com/mmynk/splitbook/pkg/api/apiconnect"
)

var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// ExpenseService implements the ExpenseService RPC interface.
type ExpenseService struct {
	ledger *ledger.Service
	logger *slog.Logger
}

// NewExpenseService creates an ExpenseService over the ledger.
func NewExpenseService(l *ledger.Service, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{ledger: l, logger: logger}
}

// CreateExpense records an expense owned by the authenticated user.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, noPrincipal()
	}

	participants := make([]calculator.Participant, len(req.Msg.Participants))
	for i, p := range req.Msg.Participants {
		participants[i] = calculator.Participant{
			UserID:     p.UserID,
			Amount:     p.Amount,
			Percentage: p.Percentage,
		}
	}

	expense, err := s.ledger.CreateExpense(ctx, ledger.CreateExpenseInput{
		OwnerID:      userID,
		Amount:       req.Msg.Amount,
		Description:  req.Msg.Description,
		SplitMethod:  req.Msg.SplitMethod,
		Participants: participants,
	})
	if err != nil {
		return nil, connectError(s.logger, "CreateExpense", err)
	}

	s.logger.Info("Expense created",
		"expense_id", expense.ID,
		"owner_id", userID,
		"amount", expense.Amount.String(),
		"split_method", expense.SplitMethod,
		"splits", len(expense.Splits),
	)
	return connect.NewResponse(&api.CreateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// ListUserExpenses returns the expenses the authenticated user owns.
func (s *ExpenseService) ListUserExpenses(ctx context.Context, req *connect.Request[api.ListUserExpensesRequest]) (*connect.Response[api.ListUserExpensesResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, noPrincipal()
	}

	expenses, err := s.ledger.GetUserExpenses(ctx, userID)
	if err != nil {
		return nil, connectError(s.logger, "ListUserExpenses", err)
	}
	return connect.NewResponse(&api.ListUserExpensesResponse{Expenses: toAPIExpenses(expenses)}), nil
}

// GetUserBalanceSheet returns the authenticated user's balance sheet.
func (s *ExpenseService) GetUserBalanceSheet(ctx context.Context, req *connect.Request[api.GetUserBalanceSheetRequest]) (*connect.Response[api.GetUserBalanceSheetResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, noPrincipal()
	}

	sheet, err := s.ledger.GetUserBalanceSheet(ctx, userID)
	if err != nil {
		return nil, connectError(s.logger, "GetUserBalanceSheet", err)
	}
	return connect.NewResponse(&api.GetUserBalanceSheetResponse{BalanceSheet: toAPIBalanceSheet(sheet)}), nil
}

// GetOverallBalanceSheet returns one balance sheet per user plus the grand total.
func (s *ExpenseService) GetOverallBalanceSheet(ctx context.Context, req *connect.Request[api.GetOverallBalanceSheetRequest]) (*connect.Response[api.GetOverallBalanceSheetResponse], error) {
	if middleware.GetUserID(ctx) == "" {
		return nil, noPrincipal()
	}

	sheets, err := s.ledger.GetOverallBalanceSheet(ctx)
	if err != nil {
		return nil, connectError(s.logger, "GetOverallBalanceSheet", err)
	}
	out := make([]*api.BalanceSheet, len(sheets))
	for i, sheet := range sheets {
		out[i] = toAPIBalanceSheet(sheet)
	}
	return connect.NewResponse(&api.GetOverallBalanceSheetResponse{
		BalanceSheets: out,
		TotalAmount:   calculator.OverallTotal(sheets),
	}), nil
}
