package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/splitbook/pkg/api"
)

const (
	// ExpenseServiceName is the fully-qualified name of the ExpenseService service.
	ExpenseServiceName = "splitbook.v1.ExpenseService"

	ExpenseServiceCreateExpenseProcedure          = "/splitbook.v1.ExpenseService/CreateExpense"
	ExpenseServiceListUserExpensesProcedure       = "/splitbook.v1.ExpenseService/ListUserExpenses"
	ExpenseServiceGetUserBalanceSheetProcedure    = "/splitbook.v1.ExpenseService/GetUserBalanceSheet"
	ExpenseServiceGetOverallBalanceSheetProcedure = "/splitbook.v1.ExpenseService/GetOverallBalanceSheet"
)

// ExpenseServiceHandler is implemented by the server. Every call requires a token.
type ExpenseServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	ListUserExpenses(context.Context, *connect.Request[api.ListUserExpensesRequest]) (*connect.Response[api.ListUserExpensesResponse], error)
	GetUserBalanceSheet(context.Context, *connect.Request[api.GetUserBalanceSheetRequest]) (*connect.Response[api.GetUserBalanceSheetResponse], error)
	GetOverallBalanceSheet(context.Context, *connect.Request[api.GetOverallBalanceSheetRequest]) (*connect.Response[api.GetOverallBalanceSheetResponse], error)
}

// NewExpenseServiceHandler builds an HTTP handler from the service implementation.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	create := connect.NewUnaryHandler(ExpenseServiceCreateExpenseProcedure, svc.CreateExpense, opts...)
	list := connect.NewUnaryHandler(ExpenseServiceListUserExpensesProcedure, svc.ListUserExpenses, opts...)
	userSheet := connect.NewUnaryHandler(ExpenseServiceGetUserBalanceSheetProcedure, svc.GetUserBalanceSheet, opts...)
	overallSheet := connect.NewUnaryHandler(ExpenseServiceGetOverallBalanceSheetProcedure, svc.GetOverallBalanceSheet, opts...)
	return "/" + ExpenseServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ExpenseServiceCreateExpenseProcedure:
			create.ServeHTTP(w, r)
		case ExpenseServiceListUserExpensesProcedure:
			list.ServeHTTP(w, r)
		case ExpenseServiceGetUserBalanceSheetProcedure:
			userSheet.ServeHTTP(w, r)
		case ExpenseServiceGetOverallBalanceSheetProcedure:
			overallSheet.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// ExpenseServiceClient is a client for the ExpenseService service.
type ExpenseServiceClient interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	ListUserExpenses(context.Context, *connect.Request[api.ListUserExpensesRequest]) (*connect.Response[api.ListUserExpensesResponse], error)
	GetUserBalanceSheet(context.Context, *connect.Request[api.GetUserBalanceSheetRequest]) (*connect.Response[api.GetUserBalanceSheetResponse], error)
	GetOverallBalanceSheet(context.Context, *connect.Request[api.GetOverallBalanceSheetRequest]) (*connect.Response[api.GetOverallBalanceSheetResponse], error)
}

// NewExpenseServiceClient constructs a client for the ExpenseService service.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	return &expenseServiceClient{
		create:       connect.NewClient[api.CreateExpenseRequest, api.CreateExpenseResponse](httpClient, baseURL+ExpenseServiceCreateExpenseProcedure, opts...),
		list:         connect.NewClient[api.ListUserExpensesRequest, api.ListUserExpensesResponse](httpClient, baseURL+ExpenseServiceListUserExpensesProcedure, opts...),
		userSheet:    connect.NewClient[api.GetUserBalanceSheetRequest, api.GetUserBalanceSheetResponse](httpClient, baseURL+ExpenseServiceGetUserBalanceSheetProcedure, opts...),
		overallSheet: connect.NewClient[api.GetOverallBalanceSheetRequest, api.GetOverallBalanceSheetResponse](httpClient, baseURL+ExpenseServiceGetOverallBalanceSheetProcedure, opts...),
	}
}

type expenseServiceClient struct {
	create       *connect.Client[api.CreateExpenseRequest, api.CreateExpenseResponse]
	list         *connect.Client[api.ListUserExpensesRequest, api.ListUserExpensesResponse]
	userSheet    *connect.Client[api.GetUserBalanceSheetRequest, api.GetUserBalanceSheetResponse]
	overallSheet *connect.Client[api.GetOverallBalanceSheetRequest, api.GetOverallBalanceSheetResponse]
}

func (c *expenseServiceClient) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return c.create.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListUserExpenses(ctx context.Context, req *connect.Request[api.ListUserExpensesRequest]) (*connect.Response[api.ListUserExpensesResponse], error) {
	return c.list.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetUserBalanceSheet(ctx context.Context, req *connect.Request[api.GetUserBalanceSheetRequest]) (*connect.Response[api.GetUserBalanceSheetResponse], error) {
	return c.userSheet.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetOverallBalanceSheet(ctx context.Context, req *connect.Request[api.GetOverallBalanceSheetRequest]) (*connect.Response[api.GetOverallBalanceSheetResponse], error) {
	return c.overallSheet.CallUnary(ctx, req)
}
