package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/splitbook/pkg/api"
)

const (
	// UserServiceName is the fully-qualified name of the UserService service.
	UserServiceName = "splitbook.v1.UserService"

	UserServiceGetCurrentUserProcedure = "/splitbook.v1.UserService/GetCurrentUser"
	UserServiceGetUserProcedure        = "/splitbook.v1.UserService/GetUser"
	UserServiceListUsersProcedure      = "/splitbook.v1.UserService/ListUsers"
)

// UserServiceHandler is implemented by the server. Every call requires a token.
type UserServiceHandler interface {
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
	GetUser(context.Context, *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error)
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
}

// NewUserServiceHandler builds an HTTP handler from the service implementation.
func NewUserServiceHandler(svc UserServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	current := connect.NewUnaryHandler(UserServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...)
	get := connect.NewUnaryHandler(UserServiceGetUserProcedure, svc.GetUser, opts...)
	list := connect.NewUnaryHandler(UserServiceListUsersProcedure, svc.ListUsers, opts...)
	return "/" + UserServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case UserServiceGetCurrentUserProcedure:
			current.ServeHTTP(w, r)
		case UserServiceGetUserProcedure:
			get.ServeHTTP(w, r)
		case UserServiceListUsersProcedure:
			list.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UserServiceClient is a client for the UserService service.
type UserServiceClient interface {
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
	GetUser(context.Context, *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error)
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
}

// NewUserServiceClient constructs a client for the UserService service.
func NewUserServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) UserServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	return &userServiceClient{
		current: connect.NewClient[api.GetCurrentUserRequest, api.GetCurrentUserResponse](httpClient, baseURL+UserServiceGetCurrentUserProcedure, opts...),
		get:     connect.NewClient[api.GetUserRequest, api.GetUserResponse](httpClient, baseURL+UserServiceGetUserProcedure, opts...),
		list:    connect.NewClient[api.ListUsersRequest, api.ListUsersResponse](httpClient, baseURL+UserServiceListUsersProcedure, opts...),
	}
}

type userServiceClient struct {
	current *connect.Client[api.GetCurrentUserRequest, api.GetCurrentUserResponse]
	get     *connect.Client[api.GetUserRequest, api.GetUserResponse]
	list    *connect.Client[api.ListUsersRequest, api.ListUsersResponse]
}

func (c *userServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return c.current.CallUnary(ctx, req)
}

func (c *userServiceClient) GetUser(ctx context.Context, req *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error) {
	return c.get.CallUnary(ctx, req)
}

func (c *userServiceClient) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	return c.list.CallUnary(ctx, req)
}
