package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitbook/internal/ledger"
	"github.com/mmynk/splitbook/internal/middleware"
	"github.com/mmynk/splitbook/pkg/api"
	"github.com/mmynk/splitbook/pkg/api/apiconnect"
)

var _ apiconnect.UserServiceHandler = (*UserService)(nil)

// UserService implements the UserService RPC interface.
type UserService struct {
	ledger *ledger.Service
	logger *slog.Logger
}

// NewUserService creates a UserService over the ledger.
func NewUserService(l *ledger.Service, logger *slog.Logger) *UserService {
	return &UserService{ledger: l, logger: logger}
}

// GetCurrentUser returns the authenticated user's profile.
func (s *UserService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, noPrincipal()
	}

	user, err := s.ledger.GetUser(ctx, userID)
	if err != nil {
		return nil, connectError(s.logger, "GetCurrentUser", err)
	}
	return connect.NewResponse(&api.GetCurrentUserResponse{User: toAPIUser(user)}), nil
}

// GetUser returns another user's public profile.
func (s *UserService) GetUser(ctx context.Context, req *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error) {
	if middleware.GetUserID(ctx) == "" {
		return nil, noPrincipal()
	}

	user, err := s.ledger.GetUser(ctx, req.Msg.UserID)
	if err != nil {
		return nil, connectError(s.logger, "GetUser", err)
	}
	return connect.NewResponse(&api.GetUserResponse{User: toAPIUser(user)}), nil
}

// ListUsers returns every registered user, so callers can pick participants.
func (s *UserService) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	if middleware.GetUserID(ctx) == "" {
		return nil, noPrincipal()
	}

	users, err := s.ledger.ListUsers(ctx)
	if err != nil {
		return nil, connectError(s.logger, "ListUsers", err)
	}
	out := make([]*api.User, len(users))
	for i, u := range users {
		out[i] = toAPIUser(u)
	}
	return connect.NewResponse(&api.ListUsersResponse{Users: out}), nil
}
