package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitbook/internal/auth"
	"github.com/mmynk/splitbook/internal/config"
	"github.com/mmynk/splitbook/internal/ledger"
	"github.com/mmynk/splitbook/internal/middleware"
	"github.com/mmynk/splitbook/internal/storage/sqlite"
	"github.com/mmynk/splitbook/pkg/api"
	"github.com/mmynk/splitbook/pkg/api/apiconnect"
)

// testClients bundles typed clients for a running test server.
type testClients struct {
	auth    apiconnect.AuthServiceClient
	users   apiconnect.UserServiceClient
	expense apiconnect.ExpenseServiceClient
}

// setupTestServer starts all three services against a temporary SQLite
// database, with the real token interceptor in front of the protected ones.
func setupTestServer(t *testing.T) testClients {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	jwtManager, err := auth.NewJWTManager(config.AuthConfig{
		SecretKey: "test-secret",
		Algorithm: "HS256",
		TokenTTL:  time.Hour,
	})
	if err != nil {
		t.Fatalf("failed to create jwt manager: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := ledger.New(store)
	authInterceptor := connect.WithInterceptors(middleware.RequireAuth(auth.NewTokenResolver(jwtManager, store)))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, logger)))
	mux.Handle(apiconnect.NewUserServiceHandler(NewUserService(l, logger), authInterceptor))
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(l, logger), authInterceptor))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return testClients{
		auth:    apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		users:   apiconnect.NewUserServiceClient(http.DefaultClient, server.URL),
		expense: apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
	}
}

// registeredUser is an account created through the AuthService.
type registeredUser struct {
	*api.User
	token string
}

func register(t *testing.T, c testClients, email, name string) registeredUser {
	t.Helper()
	resp, err := c.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: name,
		Password:    "password123",
	}))
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", email, err)
	}
	return registeredUser{User: resp.Msg.User, token: resp.Msg.Token.AccessToken}
}

// as returns req with u's bearer token attached.
func as[T any](u registeredUser, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+u.token)
	return req
}
