package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitbook/internal/apperr"
	"github.com/mmynk/splitbook/internal/config"
	"github.com/mmynk/splitbook/internal/models"
	"github.com/mmynk/splitbook/internal/storage"
)

// memUsers is an in-memory UserStorage.
type memUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]*models.User{}} }

func (m *memUsers) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return storage.ErrDuplicateEmail
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperr.NotFound("user", email)
}

func (m *memUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("user", id)
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{SecretKey: "test-secret", Algorithm: "HS256", TokenTTL: 15 * time.Minute}
}

func newTestAuthenticator(users UserStorage) *PasswordAuthenticator {
	a := NewPasswordAuthenticator(users)
	a.cost = bcrypt.MinCost
	return a
}

func TestPasswordAuthenticator_Register(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator(newMemUsers())

	user, err := a.Register(ctx, Registration{Email: " Alice@Example.com ", DisplayName: "Alice", Mobile: "555"}, "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice", user.DisplayName)
	assert.Equal(t, "555", user.Mobile)
	assert.NotEqual(t, "password123", user.PasswordHash)

	tests := []struct {
		name     string
		reg      Registration
		password string
		field    string
	}{
		{name: "duplicate email", reg: Registration{Email: "alice@example.com", DisplayName: "Other"}, password: "password123", field: "email"},
		{name: "short password", reg: Registration{Email: "bob@example.com", DisplayName: "Bob"}, password: "short", field: "password"},
		{name: "bad email", reg: Registration{Email: "not-an-email", DisplayName: "Bob"}, password: "password123", field: "email"},
		{name: "missing name", reg: Registration{Email: "bob@example.com"}, password: "password123", field: "display_name"},
		{name: "blank name", reg: Registration{Email: "bob@example.com", DisplayName: "   "}, password: "password123", field: "display_name"},
		{name: "missing email", reg: Registration{DisplayName: "Bob"}, password: "password123", field: "email"},
		{name: "long mobile", reg: Registration{Email: "bob@example.com", DisplayName: "Bob", Mobile: strings.Repeat("5", 40)}, password: "password123", field: "mobile"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Register(ctx, tt.reg, tt.password)
			require.ErrorIs(t, err, apperr.ErrValidation)
			var verr *apperr.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestPasswordAuthenticator_Authenticate(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator(newMemUsers())
	registered, err := a.Register(ctx, Registration{Email: "alice@example.com", DisplayName: "Alice"}, "password123")
	require.NoError(t, err)

	user, err := a.Authenticate(ctx, "ALICE@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = a.Authenticate(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.Authenticate(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestNewJWTManager(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.AuthConfig)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*config.AuthConfig) {}},
		{name: "HS512", mutate: func(c *config.AuthConfig) { c.Algorithm = "HS512" }},
		{name: "missing secret", mutate: func(c *config.AuthConfig) { c.SecretKey = "" }, wantErr: true},
		{name: "asymmetric algorithm", mutate: func(c *config.AuthConfig) { c.Algorithm = "RS256" }, wantErr: true},
		{name: "unknown algorithm", mutate: func(c *config.AuthConfig) { c.Algorithm = "nope" }, wantErr: true},
		{name: "zero ttl", mutate: func(c *config.AuthConfig) { c.TokenTTL = 0 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testAuthConfig()
			tt.mutate(&cfg)
			_, err := NewJWTManager(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m, err := NewJWTManager(testAuthConfig())
	require.NoError(t, err)
	user := models.NewUser("alice@example.com", "Alice", "", "hash")

	token, _, err := m.Generate(user)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, user.Email, claims.Email)
}

func TestJWTManager_Rejects(t *testing.T) {
	m, err := NewJWTManager(testAuthConfig())
	require.NoError(t, err)
	user := models.NewUser("alice@example.com", "Alice", "", "hash")

	t.Run("expired", func(t *testing.T) {
		issued := time.Now().Add(-time.Hour)
		old := *m
		old.now = func() time.Time { return issued }
		token, _, err := old.Generate(user)
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrUnauthenticated)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		cfg := testAuthConfig()
		cfg.SecretKey = "other-secret"
		other, err := NewJWTManager(cfg)
		require.NoError(t, err)
		token, _, err := other.Generate(user)
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("different algorithm", func(t *testing.T) {
		cfg := testAuthConfig()
		cfg.Algorithm = "HS384"
		other, err := NewJWTManager(cfg)
		require.NoError(t, err)
		token, _, err := other.Generate(user)
		require.NoError(t, err)

		_, err = m.Validate(token)
		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, ReasonInvalidToken, authErr.Reason)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Validate("not.a.token")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		reason Reason
	}{
		{header: "Bearer abc.def", want: "abc.def"},
		{header: "bearer abc.def", want: "abc.def"},
		{header: "", reason: ReasonMissing},
		{header: "   ", reason: ReasonMissing},
		{header: "Basic dXNlcjpwYXNz", reason: ReasonMalformed},
		{header: "Bearer", reason: ReasonMalformed},
		{header: "Bearer ", reason: ReasonMalformed},
	}
	for _, tt := range tests {
		t.Run(strings.ReplaceAll(tt.header, " ", "_"), func(t *testing.T) {
			got, err := BearerToken(tt.header)
			if tt.reason == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tt.reason, authErr.Reason)
		})
	}
}

func TestTokenResolver(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	m, err := NewJWTManager(testAuthConfig())
	require.NoError(t, err)
	resolver := NewTokenResolver(m, users)

	alice := models.NewUser("alice@example.com", "Alice", "", "hash")
	require.NoError(t, users.CreateUser(ctx, alice))
	token, _, err := m.Generate(alice)
	require.NoError(t, err)

	p, err := resolver.ResolvePrincipal(ctx, "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, &Principal{ID: alice.ID, Email: alice.Email, DisplayName: "Alice"}, p)

	ghost := models.NewUser("ghost@example.com", "Ghost", "", "hash")
	ghostToken, _, err := m.Generate(ghost)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		reason Reason
	}{
		{name: "missing", header: "", reason: ReasonMissing},
		{name: "malformed scheme", header: "Token " + token, reason: ReasonMalformed},
		{name: "bad signature", header: "Bearer " + token + "x", reason: ReasonInvalidToken},
		{name: "unknown subject", header: "Bearer " + ghostToken, reason: ReasonUnknownSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.ResolvePrincipal(ctx, tt.header)
			assert.ErrorIs(t, err, ErrUnauthenticated)
			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tt.reason, authErr.Reason)
		})
	}
}
