package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmynk/splitbook/internal/config"
	"github.com/mmynk/splitbook/internal/models"
)

// JWTManager handles JWT token generation and validation.
type JWTManager struct {
	secretKey     []byte
	method        jwt.SigningMethod
	tokenDuration time.Duration
	now           func() time.Time
}

// Claims represents the custom JWT claims for a user session.
// The subject claim carries the user ID.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// NewJWTManager creates a JWT manager from the auth settings.
// Only HMAC algorithms (HS256, HS384, HS512) are accepted.
func NewJWTManager(cfg config.AuthConfig) (*JWTManager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("auth: secret key is required")
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("auth: token ttl must be positive, got %s", cfg.TokenTTL)
	}
	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("auth: unsupported algorithm %q", cfg.Algorithm)
	}

	return &JWTManager{
		secretKey:     []byte(cfg.SecretKey),
		method:        method,
		tokenDuration: cfg.TokenTTL,
		now:           time.Now,
	}, nil
}

// Generate creates a new JWT token for the given user and reports when it
// expires.
func (m *JWTManager) Generate(user *models.User) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.tokenDuration)
	claims := &Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(m.method, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// Validate parses and validates a JWT token, returning the claims if valid.
// Every failure is an *AuthError with ReasonInvalidToken.
func (m *JWTManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			return m.secretKey, nil
		},
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, &AuthError{Reason: ReasonInvalidToken, Err: err}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, &AuthError{Reason: ReasonInvalidToken, Err: errors.New("token has no subject")}
	}

	return claims, nil
}
