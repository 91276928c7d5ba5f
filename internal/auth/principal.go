package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mmynk/splitbook/internal/apperr"
)

// ErrUnauthenticated matches every *AuthError via errors.Is.
var ErrUnauthenticated = errors.New("unauthenticated")

// Reason says why a bearer token could not be resolved.
type Reason string

const (
	ReasonMissing        Reason = "missing"
	ReasonMalformed      Reason = "malformed-scheme"
	ReasonInvalidToken   Reason = "invalid-or-expired-signature"
	ReasonUnknownSubject Reason = "unknown-subject"
)

// AuthError reports a request that could not be tied to a user.
type AuthError struct {
	Reason Reason
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return "unauthenticated: " + string(e.Reason)
	}
	return fmt.Sprintf("unauthenticated: %s: %v", e.Reason, e.Err)
}

func (e *AuthError) Is(target error) bool { return target == ErrUnauthenticated }

func (e *AuthError) Unwrap() error { return e.Err }

// Principal is the authenticated identity behind a request.
type Principal struct {
	ID          string
	Email       string
	DisplayName string
}

// PrincipalResolver turns an Authorization header value into a Principal.
// Failures are *AuthError.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, authorization string) (*Principal, error)
}

// TokenResolver resolves "Bearer <jwt>" headers against a JWTManager and
// confirms the subject still exists.
type TokenResolver struct {
	jwt   *JWTManager
	users UserStorage
}

var _ PrincipalResolver = (*TokenResolver)(nil)

// NewTokenResolver creates a resolver. users may be shared with the store.
func NewTokenResolver(jwtManager *JWTManager, users UserStorage) *TokenResolver {
	return &TokenResolver{jwt: jwtManager, users: users}
}

// ResolvePrincipal implements PrincipalResolver.
func (r *TokenResolver) ResolvePrincipal(ctx context.Context, authorization string) (*Principal, error) {
	token, err := BearerToken(authorization)
	if err != nil {
		return nil, err
	}

	claims, err := r.jwt.Validate(token)
	if err != nil {
		return nil, err
	}

	user, err := r.users.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, &AuthError{Reason: ReasonUnknownSubject, Err: err}
		}
		return nil, err
	}

	return &Principal{ID: user.ID, Email: user.Email, DisplayName: user.DisplayName}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(authorization string) (string, error) {
	if strings.TrimSpace(authorization) == "" {
		return "", &AuthError{Reason: ReasonMissing}
	}
	scheme, token, ok := strings.Cut(strings.TrimSpace(authorization), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", &AuthError{Reason: ReasonMalformed}
	}
	return strings.TrimSpace(token), nil
}
