package middleware

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/splitbook/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// PrincipalKey is the context key for the authenticated principal.
const PrincipalKey contextKey = "principal"

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *auth.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// GetPrincipal extracts the principal from the context.
// Returns nil if the request was not authenticated.
func GetPrincipal(ctx context.Context) *auth.Principal {
	p, _ := ctx.Value(PrincipalKey).(*auth.Principal)
	return p
}

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	if p := GetPrincipal(ctx); p != nil {
		return p.ID
	}
	return ""
}

// RequireAuth returns an interceptor that resolves the Authorization header
// into a principal and rejects the call before the handler runs when that
// fails.
func RequireAuth(resolver auth.PrincipalResolver) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			p, err := resolver.ResolvePrincipal(ctx, req.Header().Get("Authorization"))
			if err != nil {
				if errors.Is(err, auth.ErrUnauthenticated) {
					return nil, connect.NewError(connect.CodeUnauthenticated, err)
				}
				return nil, connect.NewError(connect.CodeInternal, err)
			}
			return next(WithPrincipal(ctx, p), req)
		}
	}
}

// RequireAuthHTTP is RequireAuth for plain HTTP routes. Failures are written
// as JSON errors with status 401, or 500 when the lookup itself failed.
func RequireAuthHTTP(resolver auth.PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := resolver.ResolvePrincipal(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				status := http.StatusInternalServerError
				if errors.Is(err, auth.ErrUnauthenticated) {
					status = http.StatusUnauthorized
					w.Header().Set("WWW-Authenticate", "Bearer")
				}
				WriteError(w, status, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}
