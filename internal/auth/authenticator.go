package auth

import (
	"context"

	"github.com/mmynk/splitbook/internal/models"
)

// Registration is the profile supplied when creating an account.
type Registration struct {
	Email       string
	DisplayName string
	Mobile      string
}

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password, passkeys, OAuth, etc.)
// without changing the service layer code.
type Authenticator interface {
	// Register creates a new user account with the given profile and credential.
	// A taken email or a weak credential is an *apperr.ValidationError.
	Register(ctx context.Context, reg Registration, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	// Returns ErrInvalidCredentials if authentication fails.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
