package auth

import (
	"context"

	"github.com/mmynk/phonebook/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping the credential scheme without changing
// the callers.
type Authenticator interface {
	// Register creates a new user account with the given username and credential.
	Register(ctx context.Context, username, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, username, credential string) (*models.User, error)

	// ChangePassword verifies the current credential and replaces it.
	ChangePassword(ctx context.Context, username, current, replacement string) error

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
