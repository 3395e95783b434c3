package auth

import (
	"context"

	"github.com/splittab/splittab/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods
// (password, OAuth, etc.) without changing the handler code.
type Authenticator interface {
	// Register creates a new account. Role must be customer or vendor;
	// vendorName is required for vendors and ignored for customers.
	Register(ctx context.Context, username, email, credential, role, vendorName string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if
	// successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the
	// implementation's requirements.
	ValidateCredential(credential string) error
}
