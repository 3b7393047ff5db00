// Package usecase defines business logic for the user directory.
package usecase

import (
	"context"

	"github.com/google/uuid"

	identityDomain "github.com/ryuqq/authhub/internal/identity/domain"
)

// UserRepository defines persistence operations for directory users.
// Implementations must support transaction-aware operations via context propagation.
type UserRepository interface {
	// Create stores a new user in the repository.
	Create(ctx context.Context, user *identityDomain.User) error

	// GetByUsername retrieves a user by login name. Returns ErrUserNotFound if not found.
	GetByUsername(ctx context.Context, username string) (*identityDomain.User, error)

	// GetByID retrieves a user by ID. Returns ErrUserNotFound if not found.
	GetByID(ctx context.Context, userID uuid.UUID) (*identityDomain.User, error)
}

// IdentityUseCase turns credentials and user IDs into resolved identities.
type IdentityUseCase interface {
	// Register validates input, hashes the password, and creates the user.
	Register(ctx context.Context, input *identityDomain.RegisterInput) (*identityDomain.User, error)

	// VerifyCredentials checks a username/password pair and returns the user.
	// A wrong password, unknown username, or inactive user all report
	// ErrInvalidCredentials, with no distinction for the caller.
	VerifyCredentials(ctx context.Context, username, password string) (*identityDomain.User, error)

	// Get resolves a user by its string ID, with roles and permissions current
	// as of the call, not as of token issuance.
	Get(ctx context.Context, userID string) (*identityDomain.User, error)
}
