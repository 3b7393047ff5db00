package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/ryuqq/authhub/internal/errors"
	identityDomain "github.com/ryuqq/authhub/internal/identity/domain"
	identityService "github.com/ryuqq/authhub/internal/identity/service"
)

// identityUseCase implements IdentityUseCase.
type identityUseCase struct {
	repository UserRepository
	passwords  identityService.PasswordService
	logger     *slog.Logger
}

// NewIdentityUseCase creates an IdentityUseCase.
func NewIdentityUseCase(
	repository UserRepository,
	passwords identityService.PasswordService,
	logger *slog.Logger,
) IdentityUseCase {
	return &identityUseCase{
		repository: repository,
		passwords:  passwords,
		logger:     logger,
	}
}

// Register validates input, hashes the password, and creates the user.
func (i *identityUseCase) Register(
	ctx context.Context,
	input *identityDomain.RegisterInput,
) (*identityDomain.User, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := i.repository.GetByUsername(ctx, input.Username); err == nil {
		return nil, identityDomain.ErrUsernameTaken
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := i.passwords.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate user ID")
	}

	user := &identityDomain.User{
		ID:             id,
		Username:       input.Username,
		PasswordHash:   passwordHash,
		TenantID:       input.TenantID,
		OrganizationID: input.OrganizationID,
		Roles:          input.Roles,
		Permissions:    input.Permissions,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}

	if err := i.repository.Create(ctx, user); err != nil {
		return nil, err
	}

	i.logger.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("tenant_id", user.TenantID))

	return user, nil
}

// VerifyCredentials checks a username/password pair.
func (i *identityUseCase) VerifyCredentials(
	ctx context.Context,
	username, password string,
) (*identityDomain.User, error) {
	user, err := i.repository.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, identityDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive || !i.passwords.Compare(password, user.PasswordHash) {
		return nil, identityDomain.ErrInvalidCredentials
	}

	return user, nil
}

// Get resolves a user by its string ID.
func (i *identityUseCase) Get(ctx context.Context, userID string) (*identityDomain.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, identityDomain.ErrUserNotFound
	}
	return i.repository.GetByID(ctx, id)
}
