package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ryuqq/authhub/internal/errors"
	identityDomain "github.com/ryuqq/authhub/internal/identity/domain"
	revocationRepository "github.com/ryuqq/authhub/internal/revocation/repository"
	revocationUseCase "github.com/ryuqq/authhub/internal/revocation/usecase"
	tokenDomain "github.com/ryuqq/authhub/internal/token/domain"
	tokenService "github.com/ryuqq/authhub/internal/token/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockIdentityUseCase is a mock implementation of identity usecase for testing.
type mockIdentityUseCase struct {
	mock.Mock
}

func (m *mockIdentityUseCase) Register(
	ctx context.Context,
	input *identityDomain.RegisterInput,
) (*identityDomain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.User), args.Error(1)
}

func (m *mockIdentityUseCase) VerifyCredentials(
	ctx context.Context,
	username, password string,
) (*identityDomain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.User), args.Error(1)
}

func (m *mockIdentityUseCase) Get(
	ctx context.Context,
	userID string,
) (*identityDomain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.User), args.Error(1)
}

// mockRevocationUseCase is a mock implementation of RevocationUseCase for testing.
type mockRevocationUseCase struct {
	mock.Mock
}

func (m *mockRevocationUseCase) Revoke(
	ctx context.Context,
	jti string,
	expiresAt time.Time,
) error {
	args := m.Called(ctx, jti, expiresAt)
	return args.Error(0)
}

func (m *mockRevocationUseCase) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

func newTestUser() *identityDomain.User {
	return &identityDomain.User{
		ID:             uuid.New(),
		Username:       "alice",
		TenantID:       "tenant-1",
		OrganizationID: "org-1",
		Roles:          []string{"ADMIN"},
		Permissions:    []string{"user:write"},
		IsActive:       true,
	}
}

func newTestUseCase(
	identity *mockIdentityUseCase,
	revocation revocationUseCase.RevocationUseCase,
) TokenUseCase {
	return NewTokenUseCase(
		identity,
		tokenService.NewJWTService("test-secret-key", "authhub-test"),
		revocation,
		30*time.Minute,
		14*24*time.Hour,
		testLogger(),
	)
}

func TestTokenUseCase_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		user := newTestUser()
		identity := &mockIdentityUseCase{}
		identity.On("VerifyCredentials", ctx, "alice", "secret").Return(user, nil).Once()

		uc := newTestUseCase(identity, &mockRevocationUseCase{})
		pair, err := uc.Login(ctx, &tokenDomain.LoginInput{Username: "alice", Password: "secret"})

		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
		assert.Equal(t, "Bearer", pair.TokenType)
		assert.Equal(t, int64(1800), pair.ExpiresIn)
		assert.Equal(t, int64(1209600), pair.RefreshExpiresIn)
		identity.AssertExpectations(t)
	})

	t.Run("Error_BadCredentials", func(t *testing.T) {
		identity := &mockIdentityUseCase{}
		identity.On("VerifyCredentials", ctx, "alice", "wrong").
			Return(nil, identityDomain.ErrInvalidCredentials).Once()

		uc := newTestUseCase(identity, &mockRevocationUseCase{})
		_, err := uc.Login(ctx, &tokenDomain.LoginInput{Username: "alice", Password: "wrong"})

		assert.ErrorIs(t, err, identityDomain.ErrInvalidCredentials)
	})

	t.Run("Error_MissingFields", func(t *testing.T) {
		uc := newTestUseCase(&mockIdentityUseCase{}, &mockRevocationUseCase{})
		_, err := uc.Login(ctx, &tokenDomain.LoginInput{})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestTokenUseCase_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RotatesAndRevokesOldToken", func(t *testing.T) {
		user := newTestUser()
		identity := &mockIdentityUseCase{}
		identity.On("VerifyCredentials", ctx, "alice", "secret").Return(user, nil).Once()
		identity.On("Get", ctx, user.ID.String()).Return(user, nil).Once()

		revocation := &mockRevocationUseCase{}
		revocation.On("IsRevoked", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
		revocation.On("Revoke", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
			Return(nil).Once()

		uc := newTestUseCase(identity, revocation)
		pair, err := uc.Login(ctx, &tokenDomain.LoginInput{Username: "alice", Password: "secret"})
		require.NoError(t, err)

		rotated, err := uc.Refresh(ctx, &tokenDomain.RefreshInput{RefreshToken: pair.RefreshToken})
		require.NoError(t, err)
		assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)
		assert.NotEqual(t, pair.AccessToken, rotated.AccessToken)
		revocation.AssertExpectations(t)
		identity.AssertExpectations(t)
	})

	t.Run("Error_SecondUseOfSameToken", func(t *testing.T) {
		// Real revocation store: proves rotation makes the old token single-use.
		repo := revocationRepository.NewMemoryRevocationRepository(time.Hour)
		defer repo.Close()
		revocation := revocationUseCase.NewRevocationUseCase(repo, testLogger())

		user := newTestUser()
		identity := &mockIdentityUseCase{}
		identity.On("VerifyCredentials", ctx, "alice", "secret").Return(user, nil).Once()
		identity.On("Get", ctx, user.ID.String()).Return(user, nil).Once()

		uc := newTestUseCase(identity, revocation)
		pair, err := uc.Login(ctx, &tokenDomain.LoginInput{Username: "alice", Password: "secret"})
		require.NoError(t, err)

		_, err = uc.Refresh(ctx, &tokenDomain.RefreshInput{RefreshToken: pair.RefreshToken})
		require.NoError(t, err)

		_, err = uc.Refresh(ctx, &tokenDomain.RefreshInput{RefreshToken: pair.RefreshToken})
		assert.ErrorIs(t, err, tokenDomain.ErrInvalidRefreshToken)
	})

	t.Run("Error_AccessTokenRejected", func(t *testing.T) {
		user := newTestUser()
		identity := &mockIdentityUseCase{}
		identity.On("VerifyCredentials", ctx, "alice", "secret").Return(user, nil).Once()

		uc := newTestUseCase(identity, &mockRevocationUseCase{})
		pair, err := uc.Login(ctx, &tokenDomain.LoginInput{Username: "alice", Password: "secret"})
		require.NoError(t, err)

		_, err = uc.Refresh(ctx, &tokenDomain.RefreshInput{RefreshToken: pair.AccessToken})
		assert.ErrorIs(t, err, tokenDomain.ErrInvalidRefreshToken)
	})

	t.Run("Error_MalformedToken", func(t *testing.T) {
		uc := newTestUseCase(&mockIdentityUseCase{}, &mockRevocationUseCase{})
		_, err := uc.Refresh(ctx, &tokenDomain.RefreshInput{RefreshToken: "not-a-jwt"})
		assert.ErrorIs(t, err, tokenDomain.ErrInvalidRefreshToken)
	})

	t.Run("Error_StoreUnavailable", func(t *testing.T) {
		user := newTestUser()
		identity := &mockIdentityUseCase{}
		identity.On("VerifyCredentials", ctx, "alice", "secret").Return(user, nil).Once()

		revocation := &mockRevocationUseCase{}
		revocation.On("IsRevoked", ctx, mock.AnythingOfType("string")).
			Return(false, apperrors.ErrStoreUnavailable).Once()

		uc := newTestUseCase(identity, revocation)
		pair, err := uc.Login(ctx, &tokenDomain.LoginInput{Username: "alice", Password: "secret"})
		require.NoError(t, err)

		// Rotation fails closed when the revocation store cannot be consulted.
		_, err = uc.Refresh(ctx, &tokenDomain.RefreshInput{RefreshToken: pair.RefreshToken})
		assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	})

	t.Run("RefreshCarriesCurrentGrants", func(t *testing.T) {
		user := newTestUser()
		identity := &mockIdentityUseCase{}
		identity.On("VerifyCredentials", ctx, "alice", "secret").Return(user, nil).Once()

		demoted := *user
		demoted.Roles = []string{"USER"}
		demoted.Permissions = nil
		identity.On("Get", ctx, user.ID.String()).Return(&demoted, nil).Once()

		revocation := &mockRevocationUseCase{}
		revocation.On("IsRevoked", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
		revocation.On("Revoke", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
			Return(nil).Once()

		uc := newTestUseCase(identity, revocation)
		pair, err := uc.Login(ctx, &tokenDomain.LoginInput{Username: "alice", Password: "secret"})
		require.NoError(t, err)

		rotated, err := uc.Refresh(ctx, &tokenDomain.RefreshInput{RefreshToken: pair.RefreshToken})
		require.NoError(t, err)

		access, err := uc.Authenticate(ctx, rotated.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, []string{"USER"}, access.Roles)
		assert.Empty(t, access.Permissions)
	})
}

func TestTokenUseCase_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RevokesAccessToken", func(t *testing.T) {
		user := newTestUser()
		identity := &mockIdentityUseCase{}
		identity.On("VerifyCredentials", ctx, "alice", "secret").Return(user, nil).Once()

		revocation := &mockRevocationUseCase{}
		revocation.On("Revoke", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
			Return(nil).Once()

		uc := newTestUseCase(identity, revocation)
		pair, err := uc.Login(ctx, &tokenDomain.LoginInput{Username: "alice", Password: "secret"})
		require.NoError(t, err)

		require.NoError(t, uc.Logout(ctx, pair.AccessToken))
		revocation.AssertExpectations(t)
	})

	t.Run("Success_UnverifiableTokenIgnored", func(t *testing.T) {
		revocation := &mockRevocationUseCase{}

		uc := newTestUseCase(&mockIdentityUseCase{}, revocation)
		assert.NoError(t, uc.Logout(ctx, "garbage"))
		revocation.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTokenUseCase_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		user := newTestUser()
		identity := &mockIdentityUseCase{}
		identity.On("VerifyCredentials", ctx, "alice", "secret").Return(user, nil).Once()

		uc := newTestUseCase(identity, &mockRevocationUseCase{})
		pair, err := uc.Login(ctx, &tokenDomain.LoginInput{Username: "alice", Password: "secret"})
		require.NoError(t, err)

		access, err := uc.Authenticate(ctx, pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), access.UserID)
		assert.Equal(t, "tenant-1", access.TenantID)
		assert.Equal(t, "org-1", access.OrganizationID)
		assert.NotEmpty(t, access.TokenID)
		assert.Equal(t, []string{"ADMIN"}, access.Roles)
		assert.False(t, access.IsAnonymous())
	})

	t.Run("Error_RefreshTokenRejected", func(t *testing.T) {
		user := newTestUser()
		identity := &mockIdentityUseCase{}
		identity.On("VerifyCredentials", ctx, "alice", "secret").Return(user, nil).Once()

		uc := newTestUseCase(identity, &mockRevocationUseCase{})
		pair, err := uc.Login(ctx, &tokenDomain.LoginInput{Username: "alice", Password: "secret"})
		require.NoError(t, err)

		_, err = uc.Authenticate(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, tokenDomain.ErrInvalidToken)
	})

	t.Run("Error_Malformed", func(t *testing.T) {
		uc := newTestUseCase(&mockIdentityUseCase{}, &mockRevocationUseCase{})
		_, err := uc.Authenticate(ctx, "garbage")
		assert.ErrorIs(t, err, tokenDomain.ErrInvalidToken)
	})
}
