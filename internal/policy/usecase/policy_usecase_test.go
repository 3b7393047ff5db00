package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ryuqq/authhub/internal/errors"
	policyDomain "github.com/ryuqq/authhub/internal/policy/domain"
)

func TestPolicyUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_CreateNewPolicy", func(t *testing.T) {
		repo := &mockPolicyRepository{}
		repo.On("Create", ctx, mock.MatchedBy(func(d *policyDomain.PolicyDefinition) bool {
			return d.Method == "POST" &&
				d.Pattern == "/api/v1/users" &&
				len(d.RequiredRoles) == 1
		})).Return(nil).Once()

		uc := NewPolicyUseCase(repo, NewPolicyRegistry(repo, testLogger()), testLogger())
		definition, err := uc.Create(ctx, &policyDomain.CreatePolicyInput{
			Method:        "post",
			Pattern:       "/api/v1/users",
			RequiredRoles: []string{"ADMIN"},
		})

		require.NoError(t, err)
		assert.Equal(t, "POST", definition.Method)
		assert.NotEqual(t, "", definition.ID.String())
		assert.False(t, definition.CreatedAt.IsZero())
		repo.AssertExpectations(t)
	})

	t.Run("Error_InvalidPattern", func(t *testing.T) {
		repo := &mockPolicyRepository{}
		uc := NewPolicyUseCase(repo, NewPolicyRegistry(repo, testLogger()), testLogger())

		_, err := uc.Create(ctx, &policyDomain.CreatePolicyInput{
			Method:  "GET",
			Pattern: "/api/**/users",
		})

		assert.ErrorIs(t, err, policyDomain.ErrInvalidPattern)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_ValidationFailure", func(t *testing.T) {
		repo := &mockPolicyRepository{}
		uc := NewPolicyUseCase(repo, NewPolicyRegistry(repo, testLogger()), testLogger())

		_, err := uc.Create(ctx, &policyDomain.CreatePolicyInput{
			Method:  "GET",
			Pattern: "no-leading-slash",
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_RepositoryFailure", func(t *testing.T) {
		repo := &mockPolicyRepository{}
		repo.On("Create", ctx, mock.Anything).Return(assert.AnError).Once()

		uc := NewPolicyUseCase(repo, NewPolicyRegistry(repo, testLogger()), testLogger())
		_, err := uc.Create(ctx, &policyDomain.CreatePolicyInput{
			Method:  "GET",
			Pattern: "/api/v1/users",
		})

		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestPolicyUseCase_List(t *testing.T) {
	ctx := context.Background()

	repo := &mockPolicyRepository{}
	repo.On("List", ctx, 0, 50).Return([]*policyDomain.PolicyDefinition{
		definition("GET", "/api/v1/users", nil, nil),
	}, nil).Once()

	uc := NewPolicyUseCase(repo, NewPolicyRegistry(repo, testLogger()), testLogger())
	definitions, err := uc.List(ctx, 0, 50)

	require.NoError(t, err)
	assert.Len(t, definitions, 1)
	repo.AssertExpectations(t)
}

func TestPolicyUseCase_ReloadDelegatesToRegistry(t *testing.T) {
	ctx := context.Background()

	repo := &mockPolicyRepository{}
	repo.On("ListAll", ctx).Return([]*policyDomain.PolicyDefinition{
		definition("GET", "/api/v1/users", nil, nil),
	}, nil).Once()

	registry := NewPolicyRegistry(repo, testLogger())
	uc := NewPolicyUseCase(repo, registry, testLogger())

	require.NoError(t, uc.Reload(ctx))
	assert.Equal(t, 1, registry.Size())
	repo.AssertExpectations(t)
}
