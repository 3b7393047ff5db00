package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/ryuqq/authhub/internal/errors"
	policyDomain "github.com/ryuqq/authhub/internal/policy/domain"
)

// policyUseCase implements PolicyUseCase backed by a policy repository and the
// active registry.
type policyUseCase struct {
	repository PolicyRepository
	registry   PolicyRegistry
	logger     *slog.Logger
}

// NewPolicyUseCase creates a PolicyUseCase.
func NewPolicyUseCase(
	repository PolicyRepository,
	registry PolicyRegistry,
	logger *slog.Logger,
) PolicyUseCase {
	return &policyUseCase{
		repository: repository,
		registry:   registry,
		logger:     logger,
	}
}

// Create validates and persists a new endpoint policy definition.
// The pattern is compiled here so grammar violations are rejected at
// registration time, long before the row can poison a table build.
func (p *policyUseCase) Create(
	ctx context.Context,
	input *policyDomain.CreatePolicyInput,
) (*policyDomain.PolicyDefinition, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := policyDomain.CompilePattern(input.Pattern); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate policy ID")
	}

	definition := &policyDomain.PolicyDefinition{
		ID:                  id,
		Method:              policyDomain.ParseMethodOrDefault(input.Method).String(),
		Pattern:             input.Pattern,
		RequiredRoles:       input.RequiredRoles,
		RequiredPermissions: input.RequiredPermissions,
		Public:              input.Public,
		Description:         input.Description,
		CreatedAt:           time.Now().UTC(),
	}

	if err := p.repository.Create(ctx, definition); err != nil {
		return nil, err
	}

	p.logger.Info("endpoint policy created",
		slog.String("policy_id", definition.ID.String()),
		slog.String("method", definition.Method),
		slog.String("pattern", definition.Pattern))

	return definition, nil
}

// List retrieves persisted policy definitions with pagination.
func (p *policyUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*policyDomain.PolicyDefinition, error) {
	return p.repository.List(ctx, offset, limit)
}

// Reload rebuilds and atomically installs the active policy table.
func (p *policyUseCase) Reload(ctx context.Context) error {
	return p.registry.Reload(ctx)
}
