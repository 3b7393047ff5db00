// Package usecase defines business logic for endpoint policy management,
// policy resolution, and request authorization.
package usecase

import (
	"context"

	policyDomain "github.com/ryuqq/authhub/internal/policy/domain"
)

// PolicyRepository defines persistence operations for endpoint policy rows.
// Implementations must support transaction-aware operations via context propagation.
type PolicyRepository interface {
	// Create stores a new policy definition in the repository.
	Create(ctx context.Context, definition *policyDomain.PolicyDefinition) error

	// List retrieves policy definitions ordered by creation time.
	List(ctx context.Context, offset, limit int) ([]*policyDomain.PolicyDefinition, error)

	// ListAll retrieves every policy definition, used to build the active table.
	ListAll(ctx context.Context) ([]*policyDomain.PolicyDefinition, error)
}

// PolicyRegistry resolves the policy attached to a concrete (method, path)
// pair. Implementations must allow concurrent Resolve calls while a Reload is
// in progress without ever exposing a half-built table.
type PolicyRegistry interface {
	// Resolve returns the highest-specificity policy whose pattern matches the
	// path for the given method. Returns ErrPolicyNotFound when no registered
	// pattern matches; the caller decides the default (the pipeline denies).
	Resolve(method policyDomain.Method, path string) (*policyDomain.EndpointPolicy, error)

	// Reload rebuilds the table from the policy source and installs it
	// atomically. A build failure leaves the previous table active.
	Reload(ctx context.Context) error

	// Size returns the number of policies in the active table.
	Size() int
}

// PolicyUseCase defines management operations on the policy source.
type PolicyUseCase interface {
	// Create validates and persists a new endpoint policy. The active table is
	// not changed until the next Reload.
	Create(ctx context.Context, input *policyDomain.CreatePolicyInput) (*policyDomain.PolicyDefinition, error)

	// List retrieves persisted policy definitions with pagination.
	List(ctx context.Context, offset, limit int) ([]*policyDomain.PolicyDefinition, error)

	// Reload rebuilds and atomically installs the active policy table.
	Reload(ctx context.Context) error
}

// AuthorizationUseCase decides whether a caller may invoke an endpoint.
type AuthorizationUseCase interface {
	// Authorize resolves the policy for (method, path) and evaluates it against
	// the caller's held roles and permissions. An unmatched path is denied.
	// The resolved policy is returned alongside the decision for audit logging;
	// it is nil when no pattern matched.
	Authorize(
		ctx context.Context,
		method policyDomain.Method,
		path string,
		access *policyDomain.AccessContext,
	) (policyDomain.Decision, *policyDomain.EndpointPolicy, error)
}
