package usecase

import (
	"context"
	"log/slog"

	policyDomain "github.com/ryuqq/authhub/internal/policy/domain"
)

// Evaluate decides ALLOW or DENY for a resolved policy and a caller's held
// roles and permissions. Pure function of its inputs.
//
// OR semantics apply throughout: any one held role satisfies the role clause,
// any one held permission satisfies the permission clause, and either clause
// alone grants access. A policy with no requirements at all admits any
// authenticated caller; an empty clause next to a non-empty one grants
// nothing on its own.
func Evaluate(
	policy *policyDomain.EndpointPolicy,
	access *policyDomain.AccessContext,
) policyDomain.Decision {
	if policy.RequiredRoles.IsEmpty() && policy.RequiredPermissions.IsEmpty() {
		return policyDomain.Allow
	}

	var roles, permissions []string
	if access != nil {
		roles = access.Roles
		permissions = access.Permissions
	}

	if !policy.RequiredRoles.IsEmpty() && policy.RequiredRoles.HasAnyOf(roles) {
		return policyDomain.Allow
	}
	if !policy.RequiredPermissions.IsEmpty() && policy.RequiredPermissions.HasAnyOf(permissions) {
		return policyDomain.Allow
	}
	return policyDomain.Deny
}

// authorizationUseCase combines registry resolution with policy evaluation.
type authorizationUseCase struct {
	registry PolicyRegistry
	logger   *slog.Logger
}

// NewAuthorizationUseCase creates the authorization decision point used by the
// request pipeline.
func NewAuthorizationUseCase(registry PolicyRegistry, logger *slog.Logger) AuthorizationUseCase {
	return &authorizationUseCase{
		registry: registry,
		logger:   logger,
	}
}

// Authorize resolves the policy for (method, path) and evaluates it.
// A path with no matching pattern is denied: default-deny is the registry's
// documented contract for unmatched routes. Public policies always allow.
func (a *authorizationUseCase) Authorize(
	ctx context.Context,
	method policyDomain.Method,
	path string,
	access *policyDomain.AccessContext,
) (policyDomain.Decision, *policyDomain.EndpointPolicy, error) {
	policy, err := a.registry.Resolve(method, path)
	if err != nil {
		a.logger.Debug("no policy matched request path",
			slog.String("method", method.String()),
			slog.String("path", path))
		return policyDomain.Deny, nil, nil
	}

	if policy.Public {
		return policyDomain.Allow, policy, nil
	}

	decision := Evaluate(policy, access)

	a.logger.Debug("authorization evaluated",
		slog.String("method", method.String()),
		slog.String("path", path),
		slog.String("pattern", policy.Pattern.String()),
		slog.String("decision", decision.String()))

	return decision, policy, nil
}
