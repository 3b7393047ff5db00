package usecase

import (
	"context"
	"time"

	"github.com/ryuqq/authhub/internal/metrics"
	policyDomain "github.com/ryuqq/authhub/internal/policy/domain"
)

// policyUseCaseWithMetrics decorates PolicyUseCase with metrics instrumentation.
type policyUseCaseWithMetrics struct {
	next    PolicyUseCase
	metrics metrics.BusinessMetrics
}

// NewPolicyUseCaseWithMetrics wraps a PolicyUseCase with metrics recording.
func NewPolicyUseCaseWithMetrics(useCase PolicyUseCase, m metrics.BusinessMetrics) PolicyUseCase {
	return &policyUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for policy creation operations.
func (p *policyUseCaseWithMetrics) Create(
	ctx context.Context,
	input *policyDomain.CreatePolicyInput,
) (*policyDomain.PolicyDefinition, error) {
	start := time.Now()
	definition, err := p.next.Create(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "policy", "policy_create", status)
	p.metrics.RecordDuration(ctx, "policy", "policy_create", time.Since(start), status)

	return definition, err
}

// List records metrics for policy list operations.
func (p *policyUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*policyDomain.PolicyDefinition, error) {
	start := time.Now()
	definitions, err := p.next.List(ctx, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "policy", "policy_list", status)
	p.metrics.RecordDuration(ctx, "policy", "policy_list", time.Since(start), status)

	return definitions, err
}

// Reload records metrics for policy table reload operations.
func (p *policyUseCaseWithMetrics) Reload(ctx context.Context) error {
	start := time.Now()
	err := p.next.Reload(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "policy", "policy_reload", status)
	p.metrics.RecordDuration(ctx, "policy", "policy_reload", time.Since(start), status)

	return err
}

// authorizationUseCaseWithMetrics decorates AuthorizationUseCase with metrics instrumentation.
type authorizationUseCaseWithMetrics struct {
	next    AuthorizationUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthorizationUseCaseWithMetrics wraps an AuthorizationUseCase with metrics recording.
func NewAuthorizationUseCaseWithMetrics(
	useCase AuthorizationUseCase,
	m metrics.BusinessMetrics,
) AuthorizationUseCase {
	return &authorizationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Authorize records metrics for authorization decisions. The status label
// carries the decision so allow/deny rates are visible per se, not just errors.
func (a *authorizationUseCaseWithMetrics) Authorize(
	ctx context.Context,
	method policyDomain.Method,
	path string,
	access *policyDomain.AccessContext,
) (policyDomain.Decision, *policyDomain.EndpointPolicy, error) {
	start := time.Now()
	decision, policy, err := a.next.Authorize(ctx, method, path, access)

	status := "allow"
	switch {
	case err != nil:
		status = "error"
	case decision == policyDomain.Deny:
		status = "deny"
	}

	a.metrics.RecordOperation(ctx, "policy", "authorize", status)
	a.metrics.RecordDuration(ctx, "policy", "authorize", time.Since(start), status)

	return decision, policy, err
}
