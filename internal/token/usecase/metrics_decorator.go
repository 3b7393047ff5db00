package usecase

import (
	"context"
	"time"

	"github.com/ryuqq/authhub/internal/metrics"
	policyDomain "github.com/ryuqq/authhub/internal/policy/domain"
	tokenDomain "github.com/ryuqq/authhub/internal/token/domain"
)

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics instrumentation.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Login records metrics for login operations.
func (t *tokenUseCaseWithMetrics) Login(
	ctx context.Context,
	input *tokenDomain.LoginInput,
) (*tokenDomain.Pair, error) {
	start := time.Now()
	pair, err := t.next.Login(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "login", status)
	t.metrics.RecordDuration(ctx, "token", "login", time.Since(start), status)

	return pair, err
}

// Refresh records metrics for refresh rotation operations.
func (t *tokenUseCaseWithMetrics) Refresh(
	ctx context.Context,
	input *tokenDomain.RefreshInput,
) (*tokenDomain.Pair, error) {
	start := time.Now()
	pair, err := t.next.Refresh(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "refresh", status)
	t.metrics.RecordDuration(ctx, "token", "refresh", time.Since(start), status)

	return pair, err
}

// Logout records metrics for logout operations.
func (t *tokenUseCaseWithMetrics) Logout(ctx context.Context, accessToken string) error {
	start := time.Now()
	err := t.next.Logout(ctx, accessToken)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "logout", status)
	t.metrics.RecordDuration(ctx, "token", "logout", time.Since(start), status)

	return err
}

// Authenticate records metrics for token verification.
func (t *tokenUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	accessToken string,
) (*policyDomain.AccessContext, error) {
	start := time.Now()
	access, err := t.next.Authenticate(ctx, accessToken)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "authenticate", status)
	t.metrics.RecordDuration(ctx, "token", "authenticate", time.Since(start), status)

	return access, err
}
