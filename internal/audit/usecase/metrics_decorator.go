package usecase

import (
	"context"
	"time"

	auditDomain "github.com/ryuqq/authhub/internal/audit/domain"
	"github.com/ryuqq/authhub/internal/metrics"
)

// auditUseCaseWithMetrics decorates AuditUseCase with metrics instrumentation.
type auditUseCaseWithMetrics struct {
	next    AuditUseCase
	metrics metrics.BusinessMetrics
}

// NewAuditUseCaseWithMetrics wraps an AuditUseCase with metrics recording.
func NewAuditUseCaseWithMetrics(useCase AuditUseCase, m metrics.BusinessMetrics) AuditUseCase {
	return &auditUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Record records metrics for audit record writes.
func (a *auditUseCaseWithMetrics) Record(
	ctx context.Context,
	record *auditDomain.Record,
) error {
	start := time.Now()
	err := a.next.Record(ctx, record)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "audit", "record", status)
	a.metrics.RecordDuration(ctx, "audit", "record", time.Since(start), status)

	return err
}

// List records metrics for audit list operations.
func (a *auditUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*auditDomain.Record, error) {
	start := time.Now()
	records, err := a.next.List(ctx, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "audit", "list", status)
	a.metrics.RecordDuration(ctx, "audit", "list", time.Since(start), status)

	return records, err
}

// Purge records metrics for audit retention cleanup.
func (a *auditUseCaseWithMetrics) Purge(
	ctx context.Context,
	retention time.Duration,
) (int64, error) {
	start := time.Now()
	deleted, err := a.next.Purge(ctx, retention)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "audit", "purge", status)
	a.metrics.RecordDuration(ctx, "audit", "purge", time.Since(start), status)

	return deleted, err
}
