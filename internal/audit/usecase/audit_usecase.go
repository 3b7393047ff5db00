package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/ryuqq/authhub/internal/audit/domain"
	apperrors "github.com/ryuqq/authhub/internal/errors"
)

// auditUseCase implements AuditUseCase.
type auditUseCase struct {
	repository AuditRepository
	logger     *slog.Logger
}

// NewAuditUseCase creates an AuditUseCase.
func NewAuditUseCase(repository AuditRepository, logger *slog.Logger) AuditUseCase {
	return &auditUseCase{
		repository: repository,
		logger:     logger,
	}
}

// Record assigns an ID and stores the audit record.
func (a *auditUseCase) Record(ctx context.Context, record *auditDomain.Record) error {
	id, err := uuid.NewV7()
	if err != nil {
		return apperrors.Wrap(err, "failed to generate audit record ID")
	}

	record.ID = id
	if record.Subject == "" {
		record.Subject = auditDomain.AnonymousSubject
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	return a.repository.Create(ctx, record)
}

// List retrieves audit records with pagination.
func (a *auditUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*auditDomain.Record, error) {
	return a.repository.List(ctx, offset, limit)
}

// Purge removes records older than the retention period.
func (a *auditUseCase) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)

	deleted, err := a.repository.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	a.logger.Info("purged audit records",
		slog.Int64("deleted", deleted),
		slog.Time("cutoff", cutoff))

	return deleted, nil
}
