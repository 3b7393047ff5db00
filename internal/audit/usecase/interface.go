// Package usecase defines business logic for the audit trail.
package usecase

import (
	"context"
	"time"

	auditDomain "github.com/ryuqq/authhub/internal/audit/domain"
)

// AuditRepository defines persistence operations for audit records.
type AuditRepository interface {
	// Create stores a new audit record.
	Create(ctx context.Context, record *auditDomain.Record) error

	// List retrieves audit records ordered by creation time, newest first.
	List(ctx context.Context, offset, limit int) ([]*auditDomain.Record, error)

	// DeleteOlderThan removes records created before the cutoff and reports
	// how many were deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// AuditUseCase manages the audit trail.
type AuditUseCase interface {
	// Record stores one audit record, assigning its ID.
	Record(ctx context.Context, record *auditDomain.Record) error

	// List retrieves audit records with pagination, newest first.
	List(ctx context.Context, offset, limit int) ([]*auditDomain.Record, error)

	// Purge removes records older than the retention period and reports how
	// many were deleted.
	Purge(ctx context.Context, retention time.Duration) (int64, error)
}
