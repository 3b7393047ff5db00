package repository

import (
	"context"
	"database/sql"
	"time"

	auditDomain "github.com/ryuqq/authhub/internal/audit/domain"
	"github.com/ryuqq/authhub/internal/database"
	apperrors "github.com/ryuqq/authhub/internal/errors"
)

// MySQLAuditRepository implements AuditRepository for MySQL.
// Uses BINARY(16) UUID columns and ? placeholders.
type MySQLAuditRepository struct {
	db *sql.DB
}

// NewMySQLAuditRepository creates a new MySQL audit repository.
func NewMySQLAuditRepository(db *sql.DB) *MySQLAuditRepository {
	return &MySQLAuditRepository{db: db}
}

// Create inserts a new audit record into the MySQL database.
func (m *MySQLAuditRepository) Create(
	ctx context.Context,
	record *auditDomain.Record,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO audit_logs
			  (id, request_id, client_ip, subject, tenant_id, method, path, status_code, duration_ms, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		record.ID[:],
		record.RequestID,
		record.ClientIP,
		record.Subject,
		record.TenantID,
		record.Method,
		record.Path,
		record.StatusCode,
		record.Duration.Milliseconds(),
		record.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit record")
	}
	return nil
}

// List retrieves audit records ordered by creation time, newest first.
func (m *MySQLAuditRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*auditDomain.Record, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, request_id, client_ip, subject, tenant_id, method, path, status_code, duration_ms, created_at
			  FROM audit_logs
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit records")
	}
	defer rows.Close()

	return scanAuditRows(rows)
}

// DeleteOlderThan removes records created before the cutoff.
func (m *MySQLAuditRepository) DeleteOlderThan(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM audit_logs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit records")
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count deleted audit records")
	}
	return deleted, nil
}
