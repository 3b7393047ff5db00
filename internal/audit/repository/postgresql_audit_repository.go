// Package repository implements data persistence for audit records.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). Durations are stored as integral milliseconds.
package repository

import (
	"context"
	"database/sql"
	"time"

	auditDomain "github.com/ryuqq/authhub/internal/audit/domain"
	"github.com/ryuqq/authhub/internal/database"
	apperrors "github.com/ryuqq/authhub/internal/errors"
)

// PostgreSQLAuditRepository implements AuditRepository for PostgreSQL.
type PostgreSQLAuditRepository struct {
	db *sql.DB
}

// NewPostgreSQLAuditRepository creates a new PostgreSQL audit repository.
func NewPostgreSQLAuditRepository(db *sql.DB) *PostgreSQLAuditRepository {
	return &PostgreSQLAuditRepository{db: db}
}

// Create inserts a new audit record into the PostgreSQL database.
func (p *PostgreSQLAuditRepository) Create(
	ctx context.Context,
	record *auditDomain.Record,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO audit_logs
			  (id, request_id, client_ip, subject, tenant_id, method, path, status_code, duration_ms, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := querier.ExecContext(
		ctx,
		query,
		record.ID,
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
func (p *PostgreSQLAuditRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*auditDomain.Record, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, request_id, client_ip, subject, tenant_id, method, path, status_code, duration_ms, created_at
			  FROM audit_logs
			  ORDER BY created_at DESC
			  OFFSET $1 LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit records")
	}
	defer rows.Close()

	return scanAuditRows(rows)
}

// DeleteOlderThan removes records created before the cutoff.
func (p *PostgreSQLAuditRepository) DeleteOlderThan(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM audit_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit records")
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count deleted audit records")
	}
	return deleted, nil
}

// scanAuditRows decodes result rows shared by both database implementations.
func scanAuditRows(rows *sql.Rows) ([]*auditDomain.Record, error) {
	var records []*auditDomain.Record

	for rows.Next() {
		var record auditDomain.Record
		var durationMs int64

		err := rows.Scan(
			&record.ID,
			&record.RequestID,
			&record.ClientIP,
			&record.Subject,
			&record.TenantID,
			&record.Method,
			&record.Path,
			&record.StatusCode,
			&durationMs,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit record")
		}

		record.Duration = time.Duration(durationMs) * time.Millisecond
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit records")
	}

	return records, nil
}
