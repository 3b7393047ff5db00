package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/ryuqq/authhub/internal/database"
	apperrors "github.com/ryuqq/authhub/internal/errors"
	identityDomain "github.com/ryuqq/authhub/internal/identity/domain"
)

// MySQLUserRepository implements UserRepository for MySQL.
// Uses BINARY(16) UUID columns and ? placeholders.
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQL user repository.
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

// Create inserts a new user into the MySQL database.
func (m *MySQLUserRepository) Create(
	ctx context.Context,
	user *identityDomain.User,
) error {
	querier := database.GetTx(ctx, m.db)

	roles, permissions, err := marshalGrants(user)
	if err != nil {
		return err
	}

	query := `INSERT INTO users
			  (id, username, password_hash, tenant_id, organization_id, roles, permissions, is_active, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		user.ID[:],
		user.Username,
		user.PasswordHash,
		user.TenantID,
		user.OrganizationID,
		roles,
		permissions,
		user.IsActive,
		user.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByUsername retrieves a user by login name.
func (m *MySQLUserRepository) GetByUsername(
	ctx context.Context,
	username string,
) (*identityDomain.User, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, username, password_hash, tenant_id, organization_id, roles, permissions, is_active, created_at
			  FROM users
			  WHERE username = ?`

	return scanUserRow(querier.QueryRowContext(ctx, query, username))
}

// GetByID retrieves a user by ID.
func (m *MySQLUserRepository) GetByID(
	ctx context.Context,
	userID uuid.UUID,
) (*identityDomain.User, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, username, password_hash, tenant_id, organization_id, roles, permissions, is_active, created_at
			  FROM users
			  WHERE id = ?`

	return scanUserRow(querier.QueryRowContext(ctx, query, userID[:]))
}
