// Package repository implements data persistence for directory users.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). Role and permission sets are stored as JSON arrays.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/ryuqq/authhub/internal/database"
	apperrors "github.com/ryuqq/authhub/internal/errors"
	identityDomain "github.com/ryuqq/authhub/internal/identity/domain"
)

// PostgreSQLUserRepository implements UserRepository for PostgreSQL.
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQL user repository.
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{db: db}
}

// Create inserts a new user into the PostgreSQL database.
func (p *PostgreSQLUserRepository) Create(
	ctx context.Context,
	user *identityDomain.User,
) error {
	querier := database.GetTx(ctx, p.db)

	roles, permissions, err := marshalGrants(user)
	if err != nil {
		return err
	}

	query := `INSERT INTO users
			  (id, username, password_hash, tenant_id, organization_id, roles, permissions, is_active, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = querier.ExecContext(
		ctx,
		query,
		user.ID,
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
func (p *PostgreSQLUserRepository) GetByUsername(
	ctx context.Context,
	username string,
) (*identityDomain.User, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, username, password_hash, tenant_id, organization_id, roles, permissions, is_active, created_at
			  FROM users
			  WHERE username = $1`

	return scanUserRow(querier.QueryRowContext(ctx, query, username))
}

// GetByID retrieves a user by ID.
func (p *PostgreSQLUserRepository) GetByID(
	ctx context.Context,
	userID uuid.UUID,
) (*identityDomain.User, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, username, password_hash, tenant_id, organization_id, roles, permissions, is_active, created_at
			  FROM users
			  WHERE id = $1`

	return scanUserRow(querier.QueryRowContext(ctx, query, userID))
}

// marshalGrants encodes the role and permission slices as JSON arrays.
// Nil slices are stored as empty arrays so the columns stay NOT NULL.
func marshalGrants(user *identityDomain.User) ([]byte, []byte, error) {
	roles := user.Roles
	if roles == nil {
		roles = []string{}
	}
	permissions := user.Permissions
	if permissions == nil {
		permissions = []string{}
	}

	rolesJSON, err := json.Marshal(roles)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal roles")
	}
	permissionsJSON, err := json.Marshal(permissions)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal permissions")
	}
	return rolesJSON, permissionsJSON, nil
}

// scanUserRow decodes a single user row shared by both database implementations.
func scanUserRow(row *sql.Row) (*identityDomain.User, error) {
	var user identityDomain.User
	var rolesJSON, permissionsJSON []byte

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.TenantID,
		&user.OrganizationID,
		&rolesJSON,
		&permissionsJSON,
		&user.IsActive,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, identityDomain.ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to scan user")
	}

	if err := json.Unmarshal(rolesJSON, &user.Roles); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal roles")
	}
	if err := json.Unmarshal(permissionsJSON, &user.Permissions); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal permissions")
	}

	return &user, nil
}
