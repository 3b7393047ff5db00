package repository

import (
	"context"
	"database/sql"

	"github.com/ryuqq/authhub/internal/database"
	apperrors "github.com/ryuqq/authhub/internal/errors"
	policyDomain "github.com/ryuqq/authhub/internal/policy/domain"
)

// MySQLPolicyRepository implements PolicyRepository for MySQL.
// Uses BINARY(16) UUID columns and ? placeholders.
type MySQLPolicyRepository struct {
	db *sql.DB
}

// NewMySQLPolicyRepository creates a new MySQL policy repository.
func NewMySQLPolicyRepository(db *sql.DB) *MySQLPolicyRepository {
	return &MySQLPolicyRepository{db: db}
}

// Create inserts a new policy definition into the MySQL database.
func (m *MySQLPolicyRepository) Create(
	ctx context.Context,
	definition *policyDomain.PolicyDefinition,
) error {
	querier := database.GetTx(ctx, m.db)

	roles, permissions, err := marshalRequirements(definition)
	if err != nil {
		return err
	}

	query := `INSERT INTO endpoint_policies
			  (id, method, pattern, required_roles, required_permissions, public, description, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		definition.ID[:],
		definition.Method,
		definition.Pattern,
		roles,
		permissions,
		definition.Public,
		definition.Description,
		definition.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create endpoint policy")
	}
	return nil
}

// List retrieves policy definitions ordered by creation time.
func (m *MySQLPolicyRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*policyDomain.PolicyDefinition, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, method, pattern, required_roles, required_permissions, public, description, created_at
			  FROM endpoint_policies
			  ORDER BY created_at ASC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list endpoint policies")
	}
	defer rows.Close()

	return scanPolicyRows(rows)
}

// ListAll retrieves every policy definition, used to build the active table.
func (m *MySQLPolicyRepository) ListAll(
	ctx context.Context,
) ([]*policyDomain.PolicyDefinition, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, method, pattern, required_roles, required_permissions, public, description, created_at
			  FROM endpoint_policies
			  ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list endpoint policies")
	}
	defer rows.Close()

	return scanPolicyRows(rows)
}
