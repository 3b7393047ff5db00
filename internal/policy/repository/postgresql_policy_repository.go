// Package repository implements data persistence for endpoint policy rows.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). Role and permission sets are stored as JSON arrays.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/ryuqq/authhub/internal/database"
	apperrors "github.com/ryuqq/authhub/internal/errors"
	policyDomain "github.com/ryuqq/authhub/internal/policy/domain"
)

// PostgreSQLPolicyRepository implements PolicyRepository for PostgreSQL.
type PostgreSQLPolicyRepository struct {
	db *sql.DB
}

// NewPostgreSQLPolicyRepository creates a new PostgreSQL policy repository.
func NewPostgreSQLPolicyRepository(db *sql.DB) *PostgreSQLPolicyRepository {
	return &PostgreSQLPolicyRepository{db: db}
}

// Create inserts a new policy definition into the PostgreSQL database.
func (p *PostgreSQLPolicyRepository) Create(
	ctx context.Context,
	definition *policyDomain.PolicyDefinition,
) error {
	querier := database.GetTx(ctx, p.db)

	roles, permissions, err := marshalRequirements(definition)
	if err != nil {
		return err
	}

	query := `INSERT INTO endpoint_policies
			  (id, method, pattern, required_roles, required_permissions, public, description, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = querier.ExecContext(
		ctx,
		query,
		definition.ID,
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
func (p *PostgreSQLPolicyRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*policyDomain.PolicyDefinition, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, method, pattern, required_roles, required_permissions, public, description, created_at
			  FROM endpoint_policies
			  ORDER BY created_at ASC
			  OFFSET $1 LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list endpoint policies")
	}
	defer rows.Close()

	return scanPolicyRows(rows)
}

// ListAll retrieves every policy definition, used to build the active table.
func (p *PostgreSQLPolicyRepository) ListAll(
	ctx context.Context,
) ([]*policyDomain.PolicyDefinition, error) {
	querier := database.GetTx(ctx, p.db)

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

// marshalRequirements encodes the role and permission slices as JSON arrays.
// Nil slices are stored as empty arrays so the columns stay NOT NULL.
func marshalRequirements(definition *policyDomain.PolicyDefinition) ([]byte, []byte, error) {
	roles := definition.RequiredRoles
	if roles == nil {
		roles = []string{}
	}
	permissions := definition.RequiredPermissions
	if permissions == nil {
		permissions = []string{}
	}

	rolesJSON, err := json.Marshal(roles)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal required roles")
	}
	permissionsJSON, err := json.Marshal(permissions)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal required permissions")
	}
	return rolesJSON, permissionsJSON, nil
}

// scanPolicyRows decodes result rows shared by both database implementations.
func scanPolicyRows(rows *sql.Rows) ([]*policyDomain.PolicyDefinition, error) {
	var definitions []*policyDomain.PolicyDefinition

	for rows.Next() {
		var definition policyDomain.PolicyDefinition
		var rolesJSON, permissionsJSON []byte

		err := rows.Scan(
			&definition.ID,
			&definition.Method,
			&definition.Pattern,
			&rolesJSON,
			&permissionsJSON,
			&definition.Public,
			&definition.Description,
			&definition.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan endpoint policy")
		}

		if err := json.Unmarshal(rolesJSON, &definition.RequiredRoles); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal required roles")
		}
		if err := json.Unmarshal(permissionsJSON, &definition.RequiredPermissions); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal required permissions")
		}

		definitions = append(definitions, &definition)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate endpoint policies")
	}

	return definitions, nil
}
