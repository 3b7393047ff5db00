// Package domain defines the user directory model consumed by the token
// lifecycle: credentials, tenancy, and resolved roles and permissions.
package domain

import (
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	appvalidation "github.com/ryuqq/authhub/internal/validation"
)

// User is one directory entry.
type User struct {
	// ID is the unique identifier (UUIDv7).
	ID uuid.UUID
	// Username is the unique login name.
	Username string
	// PasswordHash is the Argon2id hash of the password, never the plaintext.
	PasswordHash string `json:"-"`
	// TenantID identifies the tenant the user belongs to.
	TenantID string
	// OrganizationID identifies the user's organization within the tenant.
	OrganizationID string
	// Roles are the user's resolved role names.
	Roles []string
	// Permissions are the user's resolved permission names, already expanded
	// from role grants.
	Permissions []string
	// IsActive gates whether the user can authenticate.
	IsActive bool
	// CreatedAt is the UTC timestamp when the user was created.
	CreatedAt time.Time
}

// RegisterInput contains the data needed to create a new user.
type RegisterInput struct {
	Username       string   `json:"username"`
	Password       string   `json:"password"`
	TenantID       string   `json:"tenant_id"`
	OrganizationID string   `json:"organization_id"`
	Roles          []string `json:"roles"`
	Permissions    []string `json:"permissions"`
}

// Validate checks the registration input.
func (r RegisterInput) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required,
			appvalidation.NotBlank,
			validation.Length(3, 255),
		),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 255)),
		validation.Field(&r.TenantID, validation.Required, appvalidation.NotBlank),
	)
	return appvalidation.WrapValidationError(err)
}
