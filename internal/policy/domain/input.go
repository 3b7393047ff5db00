package domain

import (
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	appvalidation "github.com/ryuqq/authhub/internal/validation"
)

// PolicyDefinition is one raw policy row from the policy source (database
// table or seed file), before pattern compilation.
type PolicyDefinition struct {
	ID                  uuid.UUID
	Method              string
	Pattern             string
	RequiredRoles       []string
	RequiredPermissions []string
	Public              bool
	Description         string
	CreatedAt           time.Time
}

// CreatePolicyInput contains the data needed to register a new endpoint policy.
type CreatePolicyInput struct {
	Method              string   `json:"method"`
	Pattern             string   `json:"pattern"`
	RequiredRoles       []string `json:"required_roles"`
	RequiredPermissions []string `json:"required_permissions"`
	Public              bool     `json:"public"`
	Description         string   `json:"description"`
}

// Validate checks the input against the endpoint pattern invariants.
// Pattern grammar violations beyond the character whitelist are caught by
// CompilePattern at registration time.
func (c CreatePolicyInput) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Method, validation.Required, appvalidation.NotBlank),
		validation.Field(&c.Pattern,
			validation.Required,
			validation.Length(1, 500),
			appvalidation.AbsolutePath,
		),
		validation.Field(&c.Description, validation.Length(0, 255)),
	)
	return appvalidation.WrapValidationError(err)
}
