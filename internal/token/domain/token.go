// Package domain defines the token lifecycle model: claims, token pairs, and
// the login/refresh inputs.
package domain

import (
	"time"

	validation "github.com/jellydator/validation"

	appvalidation "github.com/ryuqq/authhub/internal/validation"
)

// TokenType distinguishes access tokens from refresh tokens.
type TokenType string

// Supported token types.
const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Claims is the identity payload carried by a signed token.
type Claims struct {
	// JTI uniquely identifies this token instance, never reused.
	JTI string
	// Type marks the token as access or refresh.
	Type TokenType
	// Subject is the user identifier.
	Subject string
	// TenantID identifies the tenant the user belongs to.
	TenantID string
	// OrganizationID identifies the user's organization within the tenant.
	OrganizationID string
	// Roles are the user's role names at issuance time.
	Roles []string
	// Permissions are the user's permission names at issuance time.
	Permissions []string
	// IssuedAt is when the token was created.
	IssuedAt time.Time
	// ExpiresAt is when the token stops being valid.
	ExpiresAt time.Time
}

// Pair is an issued access/refresh token pair.
type Pair struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int64  `json:"expires_in"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
}

// LoginInput contains the credentials presented at login.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks the login input.
func (l LoginInput) Validate() error {
	err := validation.ValidateStruct(&l,
		validation.Field(&l.Username, validation.Required, appvalidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&l.Password, validation.Required, validation.Length(1, 255)),
	)
	return appvalidation.WrapValidationError(err)
}

// RefreshInput contains the refresh token presented for rotation.
type RefreshInput struct {
	RefreshToken string `json:"refresh_token"`
}

// Validate checks the refresh input.
func (r RefreshInput) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
	return appvalidation.WrapValidationError(err)
}
