package domain

import (
	"github.com/ryuqq/authhub/internal/errors"
)

// Token lifecycle errors.
var (
	// ErrInvalidToken indicates a token that is malformed, badly signed, or expired.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid token")

	// ErrInvalidRefreshToken indicates a refresh token that is malformed,
	// expired, of the wrong type, or already used once.
	ErrInvalidRefreshToken = errors.Wrap(errors.ErrUnauthorized, "invalid refresh token")
)
