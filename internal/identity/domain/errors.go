package domain

import (
	"github.com/ryuqq/authhub/internal/errors"
)

// User directory errors.
var (
	// ErrUserNotFound indicates a user with the specified ID or username was not found.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = errors.Wrap(errors.ErrConflict, "username already taken")

	// ErrInvalidCredentials indicates the username/password pair did not
	// verify. Deliberately indistinguishable from an unknown username.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")
)
