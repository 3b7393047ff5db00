package domain

import (
	"github.com/ryuqq/authhub/internal/errors"
)

// Policy registration errors. All of them are fatal at startup: a policy table
// that fails validation must never become the active table.
var (
	// ErrInvalidPattern indicates an endpoint template violates the pattern grammar.
	ErrInvalidPattern = errors.Wrap(errors.ErrInvalidInput, "invalid endpoint pattern")

	// ErrDuplicatePolicy indicates the exact (method, pattern) pair is already registered.
	ErrDuplicatePolicy = errors.Wrap(errors.ErrConflict, "duplicate endpoint policy")

	// ErrAmbiguousPolicy indicates two patterns for the same method would tie under
	// the specificity ranking for some constructible path.
	ErrAmbiguousPolicy = errors.Wrap(errors.ErrConflict, "ambiguous endpoint policy")

	// ErrPolicyNotFound indicates no registered pattern matches the request path.
	ErrPolicyNotFound = errors.Wrap(errors.ErrNotFound, "endpoint policy not found")
)
