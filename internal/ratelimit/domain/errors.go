package domain

import (
	"github.com/ryuqq/authhub/internal/errors"
)

// Rate limiting errors.
var (
	// ErrRateLimitExceeded indicates the caller exhausted its window quota.
	ErrRateLimitExceeded = errors.Wrap(errors.ErrTooManyRequests, "rate limit exceeded")
)
