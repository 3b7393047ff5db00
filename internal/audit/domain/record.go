// Package domain defines the audit trail model: one record per request that
// entered the pipeline, whatever its outcome.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// AnonymousSubject is recorded when no caller identity was resolved.
const AnonymousSubject = "anonymous"

// Record is one audit trail entry.
type Record struct {
	// ID is the unique identifier (UUIDv7).
	ID uuid.UUID
	// RequestID correlates the record with request-scoped logs.
	RequestID string
	// ClientIP is the caller address, honoring X-Forwarded-For.
	ClientIP string
	// Subject is the resolved user ID, or AnonymousSubject.
	Subject string
	// TenantID is the caller's tenant, empty for anonymous requests.
	TenantID string
	// Method is the HTTP method of the request.
	Method string
	// Path is the request path as received, without the query string.
	Path string
	// StatusCode is the final response status.
	StatusCode int
	// Duration is the wall time spent serving the request.
	Duration time.Duration
	// CreatedAt is the UTC timestamp when the request completed.
	CreatedAt time.Time
}
