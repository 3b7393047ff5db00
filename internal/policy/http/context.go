// Package http provides HTTP middleware and handlers for endpoint policy
// management and request authorization.
package http

import (
	"context"

	policyDomain "github.com/ryuqq/authhub/internal/policy/domain"
)

// accessContextKey is a context key type for storing the caller identity.
type accessContextKey struct{}

// WithAccessContext stores the resolved caller identity in the context.
// Called by the authentication middleware once the bearer token or gateway
// headers have been resolved.
func WithAccessContext(ctx context.Context, access *policyDomain.AccessContext) context.Context {
	return context.WithValue(ctx, accessContextKey{}, access)
}

// GetAccessContext retrieves the caller identity from the context.
// Returns (access, true) when set, or (nil, false) when the authentication
// middleware has not run.
func GetAccessContext(ctx context.Context) (*policyDomain.AccessContext, bool) {
	access, ok := ctx.Value(accessContextKey{}).(*policyDomain.AccessContext)
	return access, ok
}
