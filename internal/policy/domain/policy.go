package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// RequirementSet is an immutable set of role or permission names.
// The zero value is the empty set, which places no restriction on callers.
type RequirementSet struct {
	values map[string]struct{}
}

// NewRequirementSet builds a set from the given names, ignoring blanks.
func NewRequirementSet(names ...string) RequirementSet {
	set := RequirementSet{}
	for _, name := range names {
		if name == "" {
			continue
		}
		if set.values == nil {
			set.values = make(map[string]struct{}, len(names))
		}
		set.values[name] = struct{}{}
	}
	return set
}

// IsEmpty reports whether the set places no restriction.
func (s RequirementSet) IsEmpty() bool {
	return len(s.values) == 0
}

// HasAnyOf reports whether the requirement is satisfied by the held names.
// An empty requirement set is always satisfied. A non-empty requirement set
// is satisfied only when the intersection with held is non-empty; a nil or
// empty held slice never satisfies a non-empty requirement.
func (s RequirementSet) HasAnyOf(held []string) bool {
	if len(s.values) == 0 {
		return true
	}
	for _, name := range held {
		if _, ok := s.values[name]; ok {
			return true
		}
	}
	return false
}

// Values returns the member names in sorted order.
func (s RequirementSet) Values() []string {
	if len(s.values) == 0 {
		return nil
	}
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EndpointPolicy binds one (method, pattern) pair to the role and permission
// sets required to invoke it. Policies are created at registration time and
// read-only during request processing.
type EndpointPolicy struct {
	// ID is the unique identifier of the policy row.
	ID uuid.UUID
	// Method is the HTTP method the policy applies to.
	Method Method
	// Pattern is the compiled endpoint template.
	Pattern *CompiledPattern
	// RequiredRoles is satisfied by any one held role.
	RequiredRoles RequirementSet
	// RequiredPermissions is satisfied by any one held permission.
	RequiredPermissions RequirementSet
	// Public marks an endpoint that bypasses revocation, rate-limit,
	// authentication and authorization stages entirely.
	Public bool
	// Description is an optional human-readable note.
	Description string
	// CreatedAt is the UTC timestamp when the policy row was created.
	CreatedAt time.Time
}

// Unrestricted reports whether both requirement sets are empty, making the
// endpoint available to any authenticated caller.
func (p *EndpointPolicy) Unrestricted() bool {
	return p.RequiredRoles.IsEmpty() && p.RequiredPermissions.IsEmpty()
}

// Decision is the outcome of an authorization check.
type Decision int

const (
	// Deny rejects the request with 403.
	Deny Decision = iota
	// Allow admits the request.
	Allow
)

// String returns the decision name for logging.
func (d Decision) String() string {
	if d == Allow {
		return "ALLOW"
	}
	return "DENY"
}

// AccessContext carries the caller identity resolved for one request.
// It is owned exclusively by the request goroutine and never shared.
type AccessContext struct {
	// UserID identifies the authenticated subject ("anonymous" when absent).
	UserID string
	// TenantID identifies the tenant the caller belongs to.
	TenantID string
	// OrganizationID identifies the caller's organization within the tenant.
	OrganizationID string
	// TokenID is the JTI of the presented access token, empty for anonymous.
	TokenID string
	// Roles are the caller's resolved role names.
	Roles []string
	// Permissions are the caller's resolved permission names.
	Permissions []string
}

// AnonymousUserID is the subject recorded for unauthenticated callers.
const AnonymousUserID = "anonymous"

// Anonymous returns the access context used for requests without credentials.
func Anonymous() *AccessContext {
	return &AccessContext{UserID: AnonymousUserID}
}

// IsAnonymous reports whether the context carries no authenticated subject.
func (a *AccessContext) IsAnonymous() bool {
	return a == nil || a.UserID == "" || a.UserID == AnonymousUserID
}
