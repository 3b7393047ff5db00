package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequirementSet_HasAnyOf(t *testing.T) {
	admin := NewRequirementSet("ADMIN", "SUPER_ADMIN")
	empty := NewRequirementSet()

	tests := []struct {
		name string
		set  RequirementSet
		held []string
		want bool
	}{
		{"empty set always passes", empty, []string{"USER"}, true},
		{"empty set passes empty held", empty, nil, true},
		{"match on one member", admin, []string{"USER", "ADMIN"}, true},
		{"no intersection", admin, []string{"USER"}, false},
		{"nil held fails non-empty set", admin, nil, false},
		{"empty held fails non-empty set", admin, []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.set.HasAnyOf(tt.held))
		})
	}
}

func TestRequirementSet_IgnoresBlanks(t *testing.T) {
	set := NewRequirementSet("", "ADMIN", "")
	assert.Equal(t, []string{"ADMIN"}, set.Values())
	assert.False(t, set.IsEmpty())

	blanksOnly := NewRequirementSet("", "")
	assert.True(t, blanksOnly.IsEmpty())
}

func TestRequirementSet_ValuesSorted(t *testing.T) {
	set := NewRequirementSet("zeta", "alpha", "mid")
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, set.Values())
}

func TestEndpointPolicy_Unrestricted(t *testing.T) {
	open := &EndpointPolicy{
		Method:  MethodGet,
		Pattern: MustCompilePattern("/api/v1/health"),
	}
	assert.True(t, open.Unrestricted())

	restricted := &EndpointPolicy{
		Method:        MethodGet,
		Pattern:       MustCompilePattern("/api/v1/users"),
		RequiredRoles: NewRequirementSet("ADMIN"),
	}
	assert.False(t, restricted.Unrestricted())
}

func TestAccessContext_IsAnonymous(t *testing.T) {
	assert.True(t, Anonymous().IsAnonymous())
	assert.True(t, (&AccessContext{}).IsAnonymous())
	assert.True(t, (*AccessContext)(nil).IsAnonymous())
	assert.False(t, (&AccessContext{UserID: "user-1"}).IsAnonymous())
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "ALLOW", Allow.String())
	assert.Equal(t, "DENY", Deny.String())
}
