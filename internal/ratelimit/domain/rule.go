// Package domain defines the fixed-window rate limiting model: limit types,
// per-type rules, and the acquisition result reported to callers.
package domain

import (
	"strings"
	"time"
)

// LimitType selects which quota rule applies to a request counter.
type LimitType string

// Supported limit types.
const (
	// IPBased limits requests per client IP and endpoint.
	IPBased LimitType = "IP_BASED"
	// UserBased limits requests per authenticated user and endpoint.
	UserBased LimitType = "USER_BASED"
	// EndpointBased limits total requests per endpoint across all callers.
	EndpointBased LimitType = "ENDPOINT_BASED"
)

// DefaultLimitType is the fallback returned by ParseTypeOrDefault.
const DefaultLimitType = IPBased

// ParseTypeOrDefault parses a limit type case-insensitively.
// Unrecognized input returns DefaultLimitType rather than an error.
func ParseTypeOrDefault(raw string) LimitType {
	switch LimitType(strings.ToUpper(strings.TrimSpace(raw))) {
	case IPBased:
		return IPBased
	case UserBased:
		return UserBased
	case EndpointBased:
		return EndpointBased
	default:
		return DefaultLimitType
	}
}

// Rule is the quota attached to one limit type.
type Rule struct {
	Type   LimitType
	Limit  int64
	Window time.Duration
}

// Default quota rules per limit type.
var defaultRules = map[LimitType]Rule{
	IPBased:       {Type: IPBased, Limit: 100, Window: 60 * time.Second},
	UserBased:     {Type: UserBased, Limit: 1000, Window: 60 * time.Second},
	EndpointBased: {Type: EndpointBased, Limit: 5000, Window: 60 * time.Second},
}

// RuleFor returns the quota rule for a limit type. Unknown types get the
// default type's rule.
func RuleFor(limitType LimitType) Rule {
	if rule, ok := defaultRules[limitType]; ok {
		return rule
	}
	return defaultRules[DefaultLimitType]
}

// Key builds the counter key for a client and endpoint under this rule.
func (r Rule) Key(clientKey, endpoint string) string {
	switch r.Type {
	case EndpointBased:
		return "ratelimit:" + string(r.Type) + ":" + endpoint
	default:
		return "ratelimit:" + string(r.Type) + ":" + clientKey + ":" + endpoint
	}
}

// Result is the outcome of one acquisition attempt.
// The window is fixed, not sliding: a burst straddling a window boundary can
// admit up to twice the limit. That is the documented tradeoff of the
// fixed-window strategy, not a defect.
type Result struct {
	// Allowed reports whether the request may proceed.
	Allowed bool
	// Limit is the quota for the window.
	Limit int64
	// Remaining is the quota left in the current window, never negative.
	Remaining int64
	// ResetAt is when the current window expires and the counter resets.
	ResetAt time.Time
}
