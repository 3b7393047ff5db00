package domain

import "strings"

// Method is an HTTP method token recognized by the policy registry.
type Method string

// Supported HTTP method tokens.
const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
)

// DefaultMethod is the fallback returned by ParseMethodOrDefault.
const DefaultMethod = MethodGet

// ParseMethodOrDefault parses an HTTP method token case-insensitively.
// Unrecognized input returns DefaultMethod rather than an error; callers that
// need strict parsing should compare the result against the original input.
func ParseMethodOrDefault(raw string) Method {
	switch Method(strings.ToUpper(strings.TrimSpace(raw))) {
	case MethodGet:
		return MethodGet
	case MethodPost:
		return MethodPost
	case MethodPut:
		return MethodPut
	case MethodPatch:
		return MethodPatch
	case MethodDelete:
		return MethodDelete
	case MethodHead:
		return MethodHead
	case MethodOptions:
		return MethodOptions
	default:
		return DefaultMethod
	}
}

// IsReadOnly reports whether the method is classified as read-only.
// GET, HEAD and OPTIONS are read-only; POST, PUT, PATCH and DELETE are mutating.
func (m Method) IsReadOnly() bool {
	switch m {
	case MethodGet, MethodHead, MethodOptions:
		return true
	default:
		return false
	}
}

// String returns the canonical upper-case token.
func (m Method) String() string {
	return string(m)
}
