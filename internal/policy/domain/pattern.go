// Package domain defines the core domain models for endpoint access policies:
// URL pattern templates, HTTP method tokens, and role/permission requirement sets.
package domain

import (
	"strings"

	apperrors "github.com/ryuqq/authhub/internal/errors"
)

// maxPatternLength is the upper bound on an endpoint template string.
const maxPatternLength = 500

// segmentKind classifies one segment of a compiled pattern.
type segmentKind int

const (
	// segmentLiteral matches a path segment exactly (case-sensitive).
	segmentLiteral segmentKind = iota
	// segmentVariable ({name}) matches exactly one non-empty path segment.
	segmentVariable
	// segmentWildcard (*) matches exactly one path segment.
	segmentWildcard
	// segmentMultiWildcard (**) matches one or more trailing segments.
	segmentMultiWildcard
)

// specificityClass ranks compiled patterns for tie-breaking in the registry.
// Lower values are more specific.
type specificityClass int

const (
	// classExact has only literal segments.
	classExact specificityClass = iota
	// classParameterized contains {name} or * segments but no trailing **.
	classParameterized
	// classPrefix ends in a multi-level ** wildcard.
	classPrefix
)

// patternSegment is one compiled segment of an endpoint template.
type patternSegment struct {
	kind    segmentKind
	literal string
}

// CompiledPattern is the matcher produced by compiling an endpoint template.
// It is immutable after compilation and safe for concurrent use.
type CompiledPattern struct {
	raw      string
	segments []patternSegment
	class    specificityClass
	// leadingLiterals is the number of literal segments before the first
	// variable or wildcard. Used as the secondary specificity key.
	leadingLiterals int
}

// CompilePattern validates an endpoint template and compiles it into a matcher.
//
// Template grammar, segment by segment:
//   - literal: matched exactly, case-sensitive
//   - {name}: matches exactly one non-empty segment of any content
//   - *: matches exactly one segment
//   - **: matches one or more remaining segments, only valid as the last segment
//
// Returns ErrInvalidPattern when the template is empty, does not start with "/",
// exceeds 500 characters, contains '?', '#' or '@', has an empty segment, uses
// a malformed {name} variable, or places "**" anywhere but the tail.
func CompilePattern(template string) (*CompiledPattern, error) {
	if template == "" {
		return nil, apperrors.Wrap(ErrInvalidPattern, "template is empty")
	}
	if !strings.HasPrefix(template, "/") {
		return nil, apperrors.Wrap(ErrInvalidPattern, "template must start with '/'")
	}
	if len(template) > maxPatternLength {
		return nil, apperrors.Wrap(ErrInvalidPattern, "template exceeds 500 characters")
	}
	if strings.ContainsAny(template, "?#@") {
		return nil, apperrors.Wrap(ErrInvalidPattern, "template contains a forbidden character")
	}

	compiled := &CompiledPattern{raw: template}

	// The root template "/" compiles to zero segments and matches only "/".
	if template == "/" {
		return compiled, nil
	}

	rawSegments := strings.Split(template[1:], "/")
	countingLeading := true
	for i, raw := range rawSegments {
		seg, err := compileSegment(raw, i == len(rawSegments)-1)
		if err != nil {
			return nil, err
		}
		compiled.segments = append(compiled.segments, seg)

		if seg.kind == segmentLiteral && countingLeading {
			compiled.leadingLiterals++
		} else {
			countingLeading = false
		}

		switch seg.kind {
		case segmentMultiWildcard:
			compiled.class = classPrefix
		case segmentVariable, segmentWildcard:
			if compiled.class == classExact {
				compiled.class = classParameterized
			}
		}
	}

	return compiled, nil
}

// MustCompilePattern compiles a template and panics on error.
// Intended for static policy tables defined in code and for tests.
func MustCompilePattern(template string) *CompiledPattern {
	compiled, err := CompilePattern(template)
	if err != nil {
		panic(err)
	}
	return compiled
}

func compileSegment(raw string, isLast bool) (patternSegment, error) {
	switch {
	case raw == "":
		return patternSegment{}, apperrors.Wrap(ErrInvalidPattern, "template contains an empty segment")

	case raw == "**":
		if !isLast {
			return patternSegment{}, apperrors.Wrap(ErrInvalidPattern, "'**' is only valid as the trailing segment")
		}
		return patternSegment{kind: segmentMultiWildcard}, nil

	case raw == "*":
		return patternSegment{kind: segmentWildcard}, nil

	case strings.HasPrefix(raw, "{") || strings.HasSuffix(raw, "}"):
		name, ok := strings.CutPrefix(raw, "{")
		if !ok {
			return patternSegment{}, apperrors.Wrap(ErrInvalidPattern, "malformed path variable")
		}
		name, ok = strings.CutSuffix(name, "}")
		if !ok || name == "" || strings.ContainsAny(name, "{}*") {
			return patternSegment{}, apperrors.Wrap(ErrInvalidPattern, "malformed path variable")
		}
		return patternSegment{kind: segmentVariable}, nil

	case strings.ContainsAny(raw, "{}*"):
		return patternSegment{}, apperrors.Wrap(ErrInvalidPattern, "literal segment contains a reserved character")

	default:
		return patternSegment{kind: segmentLiteral, literal: raw}, nil
	}
}

// String returns the original template.
func (p *CompiledPattern) String() string {
	return p.raw
}

// Matches reports whether a concrete request path satisfies the pattern.
// Matching is case-sensitive on literals. A trailing "**" requires at least
// one remaining path segment: "/api/v1/admin/**" matches "/api/v1/admin/x"
// but not "/api/v1/admin" itself.
func (p *CompiledPattern) Matches(path string) bool {
	if !strings.HasPrefix(path, "/") {
		return false
	}

	if path == "/" {
		return len(p.segments) == 0
	}
	if len(p.segments) == 0 {
		return false
	}

	pathSegments := strings.Split(path[1:], "/")

	for i, seg := range p.segments {
		if seg.kind == segmentMultiWildcard {
			// One or more remaining segments, all of them non-empty.
			if len(pathSegments) <= i {
				return false
			}
			for _, rest := range pathSegments[i:] {
				if rest == "" {
					return false
				}
			}
			return true
		}

		if i >= len(pathSegments) {
			return false
		}
		candidate := pathSegments[i]
		if candidate == "" {
			return false
		}

		switch seg.kind {
		case segmentLiteral:
			if candidate != seg.literal {
				return false
			}
		case segmentVariable, segmentWildcard:
			// Any single non-empty segment.
		}
	}

	return len(pathSegments) == len(p.segments)
}

// CompareSpecificity orders two patterns for registry tie-breaking.
// It returns a negative value when p is more specific than other, a positive
// value when less specific, and zero when the ranking cannot separate them.
//
// Ranking: exact-literal patterns beat parameterized ones, which beat trailing
// "**" prefixes; among equals, more leading literal segments wins. A zero
// result for two overlapping patterns is an ambiguous configuration and is
// rejected at registration time.
func (p *CompiledPattern) CompareSpecificity(other *CompiledPattern) int {
	if p.class != other.class {
		return int(p.class) - int(other.class)
	}
	return other.leadingLiterals - p.leadingLiterals
}

// OverlapsWith reports whether some constructible path could match both
// patterns. Used at registration time to detect ambiguous policy pairs.
func (p *CompiledPattern) OverlapsWith(other *CompiledPattern) bool {
	a, b := p.segments, other.segments

	for i := 0; i < len(a) || i < len(b); i++ {
		// A trailing ** absorbs whatever the other pattern still requires,
		// as long as the other pattern has at least one segment left.
		if i < len(a) && a[i].kind == segmentMultiWildcard {
			return i < len(b)
		}
		if i < len(b) && b[i].kind == segmentMultiWildcard {
			return i < len(a)
		}

		// One pattern ran out of segments before the other.
		if i >= len(a) || i >= len(b) {
			return false
		}

		if a[i].kind == segmentLiteral && b[i].kind == segmentLiteral && a[i].literal != b[i].literal {
			return false
		}
	}

	return true
}
