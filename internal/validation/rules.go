// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/ryuqq/authhub/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string contains at least one non-whitespace character.
var NotBlank = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_not_blank_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_not_blank", "cannot be blank")
	}
	return nil
})

// AbsolutePath validates that a string is an absolute URL path starting with "/"
// and free of query, fragment, and userinfo characters.
var AbsolutePath = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_absolute_path_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if !strings.HasPrefix(s, "/") {
		return validation.NewError("validation_absolute_path", "must start with /")
	}
	if strings.ContainsAny(s, "?#@") {
		return validation.NewError(
			"validation_absolute_path_chars",
			"must not contain ?, # or @",
		)
	}
	return nil
})
