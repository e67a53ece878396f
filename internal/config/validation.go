package config

import (
	"fmt"
	"strings"
)

// maxSegmentLen bounds names used as a single directory.
const maxSegmentLen = 255

// ValidationError is one rejected field.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("%s %s", ve.Field, ve.Message)
}

// ValidationErrors collects every problem found in one value, so a user
// sees all of them at once. The check methods append and return the
// receiver, and Err yields nil when nothing was recorded.
//
//	var errs config.ValidationErrors
//	errs.Required("name", d.Name).OneOf("kind", d.Kind, kinds)
//	return errs.Err()
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	switch len(ve) {
	case 0:
		return "valid"
	case 1:
		return ve[0].Error()
	}
	messages := make([]string, 0, len(ve))
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("%d problems: %s", len(ve), strings.Join(messages, "; "))
}

// HasErrors reports whether any check failed.
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Err returns the collection as an error, or nil when it is empty.
func (ve ValidationErrors) Err() error {
	if len(ve) == 0 {
		return nil
	}
	return ve
}

// Add records a failure. The optional value is kept for callers that
// inspect the errors.
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) *ValidationErrors {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{Field: field, Value: val, Message: message})
	return ve
}

// Required rejects an empty or blank value.
func (ve *ValidationErrors) Required(field, value string) *ValidationErrors {
	if strings.TrimSpace(value) == "" {
		ve.Add(field, "is required", value)
	}
	return ve
}

// OneOf rejects a value outside allowed.
func (ve *ValidationErrors) OneOf(field, value string, allowed []string) *ValidationErrors {
	for _, a := range allowed {
		if value == a {
			return ve
		}
	}
	return ve.Add(field, fmt.Sprintf("must be one of %s, got %q", strings.Join(allowed, ", "), value), value)
}

// MaxLength rejects a value longer than max bytes.
func (ve *ValidationErrors) MaxLength(field, value string, max int) *ValidationErrors {
	if len(value) > max {
		ve.Add(field, fmt.Sprintf("must not exceed %d characters", max), value)
	}
	return ve
}

// PathSegment rejects anything that is not exactly one directory name:
// empty, ".", "..", or containing a separator or NUL.
func (ve *ValidationErrors) PathSegment(field, value string) *ValidationErrors {
	if !IsPathSegment(value) {
		ve.Add(field, "must be a single path segment", value)
	}
	return ve
}

// IsPathSegment reports whether value is usable as one directory name.
func IsPathSegment(value string) bool {
	if strings.TrimSpace(value) == "" || len(value) > maxSegmentLen {
		return false
	}
	if value == "." || value == ".." {
		return false
	}
	return !strings.ContainsAny(value, "/\\\x00")
}
