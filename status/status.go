// Package status carries the XACML status of an evaluation failure. An
// *status.Error is the only error type the evaluation path produces; it maps
// one-to-one onto an Indeterminate decision with a status code.
package status

import (
	"fmt"

	"github.com/dtc-forks/authzforce-core/constants"
)

// Error is an evaluation failure with a XACML status code. It travels up the
// expression tree as a Go error and becomes an Indeterminate decision at the
// rule or policy boundary.
type Error struct {
	Code    string
	Message string
	// MissingAttribute carries the fully-qualified name of the attribute a
	// must-be-present designator failed to find, for missing-attribute codes.
	MissingAttribute string
}

func (e *Error) Error() string {
	if e.MissingAttribute != "" {
		return fmt.Sprintf("%s: %s (attribute %s)", shortCode(e.Code), e.Message, e.MissingAttribute)
	}
	return fmt.Sprintf("%s: %s", shortCode(e.Code), e.Message)
}

// NewMissingAttribute builds a missing-attribute error for the named
// attribute.
func NewMissingAttribute(fqn string) *Error {
	return &Error{
		Code:             constants.StatusMissingAttribute,
		Message:          "required attribute is not present in the request",
		MissingAttribute: fqn,
	}
}

// NewSyntaxError builds a syntax-error status.
func NewSyntaxError(format string, args ...any) *Error {
	return &Error{Code: constants.StatusSyntaxError, Message: fmt.Sprintf(format, args...)}
}

// NewProcessingError builds a processing-error status.
func NewProcessingError(format string, args ...any) *Error {
	return &Error{Code: constants.StatusProcessingError, Message: fmt.Sprintf(format, args...)}
}

// Wrap coerces any error into a *Error, defaulting to processing-error for
// errors raised outside the typed evaluation path.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	if se, ok := err.(*Error); ok {
		return se
	}
	return &Error{Code: constants.StatusProcessingError, Message: err.Error()}
}

func shortCode(code string) string {
	for i := len(code) - 1; i >= 0; i-- {
		if code[i] == ':' {
			return code[i+1:]
		}
	}
	return code
}
