package strategy

import (
	"errors"
	"fmt"
	"strings"
)

// MissingFieldError reports a required document key that was absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// TypeMismatchError reports a document value that could not be coerced to
// the field's declared type.
type TypeMismatchError struct {
	Field    string
	Expected string
	Value    interface{}
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("field %q: expected %s, got %v (%T)", e.Field, e.Expected, e.Value, e.Value)
}

// ConstraintViolationError reports a violated range or ordering invariant.
// Fields lists every document key involved in the invariant.
type ConstraintViolationError struct {
	Invariant string
	Fields    []string
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("constraint violated [%s]: %s", strings.Join(e.Fields, ", "), e.Invariant)
}

// UnknownConfigVersionError reports a document whose config_version is not
// supported by this schema.
type UnknownConfigVersionError struct {
	Version int
}

func (e *UnknownConfigVersionError) Error() string {
	return fmt.Sprintf("unknown config version %d (supported: %d)", e.Version, ConfigVersion)
}

// ValidationErrors aggregates every problem found in a single validation
// pass. A document is accepted only when the batch is empty; callers keep
// the previously active config on rejection.
type ValidationErrors struct {
	Errors []error
}

func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(v.Errors))
	for _, err := range v.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation error(s): %s", len(v.Errors), strings.Join(msgs, "; "))
}

// Unwrap exposes the batch to errors.As, so callers can look for a
// specific failure type inside it.
func (v *ValidationErrors) Unwrap() []error {
	return v.Errors
}

func (v *ValidationErrors) add(err error) {
	v.Errors = append(v.Errors, err)
}

// orNil collapses an empty batch to nil so callers can use the usual
// err != nil check.
func (v *ValidationErrors) orNil() error {
	if len(v.Errors) == 0 {
		return nil
	}
	return v
}

// Messages returns one human-readable line per problem, in the order the
// fields were checked. The dashboard surfaces this list to the operator.
func (v *ValidationErrors) Messages() []string {
	msgs := make([]string, 0, len(v.Errors))
	for _, err := range v.Errors {
		msgs = append(msgs, err.Error())
	}
	return msgs
}

// AsValidationErrors unwraps err into a *ValidationErrors batch if it is one.
func AsValidationErrors(err error) (*ValidationErrors, bool) {
	var batch *ValidationErrors
	if errors.As(err, &batch) {
		return batch, true
	}
	return nil, false
}
