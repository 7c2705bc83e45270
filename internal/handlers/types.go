package handlers

import (
	"errors"

	"botcontrol/internal/strategy"
)

// ValidationIssue is the wire form of a single validation failure.
type ValidationIssue struct {
	Type    string   `json:"type"`
	Fields  []string `json:"fields,omitempty"`
	Message string   `json:"message"`
}

// ValidationResp is returned by the validate endpoint and, on rejection,
// by every endpoint that accepts a configuration document.
type ValidationResp struct {
	Valid       bool              `json:"valid"`
	Issues      []ValidationIssue `json:"issues,omitempty"`
	UnknownKeys []string          `json:"unknown_keys,omitempty"`
}

// ActiveConfigResp wraps the active document with its revision metadata.
type ActiveConfigResp struct {
	Version  uint                   `json:"version"`
	Document strategy.Document      `json:"document"`
	Derived  strategy.DerivedValues `json:"derived"`
}

// UpdateResp is returned after a successful configuration update.
type UpdateResp struct {
	Version     uint                   `json:"version"`
	Source      string                 `json:"source"`
	Changes     []strategy.FieldChange `json:"changes"`
	UnknownKeys []string               `json:"unknown_keys,omitempty"`
	Derived     strategy.DerivedValues `json:"derived"`
}

// BuildValidationIssues flattens a validation error batch into wire form.
func BuildValidationIssues(ve *strategy.ValidationErrors) []ValidationIssue {
	issues := make([]ValidationIssue, 0, len(ve.Errors))
	for _, err := range ve.Errors {
		issues = append(issues, buildValidationIssue(err))
	}
	return issues
}

func buildValidationIssue(err error) ValidationIssue {
	var missing *strategy.MissingFieldError
	if errors.As(err, &missing) {
		return ValidationIssue{
			Type:    "missing_field",
			Fields:  []string{missing.Field},
			Message: missing.Error(),
		}
	}

	var mismatch *strategy.TypeMismatchError
	if errors.As(err, &mismatch) {
		return ValidationIssue{
			Type:    "type_mismatch",
			Fields:  []string{mismatch.Field},
			Message: mismatch.Error(),
		}
	}

	var constraint *strategy.ConstraintViolationError
	if errors.As(err, &constraint) {
		return ValidationIssue{
			Type:    "constraint_violation",
			Fields:  constraint.Fields,
			Message: constraint.Error(),
		}
	}

	var version *strategy.UnknownConfigVersionError
	if errors.As(err, &version) {
		return ValidationIssue{
			Type:    "unknown_config_version",
			Message: version.Error(),
		}
	}

	return ValidationIssue{Type: "invalid", Message: err.Error()}
}
