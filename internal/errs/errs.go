// Package errs defines the error taxonomy of the data-access layer.
//
// Every error leaving a repository or service is either nil or an *Error of
// one of three kinds:
//   - KindNotFound: a single-row lookup matched zero rows
//   - KindValidation: an entity or argument was rejected before any query ran
//   - KindStore: the store rejected or could not execute a statement
//
// Callers branch with errors.Is against the sentinels below. Store errors
// keep the driver error reachable through Unwrap.
package errs

import "strings"

// Kind classifies an Error.
type Kind string

const (
	KindNotFound   Kind = "not_found"
	KindValidation Kind = "validation"
	KindStore      Kind = "store"
)

// FieldError represents a field-level validation error.
//
//	{ "field": "title", "error": "is required" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// Error is the custom error type returned by the data-access layer.
//
// Fields:
//   - Code: machine-friendly code (e.g. "QUESTION_NOT_FOUND")
//   - Message: human-friendly message
//   - Kind: NotFound, Validation or Store
//   - Errors: per-field validation errors
type Error struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Kind    Kind         `json:"kind"`
	Errors  []FieldError `json:"errors,omitempty"`

	err error
}

// Sentinels for errors.Is. Matching is by Kind only.
var (
	ErrNotFound   = &Error{Code: "NOT_FOUND", Message: "record not found", Kind: KindNotFound}
	ErrValidation = &Error{Code: "VALIDATION_FAILED", Message: "validation failed", Kind: KindValidation}
	ErrStore      = &Error{Code: "STORE_FAILURE", Message: "store failure", Kind: KindStore}
)

func (e *Error) Error() string {
	if e.err != nil {
		return e.Message + ": " + e.err.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying driver error, if any.
func (e *Error) Unwrap() error {
	return e.err
}

// Is reports whether target is an *Error of the same Kind.
//
// It does not compare Code or Message, so errors.Is(err, ErrNotFound)
// matches every not-found error regardless of entity.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// MakeUpperCaseWithUnderscores converts "Not Found" into "NOT_FOUND".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
