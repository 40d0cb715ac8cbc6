package errs

import "fmt"

// NewNotFoundError creates a not-found error.
//
// code is optional; nil falls back to "NOT_FOUND".
func NewNotFoundError(message string, code *string) *Error {
	formattedCode := MakeUpperCaseWithUnderscores("not found")
	if code != nil {
		formattedCode = *code
	}

	return &Error{
		Code:    formattedCode,
		Message: message,
		Kind:    KindNotFound,
	}
}

// NotFound builds the not-found error for a lookup of entity by id.
//
//	NotFound("question", 7) -> QUESTION_NOT_FOUND "question 7 not found"
func NotFound(entity string, id int64) *Error {
	code := MakeUpperCaseWithUnderscores(entity + " not found")
	return NewNotFoundError(fmt.Sprintf("%s %d not found", entity, id), &code)
}

// NewValidationError creates a validation error carrying field errors.
func NewValidationError(message string, fieldErrors []FieldError) *Error {
	return &Error{
		Code:    ErrValidation.Code,
		Message: message,
		Kind:    KindValidation,
		Errors:  fieldErrors,
	}
}

// NewStoreError wraps a driver error as a store failure.
//
// code is optional; nil falls back to "STORE_FAILURE".
func NewStoreError(message string, code *string, err error) *Error {
	formattedCode := ErrStore.Code
	if code != nil {
		formattedCode = *code
	}

	return &Error{
		Code:    formattedCode,
		Message: message,
		Kind:    KindStore,
		err:     err,
	}
}
