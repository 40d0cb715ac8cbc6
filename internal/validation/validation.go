// Package validation contains the logic for validating entities before they
// reach the store.
//
// It uses the `validator` library to enforce rules (like required fields)
// defined in struct tags and extracts validation errors into errs field
// errors the caller can understand.
package validation
