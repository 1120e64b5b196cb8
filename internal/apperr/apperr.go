// Package apperr defines the error taxonomy shared by the catalog core.
// Every failure that crosses the usecase boundary is one of these codes;
// nothing below the usecase swallows an error.
package apperr

import (
	"errors"
	"fmt"
)

type Code string

const (
	// CodeValidation covers structurally invalid requests: bad order values,
	// missing product number, a supplier-code change on a supplier that still
	// has components.
	CodeValidation Code = "validation"

	// CodeDuplicate means another entity already claims a unique combination
	// (product number within supplier scope, color within component).
	CodeDuplicate Code = "duplicate_entity"

	// CodeOrderConflict means another picture in the same scope already holds
	// the requested position.
	CodeOrderConflict Code = "order_conflict"

	// CodeStorageUnavailable is a transient file-store failure. Retried once
	// per operation, then fatal to the request.
	CodeStorageUnavailable Code = "storage_unavailable"

	// CodeNameConflict means the file store holds an unrelated object under a
	// name we computed. Either a planner bug or external tampering; always
	// fatal, never silently resolved.
	CodeNameConflict Code = "name_conflict"

	// CodeNotFound covers both missing rows and missing files. Missing files
	// during deletion are downgraded to a warning by the orchestrator.
	CodeNotFound Code = "not_found"

	// CodeRollbackFailure means a reversal operation itself failed. State is
	// left for manual reconciliation.
	CodeRollbackFailure Code = "rollback_failure"
)

type Error struct {
	Code  Code
	Field string // offending field for client-facing validation errors
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, msg string, cause error) *Error {
	return &Error{Code: code, Msg: msg, Cause: cause}
}

// Validation builds a client-facing validation error naming the field.
func Validation(field, msg string) *Error {
	return &Error{Code: CodeValidation, Field: field, Msg: msg}
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf extracts the code, or "" for foreign errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
