package apperr

import (
	"errors"
	"net/http"
)

// HTTPStatus maps an error to the status the API layer responds with.
// Foreign errors are treated as internal.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeValidation, CodeOrderConflict:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeDuplicate, CodeNameConflict:
		return http.StatusConflict
	case CodeStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FieldOf extracts the offending field for validation errors, or "".
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}
