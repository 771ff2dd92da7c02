package fields

import (
	"errors"
	"net/http"
)

// Domain errors for field definition operations.
var (
	ErrNotFound    = errors.New("field not found")
	ErrDuplicate   = errors.New("field name already exists")
	ErrInvalidName = errors.New("field name required")
)

// MapHTTPStatus maps field domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidName) || errors.Is(err, ErrInvalidSeed) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
