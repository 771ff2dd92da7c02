package settings

import (
	"errors"
	"net/http"
)

// Domain errors for settings operations.
var (
	ErrNotFound         = errors.New("settings not found")
	ErrInvalidThreshold = errors.New("confidence_threshold must be a number between 0 and 100")
)

// MapHTTPStatus maps settings domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidThreshold) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
