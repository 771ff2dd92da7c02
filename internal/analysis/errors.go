package analysis

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/docket/internal/documents"
	"github.com/JaimeStill/docket/pkg/storage"
)

var (
	ErrDisabled       = errors.New("analysis webhook not configured")
	ErrDispatch       = errors.New("analysis dispatch failed")
	ErrInvalidPayload = errors.New("invalid analysis payload")
	ErrUnauthorized   = errors.New("invalid analysis secret")
)

// MapHTTPStatus maps analysis errors, and the document and storage errors
// they wrap, to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrDispatch):
		return http.StatusBadGateway
	case errors.Is(err, ErrInvalidPayload):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	}

	if status := documents.MapHTTPStatus(err); status != http.StatusInternalServerError {
		return status
	}
	return storage.MapHTTPStatus(err)
}
