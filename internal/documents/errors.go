package documents

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/docket/pkg/repository"
)

// Domain errors for document operations.
var (
	ErrNotFound      = errors.New("document not found")
	ErrDuplicate     = errors.New("document already exists")
	ErrFileTooLarge  = errors.New("file exceeds maximum upload size")
	ErrInvalidFile   = errors.New("invalid file")
	ErrInvalidID     = errors.New("invalid document id")
	ErrInvalidFields = errors.New("invalid fields payload")
	ErrFieldNotFound = errors.New("field not found on document")
	ErrInvalidStatus = errors.New("invalid document status")
)

// MapHTTPStatus maps document domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrFieldNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidFile),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidFields),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, repository.ErrConstraint):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
