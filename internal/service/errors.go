package service

import (
	"errors"

	"socialMediaAPI/internal/apperr"
)

var domainErrors = []error{
	apperr.ErrUnauthenticated,
	apperr.ErrIdentityNotFound,
	apperr.ErrNotFound,
	apperr.ErrForbidden,
	apperr.ErrConflict,
	apperr.ErrInvalidInput,
}

// isDomainError reports whether err belongs to the caller-visible taxonomy
// rather than being an unexpected failure.
func isDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
