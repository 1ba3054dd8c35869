// Package apperr defines the error taxonomy shared by the service layer and
// both transports. Every failure a caller can observe wraps exactly one of
// the sentinels below; transports map them with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated covers missing, malformed, expired and forged tokens
	// as well as failed logins.
	ErrUnauthenticated = errors.New("could not validate credentials")
	// ErrIdentityNotFound means the token verified but its subject no longer
	// exists.
	ErrIdentityNotFound = errors.New("user not found")
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("not enough permissions")
	ErrConflict         = errors.New("conflict")
	ErrInvalidInput     = errors.New("invalid input")
)

// Conflict reasons reported for vote state mismatches.
const (
	ReasonAlreadyVoted = "already_voted"
	ReasonNoVote       = "no_vote"
	ReasonDuplicate    = "duplicate"
)

// ConflictError is a StateConflict carrying a machine-readable reason.
type ConflictError struct {
	Reason  string
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Unwrap() error { return ErrConflict }

// Conflict builds a ConflictError.
func Conflict(reason, msg string) error {
	return &ConflictError{Reason: reason, Message: msg}
}

// InvalidError reports a schema or range violation on a single field.
type InvalidError struct {
	Field   string
	Message string
}

func (e *InvalidError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *InvalidError) Unwrap() error { return ErrInvalidInput }

// Invalid builds an InvalidError for field.
func Invalid(field, format string, args ...any) error {
	return &InvalidError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFound wraps ErrNotFound with the kind of resource that was missing.
func NotFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

// ReasonOf returns the conflict reason carried by err, if any.
func ReasonOf(err error) string {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Reason
	}
	return ""
}
