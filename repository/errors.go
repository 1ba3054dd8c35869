package repository

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrDuplicate is returned when an insert violates a UNIQUE or PRIMARY KEY constraint.
	ErrDuplicate = errors.New("duplicate row")
	// ErrMissingReference is returned when an insert references a row that does not exist.
	ErrMissingReference = errors.New("referenced row does not exist")
)

// classify translates SQLite constraint violations into repository errors.
// Any other error is returned unchanged.
func classify(err error) error {
	var se sqlite3.Error
	if !errors.As(err, &se) || se.Code != sqlite3.ErrConstraint {
		return err
	}
	switch se.ExtendedCode {
	case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	case sqlite3.ErrConstraintForeignKey:
		return fmt.Errorf("%w: %w", ErrMissingReference, err)
	}
	return err
}
