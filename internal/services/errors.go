package services

import (
	"database/sql"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
	ErrBadCreds = errors.New("invalid email or password")
	// ErrInUse blocks deleting a row other records still point at.
	ErrInUse = errors.New("still referenced")
)

// ValidationError reports a bad input field; handlers turn it into a 400.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

func invalid(field, msg string) error { return &ValidationError{Field: field, Msg: msg} }

// ErrInvalidTransition is returned when an order may not move to the
// requested status.
var ErrInvalidTransition = &ValidationError{Field: "status", Msg: "status change not allowed"}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
