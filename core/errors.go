package core

import (
	"database/sql"
	"errors"
	"fmt"
)

// notFound reports whether err means "no such row", as opposed to a
// failing store. Only the former may be translated into a NotFoundError,
// everything else must surface as what it is.
func notFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// ValidationError means a required field is missing or malformed.
// The message is safe to surface verbatim.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

func validationErr(format string, args ...interface{}) error {
	return ValidationError{fmt.Sprintf(format, args...)}
}

// NotFoundError means the operation target does not exist.
type NotFoundError struct {
	Kind string
	ID   int
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// PermissionError means the caller's role set does not satisfy the
// operation. It carries no detail about which role would have sufficed.
type PermissionError struct{}

func (e PermissionError) Error() string {
	return "unauthorized"
}

// RoleMismatchError means an assignment target is not a writer.
type RoleMismatchError struct {
	Email string
}

func (e RoleMismatchError) Error() string {
	return fmt.Sprintf("%s is not a writer", e.Email)
}
