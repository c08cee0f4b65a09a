package auth

import "errors"

var (
	// ErrNotFound indicates a lookup by email, session id, or reset token
	// yielded no record.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates registration was attempted for an email
	// that is already stored.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidArgument indicates malformed input to an operation, such as
	// an empty token or password.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConstraintViolation indicates a storage-level uniqueness or
	// integrity violation.
	ErrConstraintViolation = errors.New("constraint violation")
)
