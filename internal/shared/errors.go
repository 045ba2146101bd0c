package shared

import "errors"

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a uniqueness violation (slug, email).
	ErrDuplicate = errors.New("duplicate entry")
	// ErrValidation indicates malformed or invalid input.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthenticated indicates a missing, invalid or expired credential.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden indicates the caller is authenticated but lacks access.
	ErrForbidden = errors.New("access denied")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
