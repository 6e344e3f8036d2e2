package services

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the user service. Handlers map these to
// HTTP statuses; anything else is reported as a generic failure so
// internal detail never leaks outward.
var (
	// ErrConflict signals a violated uniqueness constraint. The store's
	// unique indexes are the authority; client-side availability checks
	// are advisory only.
	ErrConflict = errors.New("user with this email or username already exists")

	// ErrNotFound signals an absent target principal.
	ErrNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned for both an unknown identity and
	// a wrong password, so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidRole signals a role outside the two enumerated values.
	ErrInvalidRole = errors.New("role must be either user or admin")

	// ErrForbidden signals a role-gated operation attempted by a
	// principal without the required role.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError is a client-correctable, field-scoped input error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is (or wraps) a field validation error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
