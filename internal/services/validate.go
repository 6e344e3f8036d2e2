package services

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/liteauth/liteauth-be/internal/auth"
)

// Username bounds are enforced here, at the authoritative layer; the
// client-side validator uses the same limits so it never accepts a
// value the storage layer would reject.
const (
	UsernameMinLen = 3
	UsernameMaxLen = 20
	PasswordMinLen = 6
)

// RegisterInput is the payload accepted by user registration.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Validate applies the synchronous field rules. Uniqueness is not
// checked here; the store's unique indexes decide that on insert.
func (r RegisterInput) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("Username is required"),
			validation.Length(UsernameMinLen, UsernameMaxLen).Error("Username must be 3-20 characters long")),
		validation.Field(&r.Email,
			validation.Required.Error("Email is required"),
			is.Email.Error("Please enter a valid email")),
		validation.Field(&r.Password,
			validation.Required.Error("Password is required"),
			validation.Length(PasswordMinLen, 0).Error("Password must be at least 6 characters long")),
	)
	if err != nil {
		if ferr := firstFieldError(err); ferr != nil {
			return ferr
		}
		return &ValidationError{Field: "form", Message: err.Error()}
	}

	// Role is optional (defaults to user) but must be one of the two
	// enumerated values when present, in any casing.
	if r.Role != "" {
		if _, ok := auth.NormalizeRole(r.Role); !ok {
			return &ValidationError{Field: "role", Message: "Role must be either user or admin"}
		}
	}
	return nil
}

// firstFieldError converts an ozzo error map into a single
// field-scoped error, in form field order.
func firstFieldError(err error) *ValidationError {
	errs, ok := err.(validation.Errors)
	if !ok {
		return nil
	}
	for _, field := range []string{"username", "email", "password", "role"} {
		if ferr, ok := errs[field]; ok {
			return &ValidationError{Field: field, Message: ferr.Error()}
		}
	}
	return nil
}
