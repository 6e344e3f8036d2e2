// Package client implements the registration-form session logic a
// frontend runs against the service: synchronous field validation,
// debounced availability checks, the combined submit gate, and the
// single source of truth for the logged-in principal.
package client

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"time"

	"github.com/liteauth/liteauth-be/internal/auth"
	"github.com/liteauth/liteauth-be/internal/availability"
	"github.com/liteauth/liteauth-be/internal/models"
	"github.com/liteauth/liteauth-be/internal/services"
)

// FieldStatus is the per-field validation state machine:
// Untouched -> Invalid | Pending -> Available | Unavailable | Unknown.
// Fields with no availability dimension (password, role) terminate at
// Valid instead of Pending.
type FieldStatus int

const (
	StatusUntouched FieldStatus = iota
	StatusInvalid               // syntactic rule violated
	StatusValid                 // syntax ok, no availability question
	StatusPending               // syntax ok, availability check scheduled or in flight
	StatusAvailable
	StatusUnavailable
	StatusUnknown // availability could not be verified
)

// FieldState holds one field's value and where it sits in the state
// machine. Reset on every input event affecting the field.
type FieldState struct {
	Value   string
	Status  FieldStatus
	Err     string // syntactic error message, empty when none
	Message string // availability outcome message
}

// Submit gate failures.
var (
	// ErrValidationInProgress rejects a submit attempted while any
	// field's availability check is mid-flight. The submit is not
	// queued; the caller retries once checks settle.
	ErrValidationInProgress = errors.New("please wait for validation to complete")

	// ErrFormInvalid rejects a submit while any field is syntactically
	// invalid, unavailable, or unverified.
	ErrFormInvalid = errors.New("form has validation errors")
)

var emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Form is a registration form session. All transitions go through
// SetField and the checker callback, both serialized by the mutex, so
// a stale availability result can never overwrite a newer input.
type Form struct {
	mu      sync.Mutex
	fields  map[string]*FieldState
	checker *availability.Checker
	submit  func(ctx context.Context, input services.RegisterInput) (models.UserSummary, error)
}

// NewForm builds a form whose availability checks resolve through
// lookup and whose submission goes through submit. The debounce quiet
// period and lookup timeout are injectable for tests; zero values get
// the 600ms/5s defaults.
func NewForm(
	lookup availability.LookupFunc,
	submit func(ctx context.Context, input services.RegisterInput) (models.UserSummary, error),
	debounce, timeout time.Duration,
) *Form {
	f := &Form{
		fields: map[string]*FieldState{
			"username": {},
			"email":    {},
			"password": {},
			"role":     {},
		},
		submit: submit,
	}
	f.checker = availability.NewChecker(lookup, debounce, timeout, f.applyResult)
	return f
}

// SetField records an input event for a field and runs its syntactic
// rules. Valid username/email values schedule a debounced availability
// check; anything else cancels whatever was pending for that field.
func (f *Form) SetField(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	field, ok := f.fields[name]
	if !ok {
		return
	}
	field.Value = value
	field.Message = ""

	switch name {
	case "username":
		if len(value) == 0 {
			field.Status = StatusUntouched
			field.Err = ""
			f.checker.Cancel(name)
			return
		}
		if len(value) < services.UsernameMinLen {
			field.Status = StatusInvalid
			field.Err = "Username must be at least 3 characters"
			f.checker.Cancel(name)
			return
		}
		if len(value) > services.UsernameMaxLen {
			field.Status = StatusInvalid
			field.Err = "Username cannot exceed 20 characters"
			f.checker.Cancel(name)
			return
		}
		field.Status = StatusPending
		field.Err = ""
		f.checker.Check(name, value)

	case "email":
		if len(value) == 0 {
			field.Status = StatusUntouched
			field.Err = ""
			f.checker.Cancel(name)
			return
		}
		if !emailRe.MatchString(value) {
			field.Status = StatusInvalid
			field.Err = "Please enter a valid email"
			f.checker.Cancel(name)
			return
		}
		field.Status = StatusPending
		field.Err = ""
		f.checker.Check(name, value)

	case "password":
		if len(value) == 0 {
			field.Status = StatusUntouched
			field.Err = ""
			return
		}
		if len(value) < services.PasswordMinLen {
			field.Status = StatusInvalid
			field.Err = "Password must be at least 6 characters"
			return
		}
		field.Status = StatusValid
		field.Err = ""

	case "role":
		if len(value) == 0 {
			field.Status = StatusUntouched
			field.Err = ""
			return
		}
		if _, ok := auth.NormalizeRole(value); !ok {
			field.Status = StatusInvalid
			field.Err = "Role must be either user or admin"
			return
		}
		field.Status = StatusValid
		field.Err = ""
	}
}

// applyResult folds a resolved availability check into the form. The
// checker already fences by sequence number; the value comparison here
// additionally guards against a result for an input the user has since
// replaced.
func (f *Form) applyResult(r availability.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()

	field, ok := f.fields[r.Field]
	if !ok || field.Value != r.Value || field.Status != StatusPending {
		return
	}
	field.Message = r.Message
	switch r.Status {
	case availability.StatusAvailable:
		field.Status = StatusAvailable
	case availability.StatusUnavailable:
		field.Status = StatusUnavailable
	default:
		// Could not verify: rendered distinctly, and the submit gate
		// refuses to treat it as validated.
		field.Status = StatusUnknown
	}
}

// Field returns a snapshot of one field's state.
func (f *Form) Field(name string) FieldState {
	f.mu.Lock()
	defer f.mu.Unlock()
	if field, ok := f.fields[name]; ok {
		return *field
	}
	return FieldState{}
}

// Submit enforces the combined gate and, when it holds, registers the
// user. Gate: every field syntactically valid, no availability check
// mid-flight, nothing resolved unavailable or unverified.
func (f *Form) Submit(ctx context.Context) (models.UserSummary, error) {
	f.mu.Lock()
	for name, field := range f.fields {
		switch field.Status {
		case StatusUntouched:
			f.mu.Unlock()
			return models.UserSummary{}, &services.ValidationError{Field: name, Message: name + " is required"}
		case StatusPending:
			f.mu.Unlock()
			return models.UserSummary{}, ErrValidationInProgress
		case StatusInvalid, StatusUnavailable, StatusUnknown:
			f.mu.Unlock()
			return models.UserSummary{}, ErrFormInvalid
		}
	}
	input := services.RegisterInput{
		Username: f.fields["username"].Value,
		Email:    f.fields["email"].Value,
		Password: f.fields["password"].Value,
		Role:     f.fields["role"].Value,
	}
	f.mu.Unlock()

	summary, err := f.submit(ctx, input)
	if err != nil {
		// A conflict at the authoritative store re-marks the fields as
		// unavailable; the advisory checks were stale.
		if errors.Is(err, services.ErrConflict) {
			f.mu.Lock()
			f.fields["username"].Status = StatusUnavailable
			f.fields["email"].Status = StatusUnavailable
			f.mu.Unlock()
		}
		return models.UserSummary{}, err
	}
	return summary, nil
}
