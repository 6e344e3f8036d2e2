package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/liteauth/liteauth-be/internal/models"
	"github.com/liteauth/liteauth-be/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testDebounce = 20 * time.Millisecond
	testTimeout  = time.Second
)

type lookupLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *lookupLog) record(field, value string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, field+":"+value)
}

func (l *lookupLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func allFree(log *lookupLog) func(ctx context.Context, field, value string) (bool, string, error) {
	return func(ctx context.Context, field, value string) (bool, string, error) {
		if log != nil {
			log.record(field, value)
		}
		return true, "available", nil
	}
}

func noSubmit(t *testing.T) func(context.Context, services.RegisterInput) (models.UserSummary, error) {
	return func(context.Context, services.RegisterInput) (models.UserSummary, error) {
		t.Fatal("submit must not be reached")
		return models.UserSummary{}, nil
	}
}

func waitStatus(t *testing.T, f *Form, field string, want FieldStatus) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if f.Field(field).Status == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("field %s never reached status %d (now %d)", field, want, f.Field(field).Status)
}

func fillValid(f *Form) {
	f.SetField("username", "alice")
	f.SetField("email", "alice@x.com")
	f.SetField("password", "Str0ng!Pass")
	f.SetField("role", "user")
}

func TestFormSyntaxRules(t *testing.T) {
	f := NewForm(allFree(nil), noSubmit(t), testDebounce, testTimeout)

	f.SetField("username", "ab")
	assert.Equal(t, StatusInvalid, f.Field("username").Status)
	assert.Equal(t, "Username must be at least 3 characters", f.Field("username").Err)

	f.SetField("email", "not-an-email")
	assert.Equal(t, StatusInvalid, f.Field("email").Status)

	f.SetField("password", "12345")
	assert.Equal(t, StatusInvalid, f.Field("password").Status)

	f.SetField("password", "123456")
	assert.Equal(t, StatusValid, f.Field("password").Status)

	f.SetField("role", "owner")
	assert.Equal(t, StatusInvalid, f.Field("role").Status)
	f.SetField("role", "ADMIN")
	assert.Equal(t, StatusValid, f.Field("role").Status)
}

// "a", "ab", "abc" typed inside the debounce window: exactly one
// availability request goes out, for "abc".
func TestFormSingleRequestPerBurst(t *testing.T) {
	log := &lookupLog{}
	f := NewForm(allFree(log), noSubmit(t), 50*time.Millisecond, testTimeout)

	f.SetField("username", "a")
	time.Sleep(5 * time.Millisecond)
	f.SetField("username", "ab")
	time.Sleep(5 * time.Millisecond)
	f.SetField("username", "abc")

	waitStatus(t, f, "username", StatusAvailable)
	assert.Equal(t, []string{"username:abc"}, log.all())
}

// A check resolving for an input the user already replaced never
// lands; the final state reflects the newest value's outcome.
func TestFormStaleResultDiscarded(t *testing.T) {
	release := make(chan struct{})
	lookup := func(ctx context.Context, field, value string) (bool, string, error) {
		if value == "abc" {
			<-release
			return false, "Username is already taken", nil
		}
		return true, "Username is available", nil
	}
	f := NewForm(lookup, noSubmit(t), time.Millisecond, testTimeout)

	f.SetField("username", "abc")
	time.Sleep(20 * time.Millisecond) // the "abc" lookup is now blocked in flight
	f.SetField("username", "abcd")
	waitStatus(t, f, "username", StatusAvailable)

	close(release) // stale "abc" result resolves last
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, StatusAvailable, f.Field("username").Status)
}

func TestFormUnavailable(t *testing.T) {
	lookup := func(ctx context.Context, field, value string) (bool, string, error) {
		return false, "Username is already taken", nil
	}
	f := NewForm(lookup, noSubmit(t), time.Millisecond, testTimeout)

	f.SetField("username", "alice")
	waitStatus(t, f, "username", StatusUnavailable)
	assert.Equal(t, "Username is already taken", f.Field("username").Message)
}

// Transport failure renders distinctly and blocks submission; it is
// never promoted to available.
func TestFormTransportFailureBlocksSubmit(t *testing.T) {
	lookup := func(ctx context.Context, field, value string) (bool, string, error) {
		if field == "email" {
			return false, "", errors.New("connection refused")
		}
		return true, "", nil
	}
	f := NewForm(lookup, noSubmit(t), time.Millisecond, testTimeout)

	fillValid(f)
	waitStatus(t, f, "username", StatusAvailable)
	waitStatus(t, f, "email", StatusUnknown)

	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrFormInvalid)
}

func TestFormSubmitWhileCheckInFlight(t *testing.T) {
	release := make(chan struct{})
	lookup := func(ctx context.Context, field, value string) (bool, string, error) {
		if field == "username" {
			<-release
		}
		return true, "", nil
	}
	f := NewForm(lookup, noSubmit(t), time.Millisecond, testTimeout)
	defer close(release)

	fillValid(f)
	waitStatus(t, f, "email", StatusAvailable)

	// The username check is still in flight: the submit is rejected
	// with the in-progress signal, not queued.
	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrValidationInProgress)
}

func TestFormSubmitRequiresEveryField(t *testing.T) {
	f := NewForm(allFree(nil), noSubmit(t), time.Millisecond, testTimeout)

	f.SetField("username", "alice")
	f.SetField("email", "alice@x.com")
	f.SetField("password", "Str0ng!Pass")
	waitStatus(t, f, "username", StatusAvailable)
	waitStatus(t, f, "email", StatusAvailable)

	// Role untouched.
	_, err := f.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, services.IsValidation(err))
}

func TestFormSubmit(t *testing.T) {
	var got services.RegisterInput
	submit := func(ctx context.Context, input services.RegisterInput) (models.UserSummary, error) {
		got = input
		return models.UserSummary{ID: "id-1", Username: input.Username, Role: "USER"}, nil
	}
	f := NewForm(allFree(nil), submit, time.Millisecond, testTimeout)

	fillValid(f)
	waitStatus(t, f, "username", StatusAvailable)
	waitStatus(t, f, "email", StatusAvailable)

	summary, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "id-1", summary.ID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "alice@x.com", got.Email)
}

// The store stays authoritative: a conflict on submit re-marks the
// fields unavailable even though the advisory checks said free.
func TestFormSubmitConflict(t *testing.T) {
	submit := func(context.Context, services.RegisterInput) (models.UserSummary, error) {
		return models.UserSummary{}, services.ErrConflict
	}
	f := NewForm(allFree(nil), submit, time.Millisecond, testTimeout)

	fillValid(f)
	waitStatus(t, f, "username", StatusAvailable)
	waitStatus(t, f, "email", StatusAvailable)

	_, err := f.Submit(context.Background())
	require.ErrorIs(t, err, services.ErrConflict)
	assert.Equal(t, StatusUnavailable, f.Field("username").Status)
	assert.Equal(t, StatusUnavailable, f.Field("email").Status)
}

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		want     Strength
	}{
		{"", VeryWeak},
		{"aaaa", Weak},             // lowercase only
		{"aaaa1", Fair},            // lowercase + digit
		{"Aaaa1", Good},            // + uppercase
		{"Aaaa1!", Strong},         // + symbol
		{"Aaaa1!xx", Strong},       // all five criteria clamp at Strong
		{"AAAAAAAA", Fair},         // length + uppercase
		{"Str0ng!Pass", Strong},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PasswordStrength(tt.password), "password %q", tt.password)
	}
}
