package auth

import (
	"testing"
	"time"

	"github.com/liteauth/liteauth-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"user", "user", true},
		{"USER", "user", true},
		{"User", "user", true},
		{"admin", "admin", true},
		{"ADMIN", "admin", true},
		{" Admin ", "admin", true},
		{"owner", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeRole(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

// Storage case, display case and the authorization check stay stable
// across a store -> display -> authorize round trip.
func TestRoleRoundTrip(t *testing.T) {
	for _, input := range []string{"admin", "ADMIN", "Admin"} {
		stored, ok := NormalizeRole(input)
		require.True(t, ok)
		assert.Equal(t, "admin", stored)

		display := DisplayRole(stored)
		assert.Equal(t, "ADMIN", display)

		// The display form feeds back into authorization unchanged.
		assert.True(t, IsAdmin(display))
		redone, ok := NormalizeRole(display)
		require.True(t, ok)
		assert.Equal(t, stored, redone)
	}
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, IsAdmin("admin"))
	assert.True(t, IsAdmin("ADMIN"))
	assert.False(t, IsAdmin("user"))
	assert.False(t, IsAdmin("USER"))
	assert.False(t, IsAdmin(""))
	assert.False(t, IsAdmin("administrator"))
}

func TestPermittedViews(t *testing.T) {
	assert.Equal(t, []string{ViewProfile}, PermittedViews("user"))
	assert.Equal(t, []string{ViewProfile}, PermittedViews("USER"))
	assert.Equal(t, []string{ViewProfile, ViewUserManagement}, PermittedViews("admin"))
	assert.Equal(t, []string{ViewProfile, ViewUserManagement}, PermittedViews("ADMIN"))
	// Unknown roles get the least privilege.
	assert.Equal(t, []string{ViewProfile}, PermittedViews("whatever"))
}

func TestSummaryStripsCredential(t *testing.T) {
	user := models.User{
		ID:           "id-1",
		Username:     "alice",
		Email:        "alice@x.com",
		PasswordHash: "$2a$12$secret",
		Role:         "user",
		CreatedAt:    time.Now(),
	}
	summary := Summary(user)
	assert.Equal(t, "USER", summary.Role)
	assert.Equal(t, "alice", summary.Username)
	assert.Equal(t, []string{ViewProfile}, summary.Views)
	assert.Equal(t, user.CreatedAt, summary.CreatedAt)
}
