package auth

import (
	"strings"

	"github.com/liteauth/liteauth-be/internal/models"
)

// Canonical role values. Roles are stored lowercase and displayed
// uppercase; every comparison goes through NormalizeRole so that
// "admin", "ADMIN" and "Admin" are the same role at every check site.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// View capability tags derived from a principal's role.
const (
	ViewProfile        = "profile"
	ViewUserManagement = "userManagement"
)

// NormalizeRole maps any casing of a role to its canonical storage form.
// The second return is false when the value is not a known role.
func NormalizeRole(role string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// DisplayRole maps a role to its canonical display form.
func DisplayRole(role string) string {
	return strings.ToUpper(role)
}

// IsAdmin reports whether the principal carries the admin role,
// regardless of the casing the role arrived in.
func IsAdmin(role string) bool {
	normalized, ok := NormalizeRole(role)
	return ok && normalized == RoleAdmin
}

// PermittedViews returns the set of views a role may access.
func PermittedViews(role string) []string {
	if IsAdmin(role) {
		return []string{ViewProfile, ViewUserManagement}
	}
	return []string{ViewProfile}
}

// Summary strips credential material from a principal and normalizes
// the role to display case.
func Summary(u models.User) models.UserSummary {
	return models.UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      DisplayRole(u.Role),
		Views:     PermittedViews(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
