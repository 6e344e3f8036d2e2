package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/liteauth/liteauth-be/internal/auth"
	"github.com/liteauth/liteauth-be/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id string) (models.User, error)
	FindByUsername(username string) (models.User, error)
	FindByEmail(email string) (models.User, error)
	CreateUser(input RegisterInput) (models.User, error)
	UpdateRole(id, role string) (models.User, error)
	ListUsers() ([]models.UserSummary, error)
	AuthenticateUser(email, password string) (models.User, error)
}

// UserService provides business logic for registration, authentication
// and role management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

const userColumns = "id, username, email, password_hash, role, created_at, updated_at"

func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

// FindByUsername retrieves a user by username, case-insensitively.
func (s *UserService) FindByUsername(username string) (models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE username = ? COLLATE NOCASE", username)
	return scanUser(row)
}

// FindByEmail retrieves a user by email, case-insensitively.
func (s *UserService) FindByEmail(email string) (models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE email = ? COLLATE NOCASE", email)
	return scanUser(row)
}

// CreateUser validates the input, hashes the password and inserts the
// user. The role is normalized to its lowercase storage form and the
// email is stored lowercase. A violated unique index surfaces as
// ErrConflict even when a concurrent registration wins the race after
// the advisory availability check passed.
func (s *UserService) CreateUser(input RegisterInput) (models.User, error) {
	if err := input.Validate(); err != nil {
		return models.User{}, err
	}

	role := auth.RoleUser
	if input.Role != "" {
		role, _ = auth.NormalizeRole(input.Role)
	}

	hashedPassword, err := auth.HashPassword(input.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.New().String(),
		Username:     input.Username,
		Email:        strings.ToLower(input.Email),
		PasswordHash: hashedPassword,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	stmt, err := s.db.Prepare("INSERT INTO users(" + userColumns + ") VALUES(?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(user.ID, user.Username, user.Email, user.PasswordHash,
		user.Role, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrConflict
		}
		return models.User{}, err
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// UpdateRole sets a user's role, normalizing any input casing to the
// lowercase storage form.
func (s *UserService) UpdateRole(id, role string) (models.User, error) {
	normalized, ok := auth.NormalizeRole(role)
	if !ok {
		return models.User{}, ErrInvalidRole
	}

	res, err := s.db.Exec("UPDATE users SET role = ?, updated_at = ? WHERE id = ?",
		normalized, time.Now().UTC(), id)
	if err != nil {
		return models.User{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.User{}, err
	}
	if affected == 0 {
		return models.User{}, ErrNotFound
	}
	return s.GetUserByID(id)
}

// ListUsers returns every user, newest first. The password hash is
// never read off the row.
func (s *UserService) ListUsers() ([]models.UserSummary, error) {
	rows, err := s.db.Query("SELECT id, username, email, role, created_at FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.UserSummary{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.Role, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, auth.Summary(user))
	}
	return users, rows.Err()
}

// AuthenticateUser verifies a user's credentials. An unknown email and
// a wrong password both return ErrInvalidCredentials so the two cases
// are indistinguishable to the caller.
func (s *UserService) AuthenticateUser(email, password string) (models.User, error) {
	user, err := s.FindByEmail(email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return models.User{}, err
	}
	if !match {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// isUniqueViolation reports whether err is a sqlite unique-index
// constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
