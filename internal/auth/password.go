package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor applied to every stored credential.
const BcryptCost = 12

var (
	// ErrWeakInput is returned when asked to hash an empty plaintext.
	ErrWeakInput = errors.New("password must not be empty")
	// ErrCorruptCredential is returned when a stored hash cannot be parsed.
	ErrCorruptCredential = errors.New("stored credential is malformed")
)

// HashPassword applies a randomly-salted bcrypt hash to the plaintext.
// The plaintext is never logged.
func HashPassword(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrWeakInput
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword compares a plaintext against a stored bcrypt hash.
// A mismatch is reported as (false, nil); only a malformed stored hash
// is an error.
func VerifyPassword(plaintext, hashed string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, ErrCorruptCredential
}
