package models

import "time"

// User represents a user account in the system. Role is held in its
// canonical lowercase storage form; Summary converts it for display.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserSummary is the outward shape of a principal: no credential
// material, role in uppercase display case.
type UserSummary struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Views     []string  `json:"views,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
