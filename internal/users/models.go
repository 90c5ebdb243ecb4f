package users

import (
	"strings"
	"time"
)

// User is an identity record. Email is unique across all users.
// PasswordHash never leaves the process: it is excluded from JSON and every
// API response serializes this struct directly.
type User struct {
	ID           string `json:"id" db:"id"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Name         string `json:"name" db:"name"`

	// Role is either "user" or "admin".
	Role string `json:"role" db:"role"`

	// IsActive supports soft-deactivation; deactivated users keep their row.
	IsActive bool `json:"is_active" db:"is_active"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

func IsValidRole(r string) bool {
	return r == RoleUser || r == RoleAdmin
}

// CreateRequest carries the fields accepted when creating a user.
// Password arrives in plaintext and is hashed before persistence.
type CreateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
}

// Update lists the legally mutable fields. Nil pointers leave the stored
// value untouched. Email is intentionally absent: it is the identity key.
type Update struct {
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// NormalizeEmail applies the uniqueness policy: trimmed, lowercased.
// Uniqueness is therefore case-insensitive by construction.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
