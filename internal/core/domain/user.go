package domain

import (
	"strings"
	"time"
)

// User mirrors the persisted representation in the users table.
// Identity fields are immutable after signup; only the password hash is
// mutated, and only by the password-change flow.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// NormalizeEmail lowercases and trims an email address so uniqueness checks
// and lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
