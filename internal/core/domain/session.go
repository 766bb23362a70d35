package domain

import "time"

// Session represents one authenticated browser or client context.
// The bearer token itself is never persisted; only its SHA-256 digest is
// stored, so a leaked sessions table does not yield usable credentials.
type Session struct {
	ID        string
	TokenHash string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
	IP        *string
	UserAgent *string
}

// IsActive reports whether the session is still valid at the supplied moment.
func (s Session) IsActive(at time.Time) bool {
	return s.ExpiresAt.After(at)
}

// Principal is the authenticated identity resolved for a request.
type Principal struct {
	UserID    string
	SessionID string
}
