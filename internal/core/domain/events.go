package domain

import "time"

// Event kinds emitted on the auth lifecycle stream.
const (
	EventUserRegistered   = "user.registered"
	EventSessionCreated   = "session.created"
	EventSessionDestroyed = "session.destroyed"
	EventLoginFailed      = "login.failed"
)

// AuthEvent captures a lifecycle change published to the event stream.
// Payload values must already be safe to emit (no credentials, masked PII).
type AuthEvent struct {
	ID         string
	Kind       string
	UserID     string
	SessionID  string
	OccurredAt time.Time
	Payload    map[string]any
}
