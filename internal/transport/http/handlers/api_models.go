package handlers

import "time"

// SignupRequest is the POST /api/signup body.
type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginRequest is the POST /api/login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserPayload is the public shape of an account. The password hash never
// appears here.
type UserPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserResponse wraps the account for signup, login, and whoami responses.
type UserResponse struct {
	User *UserPayload `json:"user"`
}

// SuccessResponse acknowledges an operation with no payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// WorkspaceResponse carries the per-user entity counts.
type WorkspaceResponse struct {
	Clients     int `json:"clients"`
	Projects    int `json:"projects"`
	Tasks       int `json:"tasks"`
	TimeEntries int `json:"timeEntries"`
	Invoices    int `json:"invoices"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports per-dependency readiness.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
