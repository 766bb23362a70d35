package port

import "context"

// WorkspaceSummary aggregates per-user counts owned by the data layer.
type WorkspaceSummary struct {
	Clients     int
	Projects    int
	Tasks       int
	TimeEntries int
	Invoices    int
}

// WorkspaceReader is the read surface of the external data-access
// collaborator. The auth core only resolves a principal and forwards the
// user id; the collaborator owns the queries.
type WorkspaceReader interface {
	Summary(ctx context.Context, userID string) (*WorkspaceSummary, error)
}
