package postgres

import (
	"context"
	"fmt"

	"github.com/neo-rgalvez/taskflow/internal/core/port"
)

// WorkspaceRepository implements port.WorkspaceReader against the project
// management tables. Counts are read in one round trip; users with no rows
// anywhere get a summary of zeros rather than an error.
type WorkspaceRepository struct {
	exec pgExecutor
}

// NewWorkspaceRepository constructs the workspace read model.
func NewWorkspaceRepository(exec pgExecutor) *WorkspaceRepository {
	return &WorkspaceRepository{exec: exec}
}

const workspaceSummarySQL = `
SELECT
    (SELECT COUNT(*) FROM clients WHERE user_id = $1),
    (SELECT COUNT(*) FROM projects WHERE user_id = $1),
    (SELECT COUNT(*) FROM tasks WHERE user_id = $1),
    (SELECT COUNT(*) FROM time_entries WHERE user_id = $1),
    (SELECT COUNT(*) FROM invoices WHERE user_id = $1)
`

// Summary returns the per-user entity counts shown on the dashboard.
func (r *WorkspaceRepository) Summary(ctx context.Context, userID string) (*port.WorkspaceSummary, error) {
	row := r.exec.QueryRow(ctx, workspaceSummarySQL, userID)

	var summary port.WorkspaceSummary
	if err := row.Scan(
		&summary.Clients,
		&summary.Projects,
		&summary.Tasks,
		&summary.TimeEntries,
		&summary.Invoices,
	); err != nil {
		return nil, fmt.Errorf("scan workspace summary: %w", err)
	}

	return &summary, nil
}

var _ port.WorkspaceReader = (*WorkspaceRepository)(nil)
