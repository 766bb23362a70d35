package port

import (
	"context"
	"time"

	"github.com/neo-rgalvez/taskflow/internal/core/domain"
)

// SessionRepository deals with session storage. Validity semantics (expiry,
// token generation) live in the session service; the repository only moves
// records.
type SessionRepository interface {
	Create(ctx context.Context, session domain.Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteAllForUser(ctx context.Context, userID string) (int, error)
	DeleteExpired(ctx context.Context, reference time.Time) (int, error)
}
