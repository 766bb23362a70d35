package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/neo-rgalvez/taskflow/internal/core/domain"
	"github.com/neo-rgalvez/taskflow/internal/core/port"
	"github.com/neo-rgalvez/taskflow/internal/repository"
)

// SessionRepository implements port.SessionRepository backed by PostgreSQL.
// Rows hold token digests only; the bearer token never reaches this layer.
type SessionRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewSessionRepository constructs a repository backed by any executor that
// satisfies pgExecutor.
func NewSessionRepository(exec pgExecutor) *SessionRepository {
	return &SessionRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create persists a new session record.
func (r *SessionRepository) Create(ctx context.Context, session domain.Session) error {
	stmt, args, err := r.builder.Insert("sessions").
		Columns(
			"id",
			"token_hash",
			"user_id",
			"created_at",
			"expires_at",
			"ip",
			"user_agent",
		).
		Values(
			session.ID,
			session.TokenHash,
			session.UserID,
			session.CreatedAt,
			session.ExpiresAt,
			optionalString(session.IP),
			optionalString(session.UserAgent),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert session sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

// GetByTokenHash fetches a session by token digest. Expiry is not evaluated
// here; callers decide validity against their own clock.
func (r *SessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	stmt, args, err := r.builder.
		Select("id", "token_hash", "user_id", "created_at", "expires_at", "ip", "user_agent").
		From("sessions").
		Where(squirrel.Eq{"token_hash": tokenHash}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select session sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var session domain.Session
	if err := row.Scan(
		&session.ID,
		&session.TokenHash,
		&session.UserID,
		&session.CreatedAt,
		&session.ExpiresAt,
		&session.IP,
		&session.UserAgent,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	return &session, nil
}

// DeleteByTokenHash removes the session matching the token digest. Deleting
// an absent session is not an error so logout stays idempotent.
func (r *SessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	stmt, args, err := r.builder.Delete("sessions").
		Where(squirrel.Eq{"token_hash": tokenHash}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete session sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// DeleteAllForUser removes every session owned by the user and reports how
// many were destroyed.
func (r *SessionRepository) DeleteAllForUser(ctx context.Context, userID string) (int, error) {
	stmt, args, err := r.builder.Delete("sessions").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete user sessions sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("delete user sessions: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// DeleteExpired sweeps sessions whose expiry is at or before the reference
// moment.
func (r *SessionRepository) DeleteExpired(ctx context.Context, reference time.Time) (int, error) {
	stmt, args, err := r.builder.Delete("sessions").
		Where(squirrel.LtOrEq{"expires_at": reference}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete expired sessions sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

func optionalString(value *string) any {
	if value == nil || *value == "" {
		return nil
	}
	return *value
}

var _ port.SessionRepository = (*SessionRepository)(nil)
