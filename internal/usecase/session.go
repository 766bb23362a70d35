package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/neo-rgalvez/taskflow/internal/core/domain"
	"github.com/neo-rgalvez/taskflow/internal/core/port"
	"github.com/neo-rgalvez/taskflow/internal/infra/security"
	"github.com/neo-rgalvez/taskflow/internal/repository"
)

// ErrInvalidSession indicates the presented token matches no active session.
// Missing, destroyed, and expired sessions are deliberately indistinguishable
// through this error.
var ErrInvalidSession = errors.New("invalid session")

// SessionService owns the session lifecycle: issuing bearer tokens, resolving
// them back to principals, and destroying them. Only token digests cross the
// repository boundary.
type SessionService struct {
	sessions port.SessionRepository
	events   port.EventPublisher
	logger   *zap.Logger
	lifetime time.Duration
	now      func() time.Time
}

// NewSessionService constructs a session service with the configured lifetime.
func NewSessionService(sessions port.SessionRepository, events port.EventPublisher, lifetime time.Duration, logger *zap.Logger) *SessionService {
	if lifetime <= 0 {
		lifetime = 720 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		sessions: sessions,
		events:   events,
		logger:   logger,
		lifetime: lifetime,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the internal clock for deterministic tests.
func (s *SessionService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// Create issues a fresh session for the user and returns the bearer token.
// The token leaves this method exactly once; afterwards only its digest
// exists server side.
func (s *SessionService) Create(ctx context.Context, userID string, ip, userAgent *string) (string, domain.Session, error) {
	if userID == "" {
		return "", domain.Session{}, fmt.Errorf("user id is required")
	}

	token, err := security.GenerateSecureToken(security.SessionTokenBytes)
	if err != nil {
		return "", domain.Session{}, fmt.Errorf("generate session token: %w", err)
	}

	now := s.now()
	session := domain.Session{
		ID:        uuid.NewString(),
		TokenHash: security.HashToken(token),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.lifetime),
		IP:        ip,
		UserAgent: userAgent,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return "", domain.Session{}, fmt.Errorf("persist session: %w", err)
	}

	s.publish(ctx, domain.AuthEvent{
		Kind:       domain.EventSessionCreated,
		UserID:     userID,
		SessionID:  session.ID,
		OccurredAt: now,
	})

	return token, session, nil
}

// Resolve maps a bearer token to the authenticated principal. Expired
// sessions resolve to ErrInvalidSession exactly like absent ones.
func (s *SessionService) Resolve(ctx context.Context, token string) (*domain.Principal, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	session, err := s.sessions.GetByTokenHash(ctx, security.HashToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}

	if !session.IsActive(s.now()) {
		return nil, ErrInvalidSession
	}

	return &domain.Principal{UserID: session.UserID, SessionID: session.ID}, nil
}

// Destroy removes the session behind the token. Destroying an absent or
// already destroyed session succeeds so logout stays idempotent.
func (s *SessionService) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	tokenHash := security.HashToken(token)

	session, err := s.sessions.GetByTokenHash(ctx, tokenHash)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("lookup session: %w", err)
	}

	if err := s.sessions.DeleteByTokenHash(ctx, tokenHash); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if session != nil {
		s.publish(ctx, domain.AuthEvent{
			Kind:       domain.EventSessionDestroyed,
			UserID:     session.UserID,
			SessionID:  session.ID,
			OccurredAt: s.now(),
		})
	}

	return nil
}

// DestroyAllForUser revokes every session the user holds, for password
// changes and account-level revocation.
func (s *SessionService) DestroyAllForUser(ctx context.Context, userID string) (int, error) {
	count, err := s.sessions.DeleteAllForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("delete user sessions: %w", err)
	}

	if count > 0 {
		s.publish(ctx, domain.AuthEvent{
			Kind:       domain.EventSessionDestroyed,
			UserID:     userID,
			OccurredAt: s.now(),
			Payload:    map[string]any{"sessions_destroyed": count},
		})
	}

	return count, nil
}

// SweepExpired deletes sessions past their expiry. Expired rows are already
// unusable through Resolve; the sweep just reclaims storage.
func (s *SessionService) SweepExpired(ctx context.Context) (int, error) {
	count, err := s.sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("sweep expired sessions: %w", err)
	}
	if count > 0 {
		s.logger.Info("swept expired sessions", zap.Int("count", count))
	}
	return count, nil
}

func (s *SessionService) publish(ctx context.Context, event domain.AuthEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("publish auth event failed",
			zap.String("event_type", event.Kind),
			zap.Error(err),
		)
	}
}
