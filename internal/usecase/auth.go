package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/neo-rgalvez/taskflow/internal/core/domain"
	"github.com/neo-rgalvez/taskflow/internal/core/port"
	"github.com/neo-rgalvez/taskflow/internal/infra/logger"
	"github.com/neo-rgalvez/taskflow/internal/repository"
)

// ErrInvalidCredentials covers both unknown email and wrong password.
// The distinction never leaves this package, so responses cannot be used
// to enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// decoyDigest is verified when the email is unknown so both login failure
// paths cost one argon2 computation.
const decoyDigest = "argon2id$v=19$m=65536,t=3,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// AuthService coordinates the login and logout flows.
type AuthService struct {
	users          port.UserRepository
	hasher         port.PasswordHasher
	sessionService *SessionService
	events         port.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	users port.UserRepository,
	hasher port.PasswordHasher,
	sessions *SessionService,
	events port.EventPublisher,
	log *zap.Logger,
) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:          users,
		hasher:         hasher,
		sessionService: sessions,
		events:         events,
		logger:         log,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// LoginInput carries the credentials plus client metadata for the session
// record.
type LoginInput struct {
	Email     string
	Password  string
	IP        *string
	UserAgent *string
}

// LoginResult is the authenticated account plus its new session.
type LoginResult struct {
	User    domain.User
	Token   string
	Session domain.Session
}

// Login verifies credentials and issues a new session on success.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := domain.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.Verify(input.Password, decoyDigest)
			s.recordFailure(ctx, email)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		s.recordFailure(ctx, email)
		return nil, ErrInvalidCredentials
	}

	token, session, err := s.sessionService.Create(ctx, user.ID, input.IP, input.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	sanitized := *user
	sanitized.PasswordHash = ""
	return &LoginResult{User: sanitized, Token: token, Session: session}, nil
}

// Logout destroys the presented session. It never reports whether a session
// existed.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessionService.Destroy(ctx, token)
}

// ResolveSession maps a bearer token to its principal and account record.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*domain.Principal, *domain.User, error) {
	principal, err := s.sessionService.Resolve(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		// A session pointing at a deleted account is treated as no session.
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidSession
		}
		return nil, nil, fmt.Errorf("lookup user: %w", err)
	}

	sanitized := *user
	sanitized.PasswordHash = ""
	return principal, &sanitized, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.events == nil {
		return
	}
	event := domain.AuthEvent{
		Kind:       domain.EventLoginFailed,
		OccurredAt: s.now(),
		Payload: map[string]any{
			"email": logger.MaskEmail(email),
		},
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("publish auth event failed",
			zap.String("event_type", event.Kind),
			zap.Error(err),
		)
	}
}
