package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/neo-rgalvez/taskflow/internal/core/domain"
	"github.com/neo-rgalvez/taskflow/internal/core/port"
	"github.com/neo-rgalvez/taskflow/internal/infra/logger"
	"github.com/neo-rgalvez/taskflow/internal/infra/security"
	"github.com/neo-rgalvez/taskflow/internal/repository"
)

// ErrEmailTaken indicates the normalized email already belongs to an account.
// Handlers must render it without echoing which account exists.
var ErrEmailTaken = errors.New("email already registered")

// RegistrationService handles new account onboarding.
type RegistrationService struct {
	users             port.UserRepository
	hasher            port.PasswordHasher
	passwordValidator *security.PasswordValidator
	sessionService    *SessionService
	events            port.EventPublisher
	logger            *zap.Logger
	now               func() time.Time
}

// NewRegistrationService constructs a registration service.
func NewRegistrationService(
	users port.UserRepository,
	hasher port.PasswordHasher,
	validator *security.PasswordValidator,
	sessions *SessionService,
	events port.EventPublisher,
	log *zap.Logger,
) *RegistrationService {
	if validator == nil {
		validator = security.DefaultPasswordValidator(8)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RegistrationService{
		users:             users,
		hasher:            hasher,
		passwordValidator: validator,
		sessionService:    sessions,
		events:            events,
		logger:            log,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the internal clock for deterministic tests.
func (s *RegistrationService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// SignupInput carries the signup request plus client metadata for the
// session record.
type SignupInput struct {
	Email           string
	Name            string
	Password        string
	ConfirmPassword string
	IP              *string
	UserAgent       *string
}

// SignupResult is the created account plus its first session.
type SignupResult struct {
	User    domain.User
	Token   string
	Session domain.Session
}

// Signup validates the input, creates the account, and logs the user in.
// The password is hashed before the user row exists, so a failed insert
// never leaves a usable credential behind.
func (s *RegistrationService) Signup(ctx context.Context, input SignupInput) (*SignupResult, error) {
	email := domain.NormalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)

	verr := NewValidationError()
	if email == "" {
		verr.Add("email", "email is required")
	} else if !ValidEmail(email) {
		verr.Add("email", "email address is not valid")
	}
	if name == "" {
		verr.Add("name", "name is required")
	}
	if input.Password == "" {
		verr.Add("password", "password is required")
	} else if err := s.passwordValidator.Validate(input.Password); err != nil {
		verr.Add("password", err.Error())
	}
	if input.ConfirmPassword != input.Password {
		verr.Add("confirmPassword", "passwords do not match")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// The unique index is the authority under concurrent signups; the
		// earlier lookup only exists for the common path.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, session, err := s.sessionService.Create(ctx, user.ID, input.IP, input.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.publish(ctx, domain.AuthEvent{
		Kind:       domain.EventUserRegistered,
		UserID:     user.ID,
		SessionID:  session.ID,
		OccurredAt: now,
		Payload: map[string]any{
			"email": logger.MaskEmail(user.Email),
		},
	})

	user.PasswordHash = ""
	return &SignupResult{User: user, Token: token, Session: session}, nil
}

func (s *RegistrationService) publish(ctx context.Context, event domain.AuthEvent) {
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
