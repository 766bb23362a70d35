package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/neo-rgalvez/taskflow/internal/core/domain"
)

func newTestAuthService(users *fakeUserRepo, sessions *fakeSessionRepo, events *fakePublisher) (*AuthService, *SessionService) {
	sessionSvc := NewSessionService(sessions, events, time.Hour, nil)
	return NewAuthService(users, fakeHasher{}, sessionSvc, events, nil), sessionSvc
}

func seedUser(t *testing.T, users *fakeUserRepo) domain.User {
	t.Helper()
	user := domain.User{
		ID:           "user-1",
		Email:        "ada@example.com",
		Name:         "Ada",
		PasswordHash: "hashed:Sup3rSecret",
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestLoginSuccess(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users)
	svc, _ := newTestAuthService(users, newFakeSessionRepo(), &fakePublisher{})

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "ADA@example.com",
		Password: "Sup3rSecret",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.User.ID != "user-1" {
		t.Fatalf("unexpected user %+v", result.User)
	}
	if result.User.PasswordHash != "" {
		t.Fatal("password hash must not leave the service")
	}
	if result.Token == "" {
		t.Fatal("expected a session token")
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users)
	svc, _ := newTestAuthService(users, newFakeSessionRepo(), &fakePublisher{})
	ctx := context.Background()

	_, unknownErr := svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "Sup3rSecret"})
	_, wrongErr := svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "wrong"})
	_, emptyErr := svc.Login(ctx, LoginInput{Email: "", Password: ""})

	for _, err := range []error{unknownErr, wrongErr, emptyErr} {
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("failure messages differ: %q vs %q", unknownErr, wrongErr)
	}
}

func TestLoginFailurePublishesMaskedEmail(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users)
	events := &fakePublisher{}
	svc, _ := newTestAuthService(users, newFakeSessionRepo(), events)

	svc.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: "wrong"})

	if len(events.events) != 1 || events.events[0].Kind != domain.EventLoginFailed {
		t.Fatalf("expected one login.failed event, got %+v", events.events)
	}
	masked, _ := events.events[0].Payload["email"].(string)
	if masked == "ada@example.com" {
		t.Fatal("event payload must not carry the raw email")
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users)
	svc, sessionSvc := newTestAuthService(users, newFakeSessionRepo(), &fakePublisher{})
	ctx := context.Background()

	result, err := svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "Sup3rSecret"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if err := svc.Logout(ctx, result.Token); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if _, err := sessionSvc.Resolve(ctx, result.Token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected session gone after logout, got %v", err)
	}

	// Logout without a session is still fine.
	if err := svc.Logout(ctx, "unknown-token"); err != nil {
		t.Fatalf("Logout of unknown token returned error: %v", err)
	}
}

func TestResolveSession(t *testing.T) {
	users := newFakeUserRepo()
	user := seedUser(t, users)
	svc, _ := newTestAuthService(users, newFakeSessionRepo(), &fakePublisher{})
	ctx := context.Background()

	result, err := svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "Sup3rSecret"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	principal, resolved, err := svc.ResolveSession(ctx, result.Token)
	if err != nil {
		t.Fatalf("ResolveSession returned error: %v", err)
	}
	if principal.UserID != user.ID || resolved.Email != user.Email {
		t.Fatalf("unexpected resolution %+v %+v", principal, resolved)
	}
	if resolved.PasswordHash != "" {
		t.Fatal("password hash must not leave the service")
	}
}

func TestResolveSessionOrphanedUser(t *testing.T) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	svc, sessionSvc := newTestAuthService(users, sessions, &fakePublisher{})
	ctx := context.Background()

	token, _, err := sessionSvc.Create(ctx, "deleted-user", nil, nil)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, _, err := svc.ResolveSession(ctx, token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession for orphaned session, got %v", err)
	}
}
