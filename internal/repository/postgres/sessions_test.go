package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/neo-rgalvez/taskflow/internal/core/domain"
	"github.com/neo-rgalvez/taskflow/internal/repository"
)

func TestSessionRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewSessionRepository(mock)

	createdAt := time.Now().UTC()
	ip := "198.51.100.10"
	session := domain.Session{
		ID:        "session-1",
		TokenHash: "deadbeef",
		UserID:    "user-1",
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(720 * time.Hour),
		IP:        &ip,
	}

	mock.ExpectExec(`INSERT INTO sessions`).
		WithArgs(session.ID, session.TokenHash, session.UserID, session.CreatedAt, session.ExpiresAt, ip, nil).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), session); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSessionRepository_GetByTokenHash(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewSessionRepository(mock)

	createdAt := time.Now().UTC()
	expiresAt := createdAt.Add(time.Hour)
	rows := pgxmock.NewRows([]string{"id", "token_hash", "user_id", "created_at", "expires_at", "ip", "user_agent"}).
		AddRow("session-1", "deadbeef", "user-1", createdAt, expiresAt, nil, nil)

	mock.ExpectQuery(`SELECT .*FROM sessions`).
		WithArgs("deadbeef").
		WillReturnRows(rows)

	session, err := repo.GetByTokenHash(context.Background(), "deadbeef")
	if err != nil {
		t.Fatalf("GetByTokenHash returned error: %v", err)
	}
	if session.UserID != "user-1" {
		t.Fatalf("expected user-1, got %s", session.UserID)
	}
}

func TestSessionRepository_GetByTokenHashNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewSessionRepository(mock)

	mock.ExpectQuery(`SELECT .*FROM sessions`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"id", "token_hash", "user_id", "created_at", "expires_at", "ip", "user_agent"}))

	_, err = repo.GetByTokenHash(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionRepository_DeleteByTokenHashIdempotent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewSessionRepository(mock)

	mock.ExpectExec(`DELETE FROM sessions`).
		WithArgs("gone").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.DeleteByTokenHash(context.Background(), "gone"); err != nil {
		t.Fatalf("expected deleting absent session to succeed, got %v", err)
	}
}

func TestSessionRepository_DeleteAllForUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewSessionRepository(mock)

	mock.ExpectExec(`DELETE FROM sessions`).
		WithArgs("user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	count, err := repo.DeleteAllForUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("DeleteAllForUser returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 deleted sessions, got %d", count)
	}
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewSessionRepository(mock)

	reference := time.Now().UTC()
	mock.ExpectExec(`DELETE FROM sessions`).
		WithArgs(reference).
		WillReturnResult(pgxmock.NewResult("DELETE", 7))

	count, err := repo.DeleteExpired(context.Background(), reference)
	if err != nil {
		t.Fatalf("DeleteExpired returned error: %v", err)
	}
	if count != 7 {
		t.Fatalf("expected 7 swept sessions, got %d", count)
	}
}
