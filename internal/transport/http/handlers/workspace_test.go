package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/neo-rgalvez/taskflow/internal/core/domain"
	"github.com/neo-rgalvez/taskflow/internal/core/port"
	"github.com/neo-rgalvez/taskflow/internal/transport/http/middleware"
)

type stubWorkspaceReader struct {
	summary *port.WorkspaceSummary
	err     error
	lastID  string
}

func (s *stubWorkspaceReader) Summary(_ context.Context, userID string) (*port.WorkspaceSummary, error) {
	s.lastID = userID
	if s.err != nil {
		return nil, s.err
	}
	return s.summary, nil
}

func newWorkspaceRouter(reader port.WorkspaceReader, principal *domain.Principal) *gin.Engine {
	handler := NewWorkspaceHandler(reader, nil)
	r := gin.New()
	r.GET("/api/workspace", func(c *gin.Context) {
		if principal != nil {
			c.Set(middleware.PrincipalKey, principal)
		}
		handler.Summary(c)
	})
	return r
}

func TestWorkspaceSummaryScopedToPrincipal(t *testing.T) {
	reader := &stubWorkspaceReader{summary: &port.WorkspaceSummary{
		Clients:     2,
		Projects:    5,
		Tasks:       17,
		TimeEntries: 40,
		Invoices:    3,
	}}
	r := newWorkspaceRouter(reader, &domain.Principal{UserID: "u-9", SessionID: "s-1"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/workspace", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if reader.lastID != "u-9" {
		t.Fatalf("expected query for u-9, got %q", reader.lastID)
	}
	want := `{"clients":2,"projects":5,"tasks":17,"timeEntries":40,"invoices":3}`
	if w.Body.String() != want {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestWorkspaceSummaryWithoutPrincipal(t *testing.T) {
	r := newWorkspaceRouter(&stubWorkspaceReader{}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/workspace", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestWorkspaceSummaryReaderFailure(t *testing.T) {
	reader := &stubWorkspaceReader{err: errors.New("db down")}
	r := newWorkspaceRouter(reader, &domain.Principal{UserID: "u-9"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/workspace", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if w.Body.String() != `{"error":"something went wrong"}` {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}
