package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/neo-rgalvez/taskflow/internal/infra/logger"
)

func newRequestIDRouter(captured *string) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		if val, ok := c.Request.Context().Value(logger.RequestIDKey{}).(string); ok {
			*captured = val
		}
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequestIDEchoesInboundID(t *testing.T) {
	var fromContext string
	r := newRequestIDRouter(&fromContext)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-abc-123")
	r.ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "req-abc-123" {
		t.Fatalf("expected inbound id echoed, got %q", got)
	}
	if fromContext != "req-abc-123" {
		t.Fatalf("expected inbound id on context, got %q", fromContext)
	}
}

func TestRequestIDGeneratesWhenAbsent(t *testing.T) {
	var fromContext string
	r := newRequestIDRouter(&fromContext)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	id := w.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected generated uuid, got %q: %v", id, err)
	}
	if fromContext != id {
		t.Fatalf("context id %q differs from header %q", fromContext, id)
	}
}

func TestRequestIDReplacesOversizedID(t *testing.T) {
	var fromContext string
	r := newRequestIDRouter(&fromContext)

	oversized := strings.Repeat("a", 200)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, oversized)
	r.ServeHTTP(w, req)

	id := w.Header().Get(RequestIDHeader)
	if id == oversized {
		t.Fatal("expected oversized inbound id to be replaced")
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected generated uuid, got %q: %v", id, err)
	}
}
