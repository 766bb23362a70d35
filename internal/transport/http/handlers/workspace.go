package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neo-rgalvez/taskflow/internal/core/port"
	"github.com/neo-rgalvez/taskflow/internal/transport/http/middleware"
	"github.com/neo-rgalvez/taskflow/internal/transport/http/response"
)

// WorkspaceHandler serves the authenticated workspace summary.
type WorkspaceHandler struct {
	reader port.WorkspaceReader
	logger *zap.Logger
}

// NewWorkspaceHandler constructs the workspace endpoint handler.
func NewWorkspaceHandler(reader port.WorkspaceReader, log *zap.Logger) *WorkspaceHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WorkspaceHandler{reader: reader, logger: log}
}

// Summary returns entity counts scoped to the authenticated user. The user
// id comes from the resolved session, never from the request, so one user
// cannot read another's workspace.
func (h *WorkspaceHandler) Summary(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"user": nil})
		return
	}

	summary, err := h.reader.Summary(c.Request.Context(), principal.UserID)
	if err != nil {
		h.logger.Error("workspace summary failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": response.MsgInternal})
		return
	}

	c.JSON(http.StatusOK, WorkspaceResponse{
		Clients:     summary.Clients,
		Projects:    summary.Projects,
		Tasks:       summary.Tasks,
		TimeEntries: summary.TimeEntries,
		Invoices:    summary.Invoices,
	})
}
