package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neo-rgalvez/taskflow/internal/transport/http/response"
	"github.com/neo-rgalvez/taskflow/internal/usecase"
)

// respondError maps domain errors onto the closed HTTP error taxonomy.
// Anything outside the known set is downgraded to a generic 500; the
// underlying error only reaches the logs.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		fields := make(map[string][]string, len(verr.Fields))
		for field, message := range verr.Fields {
			fields[field] = []string{message}
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fields})
	case errors.Is(err, usecase.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": response.MsgConflict})
	case errors.Is(err, usecase.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": response.MsgInvalidCredentials})
	case errors.Is(err, usecase.ErrInvalidSession):
		c.JSON(http.StatusUnauthorized, gin.H{"user": nil})
	default:
		if log != nil {
			log.Error("request failed", zap.Error(err))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": response.MsgInternal})
	}
}

func respondBadRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": response.MsgInvalidBody})
}
