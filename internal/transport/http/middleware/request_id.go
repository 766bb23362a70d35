package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/neo-rgalvez/taskflow/internal/infra/logger"
)

// RequestIDHeader carries the correlation id a caller may supply; the
// response echoes whichever id the request ends up with.
const RequestIDHeader = "X-Request-ID"

// Inbound ids longer than this are replaced, which keeps arbitrary
// client-controlled strings out of the access logs.
const maxRequestIDLength = 64

// RequestID tags every request with a correlation id. A reasonable inbound
// id is kept so the id survives the hop through the frontend proxy; absent
// or oversized ones are swapped for a fresh uuid. The id travels on the
// request context under logger.RequestIDKey.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(
			context.WithValue(c.Request.Context(), logger.RequestIDKey{}, id),
		)

		c.Next()
	}
}
