package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neo-rgalvez/taskflow/internal/core/domain"
	"github.com/neo-rgalvez/taskflow/internal/transport/http/cookie"
	"github.com/neo-rgalvez/taskflow/internal/transport/http/response"
	"github.com/neo-rgalvez/taskflow/internal/usecase"
)

// RequireAuth resolves the session cookie and loads the principal. Missing,
// expired, and destroyed sessions all produce the same 401; nothing in the
// response reveals which case occurred.
func RequireAuth(authService *usecase.AuthService, codec *cookie.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := codec.Read(c)
		if !ok {
			abortUnauthenticated(c)
			return
		}

		principal, user, err := authService.ResolveSession(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, usecase.ErrInvalidSession) {
				abortUnauthenticated(c)
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": response.MsgInternal,
			})
			return
		}

		c.Set(PrincipalKey, principal)
		c.Set(CurrentUserKey, user)

		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.UserID = principal.UserID
		}

		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"user": nil})
}

// GetPrincipal retrieves the authenticated principal from the context.
func GetPrincipal(c *gin.Context) (*domain.Principal, bool) {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return nil, false
	}
	principal, ok := value.(*domain.Principal)
	return principal, ok
}

// GetCurrentUser retrieves the authenticated user record from the context.
func GetCurrentUser(c *gin.Context) (*domain.User, bool) {
	value, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*domain.User)
	return user, ok
}
