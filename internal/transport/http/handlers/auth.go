package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neo-rgalvez/taskflow/internal/core/domain"
	"github.com/neo-rgalvez/taskflow/internal/transport/http/cookie"
	"github.com/neo-rgalvez/taskflow/internal/usecase"
)

// AuthHandler serves the signup, login, logout, and whoami endpoints.
type AuthHandler struct {
	registration *usecase.RegistrationService
	auth         *usecase.AuthService
	codec        *cookie.Codec
	logger       *zap.Logger
}

// NewAuthHandler constructs the auth endpoint handler.
func NewAuthHandler(registration *usecase.RegistrationService, auth *usecase.AuthService, codec *cookie.Codec, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{
		registration: registration,
		auth:         auth,
		codec:        codec,
		logger:       log,
	}
}

// Signup creates an account and signs the new user in.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c)
		return
	}

	result, err := h.registration.Signup(c.Request.Context(), usecase.SignupInput{
		Email:           req.Email,
		Name:            req.Name,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		IP:              clientIP(c),
		UserAgent:       userAgent(c),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.codec.Write(c, result.Token)
	c.JSON(http.StatusCreated, UserResponse{User: toUserPayload(result.User)})
}

// Login verifies credentials and issues a fresh session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), usecase.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IP:        clientIP(c),
		UserAgent: userAgent(c),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.codec.Write(c, result.Token)
	c.JSON(http.StatusOK, UserResponse{User: toUserPayload(result.User)})
}

// Logout destroys the session and clears the cookie. It always reports
// success; there is nothing useful to tell an anonymous caller.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, ok := h.codec.Read(c); ok {
		if err := h.auth.Logout(c.Request.Context(), token); err != nil {
			h.logger.Warn("logout cleanup failed", zap.Error(err))
		}
	}

	h.codec.Clear(c)
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// Session reports the authenticated account behind the cookie, if any.
func (h *AuthHandler) Session(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	token, ok := h.codec.Read(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"user": nil})
		return
	}

	_, user, err := h.auth.ResolveSession(c.Request.Context(), token)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{User: toUserPayload(*user)})
}

func toUserPayload(user domain.User) *UserPayload {
	return &UserPayload{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

func clientIP(c *gin.Context) *string {
	if ip := c.ClientIP(); ip != "" {
		return &ip
	}
	return nil
}

func userAgent(c *gin.Context) *string {
	if ua := c.Request.UserAgent(); ua != "" {
		return &ua
	}
	return nil
}
