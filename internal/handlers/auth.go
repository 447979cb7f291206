package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/manojtanwar99/stayvira/internal/metrics"
	"github.com/manojtanwar99/stayvira/internal/middleware"
	"github.com/manojtanwar99/stayvira/internal/service"
)

const (
	msgMissingCredentials = "Please provide email and password"
	msgInvalidCredentials = "Invalid credentials"
	msgLoginServerError   = "Server error. Please try again later."
)

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	authService service.AuthService
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(authService service.AuthService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		metrics:     m,
		now:         time.Now,
	}
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the login response body.
type LoginResponse struct {
	Success   bool                 `json:"success"`
	Message   string               `json:"message"`
	Token     string               `json:"token,omitempty"`
	ExpiresAt *time.Time           `json:"expiresAt,omitempty"`
	User      *service.UserSummary `json:"user,omitempty"`
}

// TokenStatusResponse represents the token status response.
type TokenStatusResponse struct {
	Valid      bool  `json:"valid"`
	TTLSeconds int64 `json:"ttl_seconds"`
}

// Login godoc
// @Summary User login
// @Description Verify email and password and return a signed access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} LoginResponse
// @Failure 401 {object} LoginResponse
// @Failure 500 {object} LoginResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, LoginResponse{Message: msgMissingCredentials})
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrMissingCredentials):
		c.JSON(http.StatusBadRequest, LoginResponse{Message: msgMissingCredentials})
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		h.metrics.ObserveLogin(metrics.LoginInvalidCredentials)
		c.JSON(http.StatusUnauthorized, LoginResponse{Message: msgInvalidCredentials})
		return
	case err != nil:
		h.metrics.ObserveLogin(metrics.LoginError)
		respondLoginError(c, err)
		return
	}

	h.metrics.ObserveLogin(metrics.LoginSuccess)
	c.JSON(http.StatusOK, LoginResponse{
		Success:   true,
		Message:   "Login successful",
		Token:     response.Token,
		ExpiresAt: &response.ExpiresAt,
		User:      &response.User,
	})
}

// respondLoginError logs an unexpected login failure and writes the generic
// login error body.
func respondLoginError(c *gin.Context, err error) {
	_ = c.Error(err)
	logError(c, "login failed", err)
	c.JSON(http.StatusInternalServerError, LoginResponse{Message: msgLoginServerError})
}

// Logout godoc
// @Summary User logout
// @Description Acknowledge logout. Tokens are stateless; the client discards its copy.
// @Tags auth
// @Produce json
// @Success 200 {object} LoginResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context()); err != nil {
		LogAndRespondError(c, http.StatusInternalServerError, err, "logout failed")
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Success: true, Message: "Logout successful"})
}

// TokenStatus godoc
// @Summary Check token status
// @Description Return the remaining lifetime of the bearer token
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} TokenStatusResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/token-status [get]
func (h *AuthHandler) TokenStatus(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, TokenStatusResponse{})
		return
	}

	ttl := principal.TTL(h.now())
	c.JSON(http.StatusOK, TokenStatusResponse{
		Valid:      ttl > 0,
		TTLSeconds: int64(ttl / time.Second),
	})
}
