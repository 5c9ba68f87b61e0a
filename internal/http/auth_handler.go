package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mindfolk/internal/domain"
	"mindfolk/internal/service"
)

// AuthHandler expone el intercambio de identidad y el ciclo de sesion.
type AuthHandler struct {
	logger   *zap.Logger
	accounts *service.AccountService
}

func NewAuthHandler(logger *zap.Logger, accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{logger: logger, accounts: accounts}
}

type sessionResponse struct {
	User   domain.User    `json:"user"`
	Home   string         `json:"home"`
	Tokens service.Tokens `json:"tokens"`
}

// OAuth maneja POST /auth/oauth: token del proveedor mas el rol elegido en el alta.
func (h *AuthHandler) OAuth(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
		Role  string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	var role domain.Role
	if req.Role != "" {
		parsed, err := domain.ParseRole(req.Role)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrInvalidRole.Error()})
			return
		}
		role = parsed
	}

	user, tokens, err := h.accounts.SignIn(c.Request.Context(), req.Token, role)
	if err != nil {
		h.writeErr(c, "oauth sign-in failed", err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{User: user, Home: user.Role.HomeView(), Tokens: tokens})
}

// AdminLogin maneja POST /auth/admin/login.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	user, tokens, err := h.accounts.AdminLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeErr(c, "admin login failed", err)
		return
	}
	h.logger.Info("admin signed in", zap.String("user_id", user.ID), zap.String("client_ip", c.ClientIP()))
	c.JSON(http.StatusOK, sessionResponse{User: user, Home: user.Role.HomeView(), Tokens: tokens})
}

// Refresh maneja POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	tokens, err := h.accounts.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.writeErr(c, "refresh failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// SignOut maneja POST /auth/sign-out.
func (h *AuthHandler) SignOut(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.accounts.SignOut(c.Request.Context(), req.RefreshToken); err != nil {
		h.writeErr(c, "sign-out failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me maneja GET /me: datos del usuario y la vista inicial de su rol.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.accounts.Me(c.Request.Context(), sessionClaims(c).UserID)
	if err != nil {
		h.writeErr(c, "load user failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "home": user.Role.HomeView()})
}

func (h *AuthHandler) writeErr(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrIdentityInvalid),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrSessionInvalid),
		errors.Is(err, service.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	default:
		h.logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
