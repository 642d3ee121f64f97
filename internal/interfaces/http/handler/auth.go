package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/printease/backend/internal/infrastructure/auth"
	"github.com/printease/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// AuthHandler handles admin login and logout
type AuthHandler struct {
	BaseHandler
	admin     *auth.AdminAuthenticator
	tokens    *auth.JWTService
	blacklist auth.TokenBlacklist
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(admin *auth.AdminAuthenticator, tokens *auth.JWTService, blacklist auth.TokenBlacklist, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		admin:     admin,
		tokens:    tokens,
		blacklist: blacklist,
		logger:    logger,
		now:       time.Now,
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.admin.Authenticate(req.Username, req.Password); err != nil {
		h.logger.Warn("Admin login failed",
			zap.String("username", req.Username),
			zap.String("client_ip", c.ClientIP()))
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.Unauthorized(c, "Invalid username or password")
			return
		}
		h.HandleError(c, err)
		return
	}

	token, err := h.tokens.GenerateAccessToken(req.Username)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.logger.Info("Admin logged in", zap.String("username", req.Username))
	h.Success(c, TokenResponse{
		AccessToken: token.Token,
		ExpiresAt:   token.ExpiresAt,
		TokenType:   token.TokenType,
	})
}

// Logout handles POST /auth/logout; the token is revoked until it expires
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if h.blacklist != nil {
		if err := h.blacklist.Revoke(c.Request.Context(), claims.ID, claims.RemainingTTL(h.now())); err != nil {
			h.HandleError(c, err)
			return
		}
	}
	h.Success(c, gin.H{"message": "Logged out"})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp := AdminResponse{Username: claims.Username, Role: claims.Role}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time
	}
	h.Success(c, resp)
}
