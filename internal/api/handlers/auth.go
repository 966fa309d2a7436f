package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/crypto"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/types"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	masterSecret string
	jwtManager   *crypto.JWTManager
}

// NewAuthHandler builds the operator token endpoint. jwtManager is nil
// when no master secret is configured; the endpoint then reports auth
// as unavailable.
func NewAuthHandler(masterSecret string, jwtManager *crypto.JWTManager) *AuthHandler {
	return &AuthHandler{
		masterSecret: masterSecret,
		jwtManager:   jwtManager,
	}
}

// PostAuth exchanges the master secret for an operator token.
// POST /v1/auth
func (h *AuthHandler) PostAuth(c *gin.Context) {
	var req types.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		return
	}

	if h.jwtManager == nil {
		c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{Error: "auth is not configured"})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(h.masterSecret)) != 1 {
		c.JSON(http.StatusUnauthorized, types.ErrorResponse{Error: "invalid secret"})
		return
	}

	token, err := h.jwtManager.CreateToken("operator")
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "failed to create token"})
		return
	}

	c.JSON(http.StatusOK, types.AuthResponse{
		Success: true,
		Token:   token,
	})
}
