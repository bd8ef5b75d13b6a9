package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zenwiki/zenwiki-backend/internal/common"
	"github.com/zenwiki/zenwiki-backend/internal/middleware"
	"github.com/zenwiki/zenwiki-backend/internal/service"
)

// AuthHandler handles the Discord login endpoints
type AuthHandler struct {
	authService *service.AuthService
	frontendURL string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService, frontendURL string) *AuthHandler {
	return &AuthHandler{authService: authService, frontendURL: frontendURL}
}

// Login hands out the Discord authorization URL to start the OAuth flow
// GET /api/auth/discord
func (h *AuthHandler) Login(c *gin.Context) {
	// Random state for CSRF protection
	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to generate state", nil)
		return
	}
	state := hex.EncodeToString(stateBytes)

	c.SetCookie("oauth_state", state, 600, "/", "", false, true)
	common.SuccessResponse(c, gin.H{"auth_url": h.authService.AuthURL(state)}, nil)
}

// Callback completes the Discord OAuth flow and hands the session
// token back to the frontend.
// GET /api/auth/callback
func (h *AuthHandler) Callback(c *gin.Context) {
	state := c.Query("state")
	savedState, err := c.Cookie("oauth_state")
	if err != nil || state == "" || state != savedState {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid OAuth state", nil)
		return
	}
	c.SetCookie("oauth_state", "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "missing authorization code", nil)
		return
	}

	result, err := h.authService.HandleCallback(c.Request.Context(), code, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "Discord login failed", err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/?token="+result.Token)
}

// Me returns the authenticated user's profile
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		common.ErrorResponse(c, http.StatusUnauthorized, "authorization required", nil)
		return
	}

	user, err := h.authService.CurrentUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, user.ToResponse(), nil)
}

// Logout acknowledges logout. Sessions are stateless JWTs, so the
// client discards the token.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	common.SuccessResponse(c, gin.H{"logged_out": true}, nil)
}
