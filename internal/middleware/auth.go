package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zenwiki/zenwiki-backend/internal/common"
	"github.com/zenwiki/zenwiki-backend/pkg/jwt"
)

const (
	ctxUserIDKey    = "user_id"
	ctxDiscordIDKey = "discord_id"
	ctxRoleKey      = "role"
)

// JWTAuth validates the Bearer token and stores the caller's identity
// in the request context.
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, "authorization required", nil)
			c.Abort()
			return
		}

		claims, err := jwtManager.VerifyToken(token)
		if err != nil {
			common.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token", nil)
			c.Abort()
			return
		}

		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxDiscordIDKey, claims.DiscordID)
		c.Set(ctxRoleKey, claims.Role)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// UserID returns the authenticated user's id from the request context
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ctxUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// Role returns the authenticated user's role from the request context
func Role(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxRoleKey)
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}
