package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zenwiki/zenwiki-backend/internal/common"
	"github.com/zenwiki/zenwiki-backend/internal/domain"
)

// RequireRole rejects callers below the given role tier. Must run
// after JWTAuth.
func RequireRole(minimum domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := Role(c)
		if !ok {
			common.ErrorResponse(c, http.StatusUnauthorized, "authorization required", nil)
			c.Abort()
			return
		}

		if domain.Role(role).Level() < minimum.Level() {
			common.ErrorResponse(c, http.StatusForbidden, "insufficient permissions", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
