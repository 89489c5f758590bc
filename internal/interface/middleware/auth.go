package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillboost/skillboost-api/pkg/helpers"
	"github.com/skillboost/skillboost-api/pkg/response"
)

// Context keys set on successful authentication.
const (
	CtxUserIDKey = "userID"
	CtxEmailKey  = "userEmail"
	CtxRoleKey   = "userRole"
)

// Auth validates the Authorization header ("Bearer <token>", with the legacy
// "JWT <token>" form also accepted) and injects the token's user identity
// into the Gin context.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.AbortError(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.Parse(helpers.StripTokenPrefix(header))
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxEmailKey, claims.Email)
		c.Set(CtxRoleKey, claims.Role)
		c.Next()
	}
}
