package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nsdigital/agency-api/pkg/helpers"
	"github.com/nsdigital/agency-api/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxUserRoleKey  = "userRole"
	CtxUserEmailKey = "userEmail"
)

// Auth reads the session cookie, verifies the token, and injects the claims
// into the Gin context. There is no server-side session store: validity is
// signature plus expiry, and handlers that need current role or blocked
// state re-fetch the account row themselves.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.SessionCookie)
		if err != nil || token == "" {
			response.AbortError(c, http.StatusUnauthorized, "not authenticated")
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid or expired session")
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUserRoleKey, string(claims.Role))
		c.Set(CtxUserEmailKey, claims.Email)
		c.Next()
	}
}
