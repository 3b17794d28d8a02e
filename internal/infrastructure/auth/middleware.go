package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextUserKey is where the middleware stores the verified user id.
const ContextUserKey = "authUserID"

// Middleware rejects requests without a valid bearer token and injects the
// verified user id into the gin context.
func Middleware(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		userID, err := v.UserID(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ContextUserKey, userID)
		c.Next()
	}
}

// BearerToken extracts the token from the Authorization header, falling back
// to the "token" query parameter for websocket clients that cannot set
// headers during the upgrade handshake.
func BearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return c.Query("token")
}

// UserID reads the verified user id injected by Middleware.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserKey)
}
