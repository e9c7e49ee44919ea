package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/towradar/backend/internal/auth"
)

const UserIDKey = "user_id"

// BearerAuth verifies the session token and stores the user id on the
// context. Rejection happens before any handler touches the data layer.
func BearerAuth(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "Missing authorization")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
		if token == "" {
			abortUnauthorized(c, "Missing bearer token")
			return
		}

		userID, err := verifier.Verify(token)
		if err != nil {
			abortUnauthorized(c, "Invalid session")
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// CronKey gates ingestion/notification triggers behind the shared
// scheduler secret. End-user tokens do not pass here.
func CronKey(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if secret == "" || header != "Bearer "+secret {
			abortUnauthorized(c, "Unauthorized")
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}
