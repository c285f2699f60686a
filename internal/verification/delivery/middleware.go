package delivery

import (
	"strings"

	"github.com/gin-gonic/gin"

	"rideshare-functions/pkg/identity"
)

const callerUIDKey = "callerUID"

// CallerMiddleware resolves the Bearer session token to the caller's uid.
// Requests without a token continue anonymously so the usecase can answer
// with the callable unauthenticated error.
func CallerMiddleware(identitySvc identity.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.Next()
			return
		}

		token, err := identitySvc.VerifySessionToken(c.Request.Context(), parts[1])
		if err != nil {
			c.Next()
			return
		}

		c.Set(callerUIDKey, token.UID)
		c.Next()
	}
}
