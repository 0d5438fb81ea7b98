package middleware

import (
	"net/http"
	"strings"

	"togglekit/internal/auth"
	"togglekit/internal/service"

	"github.com/gin-gonic/gin"
)

// Authentication resolves the caller's identity from the bearer token
// and injects it into the request context. With authentication
// disabled (unconfigured verifier) every request runs as the fixed
// dev identity.
func Authentication(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !verifier.Configured() {
			ctx := service.WithIdentity(c.Request.Context(), auth.DevIdentity)
			c.Request = c.Request.WithContext(ctx)
			c.Next()
			return
		}

		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			return
		}

		identity, err := verifier.Identity(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid access token"})
			return
		}

		ctx := service.WithIdentity(c.Request.Context(), identity)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
