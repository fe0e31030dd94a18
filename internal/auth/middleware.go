package auth

import (
	"context"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

// Middleware resolves the caller's identity from a Firebase ID token. It
// never aborts: requests without a resolvable identity continue with an
// empty user id, so read handlers can fail closed (empty results) while
// write handlers reject with 401. Enforcement lives in the handlers.
func Middleware(authClient *auth.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		decodedToken, err := authClient.VerifyIDToken(context.Background(), token)
		if err != nil {
			c.Next()
			return
		}

		c.Set(CtxUserID, decodedToken.UID)
		c.Next()
	}
}

// HeaderIdentity reads the user id from X-User-Id without verification.
// Development mode only. A missing header leaves the request unauthenticated
// rather than falling back to a shared identity.
func HeaderIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := strings.TrimSpace(c.GetHeader("X-User-Id")); uid != "" {
			c.Set(CtxUserID, uid)
		}
		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
