package auth

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrNotAuthenticated means no identity could be resolved for the caller.
var ErrNotAuthenticated = errors.New("not authenticated")

const CtxUserID = "user_id"

// UserID extracts the authenticated user id from the gin context. Empty means
// unauthenticated: read handlers fail closed, write handlers reject.
func UserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserID))
}
