package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

const sessionCookieName = "session_id"

const contextKeyUserID = "user_id"

// Sessions is the session lookup the middleware needs. *Store satisfies it;
// tests substitute a fake so the middleware can be exercised without Redis.
type Sessions interface {
	GetUserID(ctx context.Context, id string) (int64, bool)
	Touch(ctx context.Context, id string)
}

// UserIDFromContext returns the current user ID set by RequireSession. 0 if not set.
func UserIDFromContext(c *gin.Context) int64 {
	if v, ok := c.Get(contextKeyUserID); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// RequireSession returns a middleware that resolves the session cookie to a
// user ID and stores it in the gin context. Each authenticated request also
// slides the session TTL forward, so active clients stay logged in.
//
// Missing cookie and expired/unknown session get distinct 401 bodies; the
// client surfaces the message as-is.
func RequireSession(sessions Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(sessionCookieName)
		if err != nil || sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		userID, ok := sessions.GetUserID(c.Request.Context(), sessionID)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired, log in again"})
			return
		}
		sessions.Touch(c.Request.Context(), sessionID)
		c.Set(contextKeyUserID, userID)
		c.Next()
	}
}
