package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookie = "vat_session"
	sessionKey    = "session_id"
)

// Session gives every browser a session id kept in an HttpOnly cookie.
// Cookies that are not UUIDs are replaced.
func Session(maxAge int, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.New().String()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, maxAge, "/", "", secure, true)
		c.Set(sessionKey, id)
		c.Next()
	}
}

// GetSessionID returns the id set by Session
func GetSessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}
