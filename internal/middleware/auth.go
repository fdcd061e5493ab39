package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shakti20/Camper/internal/session"
)

// RequireLogin halts the chain for unauthenticated requests with a flash
// and a redirect to the login page. Must run after the session loader.
func RequireLogin(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if session.CurrentUser(c) == nil {
			sessions.Error(c, "You must be signed in first!")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
