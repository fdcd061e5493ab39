package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/shakti20/Camper/internal/httperr"
)

// Errors is the terminal handler for the fatal channel: any error left on
// the context is rendered as the error page, carrying only a status and a
// message. Causes stay in the log.
func Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		e := httperr.From(c.Errors.Last().Err)
		slog.Error("request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", e.Status,
			"kind", string(e.Kind),
			"error", e.Error(),
		)
		c.HTML(e.Status, "error.html", gin.H{
			"status":  e.Status,
			"message": e.Message,
		})
	}
}

// NotFound feeds unmatched routes into the same fatal path.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Error(httperr.NotFound("Page Not Found"))
	}
}
