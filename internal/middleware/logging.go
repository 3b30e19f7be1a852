package middleware

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDProvider tags every request with an id so the access line
// and any later error lines can be correlated.
func RequestIDProvider() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()

		log.Printf("--> %s %s from %s [req %s]",
			c.Request.Method, c.Request.URL.Path, c.ClientIP(), requestID)

		c.Set("RequestID", requestID)
	}
}

func ErrorLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		requestID := c.MustGet("RequestID").(string)
		status := c.Writer.Status()

		bg := 42
		if status >= 400 {
			bg = 41
		}
		statusBadge := fmt.Sprintf("\033[1;%dm%d\033[0m", bg, status)

		for _, ginErr := range c.Errors {
			log.Printf("<-- %s %s %s [req %s] \033[1;31merror: %s\033[0m",
				statusBadge, c.Request.Method, c.Request.URL.Path, requestID, ginErr.Err)
		}
	}
}
