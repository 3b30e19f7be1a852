package middleware

import (
	"github.com/fortaxe/finlook-backend/internal/models/api_error"
	"github.com/gin-gonic/gin"
)

// ErrorHandler renders errors pushed with c.Error into the uniform
// failure envelope. Handlers attach at most one error before
// returning, so the last one attached is the one that matters.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if last := c.Errors.Last(); last != nil {
			api_error.ToResponse(c, last.Err)
		}
	}
}
