package middleware

import (
	"github.com/gin-gonic/gin"
	"log"
	"net/http"
	"runtime/debug"
	"time"
)

func PanicRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("panic recovered: %v", err)
				log.Printf("%s\n", debug.Stack())
				c.JSON(http.StatusInternalServerError, gin.H{
					"success":   false,
					"message":   "unexpected server error occurred",
					"timestamp": time.Now().UTC(),
				})
				c.Abort()
			}
		}()

		c.Next()
	}
}
