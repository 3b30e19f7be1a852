package api_dev

import (
	"github.com/gin-gonic/gin"
	"net/http"
)

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "API OK",
	})
}

func AuthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "You are authorised.",
		"userID":  c.MustGet("UserID"),
	})
}
