package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"os"
)

func CORS() gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AddAllowHeaders("Authorization")
	config.AllowCredentials = true
	deploymentEnv := os.Getenv("DEPLOYMENT_ENV")
	if deploymentEnv == "cloud" {
		config.AllowOrigins = []string{"https://finlook.app", "https://www.finlook.app"}
	} else {
		config.AllowOrigins = []string{"http://localhost:3000", "https://localhost:3000"}
	}
	return cors.New(config)
}
