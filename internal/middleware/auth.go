package middleware

import (
	"fmt"
	"github.com/fortaxe/finlook-backend/internal/models"
	"github.com/fortaxe/finlook-backend/internal/models/api_error"
	"github.com/fortaxe/finlook-backend/internal/utils/utils_auth"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"net/http"
	"strings"
)

func parseBearer(c *gin.Context) (*utils_auth.Claims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, api_error.NewFromStr("authorization header missing", http.StatusUnauthorized)
	}

	accessToken := strings.TrimPrefix(authHeader, "Bearer ")
	parsedToken, err := jwt.ParseWithClaims(accessToken, &utils_auth.Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(utils_auth.JWT_SECRET_KEY), nil
	})

	if err != nil || !parsedToken.Valid {
		return nil, api_error.NewFromStr("invalid or expired token", http.StatusUnauthorized)
	}

	claims, ok := parsedToken.Claims.(*utils_auth.Claims)
	if !ok {
		return nil, api_error.NewFromStr("invalid token claims", http.StatusUnauthorized)
	}

	return claims, nil
}

func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseBearer(c)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		c.Set("UserID", claims.UserID)
		c.Set("Email", claims.Email)
		c.Set("Role", claims.Role)
		c.Next()
	}
}

// OptionalAuth sets the viewer identity when a valid token is present
// and lets the request through anonymously otherwise. Used on read
// paths that enrich responses with per-viewer state.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := parseBearer(c); err == nil {
			c.Set("UserID", claims.UserID)
			c.Set("Email", claims.Email)
			c.Set("Role", claims.Role)
		}
		c.Next()
	}
}

func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get("Role")
		if !ok {
			c.Error(api_error.Unauthorized("authentication required"))
			c.Abort()
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.Error(api_error.Forbidden("insufficient permissions"))
		c.Abort()
	}
}
