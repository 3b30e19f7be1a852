package middleware

import (
	"github.com/fortaxe/finlook-backend/internal/utils/utils_s3"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
)

func DBProvider(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("db", db)
		c.Next()
	}
}

func CacheProvider(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("cache", rdb)
		c.Next()
	}
}

func S3Provider(client *utils_s3.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("s3", client)
		c.Next()
	}
}
