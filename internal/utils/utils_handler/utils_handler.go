package utils_handler

import (
	"github.com/fortaxe/finlook-backend/internal/models"
	"github.com/fortaxe/finlook-backend/internal/models/api_error"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"net/http"
	"strconv"
	"time"
)

func GetReqCx(c *gin.Context) (*sqlx.DB, uuid.UUID) {
	return c.MustGet("db").(*sqlx.DB), c.MustGet("UserID").(uuid.UUID)
}

func GetDB(c *gin.Context) *sqlx.DB {
	return c.MustGet("db").(*sqlx.DB)
}

// GetViewer returns the viewer's user id when the request carries a
// valid token, or nil for anonymous reads.
func GetViewer(c *gin.Context) *uuid.UUID {
	v, ok := c.Get("UserID")
	if !ok {
		return nil
	}
	userID := v.(uuid.UUID)
	return &userID
}

func GetRole(c *gin.Context) (models.Role, bool) {
	v, ok := c.Get("Role")
	if !ok {
		return "", false
	}
	return v.(models.Role), true
}

func GetObj[T any](c *gin.Context) (T, error) {
	var obj T
	err := c.ShouldBindJSON(&obj)
	return obj, err
}

func GetIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, api_error.Validation("invalid " + name)
	}
	return id, nil
}

// GetPageReq parses ?page and ?limit with defaults and bounds.
func GetPageReq(c *gin.Context) (int, int, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page <= 0 {
		return 0, 0, api_error.InvalidPageReq
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(models.DEFAULT_PAGE_SIZE)))
	if err != nil || limit <= 0 {
		return 0, 0, api_error.InvalidPageReq
	}
	if limit > models.MAX_PAGE_SIZE {
		limit = models.MAX_PAGE_SIZE
	}

	return page, limit, nil
}

func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   message,
		"data":      data,
		"timestamp": time.Now().UTC(),
	})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"message":   message,
		"data":      data,
		"timestamp": time.Now().UTC(),
	})
}

func Paginated(c *gin.Context, message string, data interface{}, pagination models.Pagination) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    message,
		"data":       data,
		"pagination": pagination,
		"timestamp":  time.Now().UTC(),
	})
}
