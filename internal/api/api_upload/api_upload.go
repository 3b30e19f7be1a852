package api_upload

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/fortaxe/finlook-backend/internal/models/api_error"
	"github.com/fortaxe/finlook-backend/internal/utils/utils_handler"
	"github.com/fortaxe/finlook-backend/internal/utils/utils_s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type presignRequest struct {
	FileName string `json:"file_name" binding:"required"`
	FileType string `json:"file_type" binding:"required"`
	Category string `json:"category" binding:"required,oneof=posts reels avatars courses"`
}

// PresignedURL hands the client a short-lived PUT URL scoped to one
// freshly named key; the client uploads directly to the bucket.
func PresignedURL(s3Client *utils_s3.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := utils_handler.GetObj[presignRequest](c)
		if err != nil {
			c.Error(api_error.NewFromErr(err, http.StatusBadRequest))
			return
		}

		ext := strings.ToLower(path.Ext(req.FileName))
		key := fmt.Sprintf("%s/%s%s", req.Category, uuid.New(), ext)

		uploadURL, err := s3Client.PresignPut(c.Request.Context(), key, req.FileType)
		if err != nil {
			c.Error(err)
			return
		}

		utils_handler.OK(c, "presigned url issued", gin.H{
			"upload_url": uploadURL,
			"file_url":   s3Client.PublicURL(key),
			"key":        key,
		})
	}
}
