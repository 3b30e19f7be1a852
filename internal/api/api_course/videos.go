package api_course

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/fortaxe/finlook-backend/internal/models"
	"github.com/fortaxe/finlook-backend/internal/models/api_error"
	"github.com/fortaxe/finlook-backend/internal/utils/utils_db"
	"github.com/fortaxe/finlook-backend/internal/utils/utils_handler"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// requirePurchase gates video access. Admins and anonymous service
// callers pass; a known non-admin viewer must have bought the course.
func requirePurchase(c *gin.Context, db *sqlx.DB, courseID uuid.UUID) error {
	viewerID := utils_handler.GetViewer(c)
	if viewerID == nil {
		return nil
	}
	if role, ok := utils_handler.GetRole(c); ok && role == models.RoleAdmin {
		return nil
	}

	purchased, err := utils_db.Exists(db,
		"SELECT COUNT(*) FROM course_purchases WHERE user_id = $1 AND course_id = $2",
		*viewerID, courseID)
	if err != nil {
		return err
	}
	if !purchased {
		return api_error.Forbidden("purchase the course to access its videos")
	}
	return nil
}

func ListVideos(c *gin.Context) {
	db := utils_handler.GetDB(c)

	courseID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	courseExists, err := utils_db.Exists(db,
		"SELECT COUNT(*) FROM courses WHERE id = $1 AND is_active", courseID)
	if err != nil {
		c.Error(err)
		return
	}
	if !courseExists {
		c.Error(api_error.NotFound("course not found"))
		return
	}

	if err := requirePurchase(c, db, courseID); err != nil {
		c.Error(err)
		return
	}

	videos, err := utils_db.FetchAll[models.CourseVideo](db,
		"SELECT * FROM course_videos WHERE course_id = $1 AND is_active ORDER BY order_index ASC",
		courseID)
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.OK(c, "videos fetched", videos)
}

func GetVideoByID(c *gin.Context) {
	db := utils_handler.GetDB(c)

	videoID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	video, err := utils_db.FetchOne[models.CourseVideo](db,
		"SELECT * FROM course_videos WHERE id = $1 AND is_active", videoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.Error(api_error.NotFound("video not found"))
			return
		}
		c.Error(err)
		return
	}

	if err := requirePurchase(c, db, video.CourseID); err != nil {
		c.Error(err)
		return
	}

	utils_handler.OK(c, "video fetched", video)
}

func NewVideo(c *gin.Context) {
	db := utils_handler.GetDB(c)

	courseID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	req, err := utils_handler.GetObj[models.CourseVideoRequest](c)
	if err != nil {
		c.Error(api_error.NewFromErr(err, http.StatusBadRequest))
		return
	}

	courseExists, err := utils_db.Exists(db,
		"SELECT COUNT(*) FROM courses WHERE id = $1 AND is_active", courseID)
	if err != nil {
		c.Error(err)
		return
	}
	if !courseExists {
		c.Error(api_error.NotFound("course not found"))
		return
	}

	orderIndex := 0
	if req.OrderIndex != nil {
		orderIndex = *req.OrderIndex
	} else {
		// Append after the current last video.
		orderIndex, err = utils_db.Count(db,
			"SELECT COUNT(*) FROM course_videos WHERE course_id = $1", courseID)
		if err != nil {
			c.Error(err)
			return
		}
	}

	videoID := uuid.New()
	_, err = db.Exec(
		`INSERT INTO course_videos (id, course_id, title, video_url, duration, order_index, creation_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		videoID, courseID, req.Title, req.VideoURL, req.Duration, orderIndex, time.Now().UTC())
	if err != nil {
		c.Error(err)
		return
	}

	video, err := utils_db.FetchOne[models.CourseVideo](db,
		"SELECT * FROM course_videos WHERE id = $1", videoID)
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.Created(c, "video created", video)
}

func UpdateVideo(c *gin.Context) {
	db := utils_handler.GetDB(c)

	videoID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	req, err := utils_handler.GetObj[models.CourseVideoUpdateRequest](c)
	if err != nil {
		c.Error(api_error.NewFromErr(err, http.StatusBadRequest))
		return
	}

	result, err := db.Exec(
		`UPDATE course_videos SET
			title = COALESCE($1, title),
			video_url = COALESCE($2, video_url),
			duration = COALESCE($3, duration),
			order_index = COALESCE($4, order_index),
			updated_date = $5
		 WHERE id = $6 AND is_active`,
		req.Title, req.VideoURL, req.Duration, req.OrderIndex, time.Now().UTC(), videoID)
	if err != nil {
		c.Error(err)
		return
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		c.Error(api_error.NotFound("video not found"))
		return
	}

	video, err := utils_db.FetchOne[models.CourseVideo](db,
		"SELECT * FROM course_videos WHERE id = $1", videoID)
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.OK(c, "video updated", video)
}

func DeleteVideo(c *gin.Context) {
	db := utils_handler.GetDB(c)

	videoID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	result, err := db.Exec(
		"UPDATE course_videos SET is_active = FALSE, updated_date = $1 WHERE id = $2 AND is_active",
		time.Now().UTC(), videoID)
	if err != nil {
		c.Error(err)
		return
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		c.Error(api_error.NotFound("video not found"))
		return
	}

	utils_handler.OK(c, "video deleted", nil)
}
