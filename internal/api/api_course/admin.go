package api_course

import (
	"time"

	"github.com/fortaxe/finlook-backend/internal/models"
	"github.com/fortaxe/finlook-backend/internal/utils/utils_db"
	"github.com/fortaxe/finlook-backend/internal/utils/utils_handler"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func Stats(c *gin.Context) {
	db := utils_handler.GetDB(c)

	stats, err := utils_db.FetchOne[models.CourseStats](db, `
		SELECT
			(SELECT COUNT(*) FROM courses WHERE is_active) AS course_count,
			(SELECT COUNT(*) FROM course_videos WHERE is_active) AS video_count,
			(SELECT COUNT(*) FROM course_purchases) AS purchase_count,
			(SELECT COALESCE(SUM(purchase_price), 0) FROM course_purchases) AS revenue`)
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.OK(c, "stats fetched", stats)
}

// Seed creates a starter course for fresh environments. Idempotent by
// title.
func Seed(c *gin.Context) {
	db := utils_handler.GetDB(c)

	const seedTitle = "Stock Market Foundations"

	exists, err := utils_db.Exists(db, "SELECT COUNT(*) FROM courses WHERE title = $1", seedTitle)
	if err != nil {
		c.Error(err)
		return
	}
	if exists {
		utils_handler.OK(c, "seed course already present", nil)
		return
	}

	tx, err := db.Beginx()
	if err != nil {
		c.Error(err)
		return
	}

	courseID := uuid.New()
	now := time.Now().UTC()
	originalPrice := 499900

	_, err = tx.Exec(
		`INSERT INTO courses (id, title, description, price, original_price, level, category, creation_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		courseID, seedTitle,
		"A beginner's walkthrough of equity markets, brokers, and order types.",
		299900, originalPrice, "beginner", "stocks", now)
	if err != nil {
		tx.Rollback()
		c.Error(err)
		return
	}

	videos := []string{
		"What is a stock exchange",
		"Opening your first demat account",
		"Market and limit orders",
	}
	for i, title := range videos {
		_, err = tx.Exec(
			`INSERT INTO course_videos (id, course_id, title, video_url, duration, order_index, creation_date)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.New(), courseID, title,
			"https://cdn.finlook.app/seed/video-placeholder.mp4", 600, i, now)
		if err != nil {
			tx.Rollback()
			c.Error(err)
			return
		}
	}

	if err := tx.Commit(); err != nil {
		c.Error(err)
		return
	}

	utils_handler.Created(c, "seed course created", gin.H{"course_id": courseID})
}
