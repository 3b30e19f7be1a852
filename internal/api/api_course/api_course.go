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
)

func List(c *gin.Context) {
	db := utils_handler.GetDB(c)

	page, limit, err := utils_handler.GetPageReq(c)
	if err != nil {
		c.Error(err)
		return
	}

	courses, err := utils_db.FetchAll[models.Course](db,
		"SELECT * FROM courses WHERE is_active ORDER BY creation_date DESC LIMIT $1 OFFSET $2",
		limit, (page-1)*limit)
	if err != nil {
		c.Error(err)
		return
	}

	total, err := utils_db.Count(db, "SELECT COUNT(*) FROM courses WHERE is_active")
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.Paginated(c, "courses fetched", courses, models.NewPagination(page, limit, total))
}

// New creates a course and its initial videos in one transaction:
// both land or neither does.
func New(c *gin.Context) {
	db := utils_handler.GetDB(c)

	req, err := utils_handler.GetObj[models.CourseRequest](c)
	if err != nil {
		c.Error(api_error.NewFromErr(err, http.StatusBadRequest))
		return
	}

	tx, err := db.Beginx()
	if err != nil {
		c.Error(err)
		return
	}

	courseID := uuid.New()
	now := time.Now().UTC()
	_, err = tx.Exec(
		`INSERT INTO courses (id, title, description, price, original_price, level, category, thumbnail, creation_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		courseID, req.Title, req.Description, req.Price, req.OriginalPrice,
		req.Level, req.Category, req.Thumbnail, now)
	if err != nil {
		tx.Rollback()
		c.Error(err)
		return
	}

	for i, video := range req.Videos {
		orderIndex := i
		if video.OrderIndex != nil {
			orderIndex = *video.OrderIndex
		}

		_, err = tx.Exec(
			`INSERT INTO course_videos (id, course_id, title, video_url, duration, order_index, creation_date)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.New(), courseID, video.Title, video.VideoURL, video.Duration, orderIndex, now)
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

	course, err := utils_db.FetchOne[models.Course](db,
		"SELECT * FROM courses WHERE id = $1", courseID)
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.Created(c, "course created", course)
}

func GetByID(c *gin.Context) {
	db := utils_handler.GetDB(c)

	courseID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	course, err := utils_db.FetchOne[models.Course](db,
		"SELECT * FROM courses WHERE id = $1 AND is_active", courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.Error(api_error.NotFound("course not found"))
			return
		}
		c.Error(err)
		return
	}

	utils_handler.OK(c, "course fetched", course)
}

func Update(c *gin.Context) {
	db := utils_handler.GetDB(c)

	courseID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	req, err := utils_handler.GetObj[models.CourseUpdateRequest](c)
	if err != nil {
		c.Error(api_error.NewFromErr(err, http.StatusBadRequest))
		return
	}

	result, err := db.Exec(
		`UPDATE courses SET
			title = COALESCE($1, title),
			description = COALESCE($2, description),
			price = COALESCE($3, price),
			original_price = COALESCE($4, original_price),
			level = COALESCE($5, level),
			category = COALESCE($6, category),
			thumbnail = COALESCE($7, thumbnail),
			updated_date = $8
		 WHERE id = $9 AND is_active`,
		req.Title, req.Description, req.Price, req.OriginalPrice,
		req.Level, req.Category, req.Thumbnail, time.Now().UTC(), courseID)
	if err != nil {
		c.Error(err)
		return
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		c.Error(api_error.NotFound("course not found"))
		return
	}

	course, err := utils_db.FetchOne[models.Course](db,
		"SELECT * FROM courses WHERE id = $1", courseID)
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.OK(c, "course updated", course)
}

// Delete retires a course. Soft only: purchase history keeps pointing
// at the row.
func Delete(c *gin.Context) {
	db := utils_handler.GetDB(c)

	courseID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	result, err := db.Exec(
		"UPDATE courses SET is_active = FALSE, updated_date = $1 WHERE id = $2 AND is_active",
		time.Now().UTC(), courseID)
	if err != nil {
		c.Error(err)
		return
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		c.Error(api_error.NotFound("course not found"))
		return
	}

	utils_handler.OK(c, "course deleted", nil)
}

func Purchase(c *gin.Context) {
	db, userID := utils_handler.GetReqCx(c)

	courseID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	course, err := utils_db.FetchOne[models.Course](db,
		"SELECT * FROM courses WHERE id = $1 AND is_active", courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.Error(api_error.NotFound("course not found"))
			return
		}
		c.Error(err)
		return
	}

	alreadyPurchased, err := utils_db.Exists(db,
		"SELECT COUNT(*) FROM course_purchases WHERE user_id = $1 AND course_id = $2",
		userID, courseID)
	if err != nil {
		c.Error(err)
		return
	}
	if alreadyPurchased {
		c.Error(api_error.Conflict("course already purchased"))
		return
	}

	purchase := models.CoursePurchase{
		ID:       uuid.New(),
		UserID:   userID,
		CourseID: courseID,
		// Snapshot: later catalog price changes do not touch this row.
		PurchasePrice: course.Price,
		CreationDate:  time.Now().UTC(),
	}

	_, err = db.Exec(
		`INSERT INTO course_purchases (id, user_id, course_id, purchase_price, creation_date)
		 VALUES ($1, $2, $3, $4, $5)`,
		purchase.ID, purchase.UserID, purchase.CourseID, purchase.PurchasePrice, purchase.CreationDate)
	if err != nil {
		if utils_db.IsUniqueViolation(err) {
			c.Error(api_error.Conflict("course already purchased"))
			return
		}
		c.Error(err)
		return
	}

	utils_handler.Created(c, "course purchased", purchase)
}

func Purchased(c *gin.Context) {
	db, userID := utils_handler.GetReqCx(c)

	courses, err := utils_db.FetchAll[models.Course](db,
		`SELECT co.* FROM courses co
		 JOIN course_purchases cp ON cp.course_id = co.id
		 WHERE cp.user_id = $1
		 ORDER BY cp.creation_date DESC`, userID)
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.OK(c, "purchased courses fetched", courses)
}
