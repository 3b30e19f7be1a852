package api_blog

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/fortaxe/finlook-backend/internal/jobs/jobs_blog"
	"github.com/fortaxe/finlook-backend/internal/models"
	"github.com/fortaxe/finlook-backend/internal/models/api_error"
	"github.com/fortaxe/finlook-backend/internal/utils/utils_db"
	"github.com/fortaxe/finlook-backend/internal/utils/utils_handler"
	"github.com/gin-gonic/gin"
)

func List(c *gin.Context) {
	db := utils_handler.GetDB(c)

	page, limit, err := utils_handler.GetPageReq(c)
	if err != nil {
		c.Error(err)
		return
	}

	posts, err := utils_db.FetchAll[models.BlogPost](db,
		"SELECT * FROM blog_posts ORDER BY published_at DESC LIMIT $1 OFFSET $2",
		limit, (page-1)*limit)
	if err != nil {
		c.Error(err)
		return
	}

	total, err := utils_db.Count(db, "SELECT COUNT(*) FROM blog_posts")
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.Paginated(c, "blogs fetched", posts, models.NewPagination(page, limit, total))
}

func GetByID(c *gin.Context) {
	db := utils_handler.GetDB(c)

	blogID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	// The view counter only ever moves up, and the bump rides on the
	// read itself.
	var post models.BlogPost
	err = db.Get(&post,
		"UPDATE blog_posts SET view_count = view_count + 1 WHERE id = $1 RETURNING *", blogID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.Error(api_error.NotFound("blog not found"))
			return
		}
		c.Error(err)
		return
	}

	utils_handler.OK(c, "blog fetched", post)
}

// Generate kicks off a generation run out of band. The run's
// single-flight guard rejects overlap with the scheduled job.
func Generate(generator *jobs_blog.Generator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !generator.TryStart() {
			c.Error(api_error.Conflict("a generation run is already in progress"))
			return
		}

		go func() {
			defer generator.Finish()
			ctx, cancel := context.WithTimeout(context.Background(), jobs_blog.RUN_TIMEOUT)
			defer cancel()
			saved, failed := generator.Run(ctx)
			log.Printf("blog generation triggered via api: %d saved, %d failed", saved, failed)
		}()

		c.JSON(http.StatusAccepted, gin.H{
			"success":   true,
			"message":   "blog generation started",
			"data":      nil,
			"timestamp": time.Now().UTC(),
		})
	}
}
