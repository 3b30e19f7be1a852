package api_reel

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/fortaxe/finlook-backend/internal/models"
	"github.com/fortaxe/finlook-backend/internal/models/api_error"
	"github.com/fortaxe/finlook-backend/internal/utils/utils_db"
	"github.com/fortaxe/finlook-backend/internal/utils/utils_handler"
	"github.com/fortaxe/finlook-backend/internal/utils/utils_s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const reelViewQuery = `
	SELECT
		r.id, r.user_id, u.username, u.name, u.avatar, u.is_influencer,
		r.video_url, r.content, r.duration, r.like_count, r.share_count,
		r.creation_date, r.updated_date
	FROM reels r
	JOIN users u ON u.id = r.user_id`

func getS3(c *gin.Context) *utils_s3.Client {
	if v, ok := c.Get("s3"); ok {
		if client, ok := v.(*utils_s3.Client); ok {
			return client
		}
	}
	return nil
}

// AssembleReel mirrors the post enrichment contract: preview comments
// always, viewer state when a viewer is known.
func AssembleReel(db *sqlx.DB, view *models.ReelView, viewerID *uuid.UUID) error {
	comments, err := fetchPreviewComments(db, view.ID)
	if err != nil {
		return err
	}
	view.Comments = comments

	if viewerID != nil {
		liked, err := utils_db.Exists(db,
			"SELECT COUNT(*) FROM reel_likes WHERE user_id = $1 AND reel_id = $2",
			*viewerID, view.ID)
		if err != nil {
			return err
		}
		view.Viewer = &models.ReelViewerState{IsLiked: liked}
	}

	return nil
}

func fetchReelView(db *sqlx.DB, reelID uuid.UUID) (models.ReelView, error) {
	return utils_db.FetchOne[models.ReelView](db, reelViewQuery+" WHERE r.id = $1", reelID)
}

func New(c *gin.Context) {
	db, userID := utils_handler.GetReqCx(c)

	req, err := utils_handler.GetObj[models.ReelRequest](c)
	if err != nil {
		c.Error(api_error.NewFromErr(err, http.StatusBadRequest))
		return
	}

	reelID := uuid.New()
	_, err = db.Exec(
		`INSERT INTO reels (id, user_id, video_url, content, duration, creation_date)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		reelID, userID, req.VideoURL, req.Content, req.Duration, time.Now().UTC())
	if err != nil {
		c.Error(err)
		return
	}

	view, err := fetchReelView(db, reelID)
	if err != nil {
		c.Error(err)
		return
	}
	if err := AssembleReel(db, &view, &userID); err != nil {
		c.Error(err)
		return
	}

	utils_handler.Created(c, "reel created", view)
}

func List(c *gin.Context) {
	db := utils_handler.GetDB(c)
	viewerID := utils_handler.GetViewer(c)

	page, limit, err := utils_handler.GetPageReq(c)
	if err != nil {
		c.Error(err)
		return
	}

	views, err := utils_db.FetchAll[models.ReelView](db,
		reelViewQuery+" ORDER BY r.creation_date DESC LIMIT $1 OFFSET $2",
		limit, (page-1)*limit)
	if err != nil {
		c.Error(err)
		return
	}

	for i := range views {
		if err := AssembleReel(db, &views[i], viewerID); err != nil {
			c.Error(err)
			return
		}
	}

	total, err := utils_db.Count(db, "SELECT COUNT(*) FROM reels")
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.Paginated(c, "reels fetched", views, models.NewPagination(page, limit, total))
}

func GetByID(c *gin.Context) {
	db := utils_handler.GetDB(c)

	reelID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	view, err := fetchReelView(db, reelID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.Error(api_error.NotFound("reel not found"))
			return
		}
		c.Error(err)
		return
	}

	if err := AssembleReel(db, &view, nil); err != nil {
		c.Error(err)
		return
	}

	utils_handler.OK(c, "reel fetched", view)
}

func fetchOwnedReel(db *sqlx.DB, reelID, userID uuid.UUID) (models.Reel, error) {
	reel, err := utils_db.FetchOne[models.Reel](db, "SELECT * FROM reels WHERE id = $1", reelID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return reel, api_error.NotFound("reel not found")
		}
		return reel, err
	}
	if reel.UserID != userID {
		return reel, api_error.Forbidden("you cannot modify this reel")
	}
	return reel, nil
}

func Update(c *gin.Context) {
	db, userID := utils_handler.GetReqCx(c)

	reelID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	req, err := utils_handler.GetObj[models.ReelRequest](c)
	if err != nil {
		c.Error(api_error.NewFromErr(err, http.StatusBadRequest))
		return
	}

	if _, err := fetchOwnedReel(db, reelID, userID); err != nil {
		c.Error(err)
		return
	}

	_, err = db.Exec(
		"UPDATE reels SET video_url = $1, content = $2, duration = $3, updated_date = $4 WHERE id = $5",
		req.VideoURL, req.Content, req.Duration, time.Now().UTC(), reelID)
	if err != nil {
		c.Error(err)
		return
	}

	view, err := fetchReelView(db, reelID)
	if err != nil {
		c.Error(err)
		return
	}
	if err := AssembleReel(db, &view, &userID); err != nil {
		c.Error(err)
		return
	}

	utils_handler.OK(c, "reel updated", view)
}

func Delete(c *gin.Context) {
	db, userID := utils_handler.GetReqCx(c)

	reelID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	reel, err := fetchOwnedReel(db, reelID, userID)
	if err != nil {
		c.Error(err)
		return
	}

	if s3Client := getS3(c); s3Client != nil {
		s3Client.DeleteByURL(c.Request.Context(), reel.VideoURL)
	}

	_, err = db.Exec("DELETE FROM reels WHERE id = $1", reelID)
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.OK(c, "reel deleted", nil)
}

func ToggleLike(c *gin.Context) {
	db, userID := utils_handler.GetReqCx(c)

	reelID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if _, err := utils_db.FetchOne[int](db,
		"SELECT like_count FROM reels WHERE id = $1", reelID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.Error(api_error.NotFound("reel not found"))
			return
		}
		c.Error(err)
		return
	}

	liked, err := utils_db.Exists(db,
		"SELECT COUNT(*) FROM reel_likes WHERE user_id = $1 AND reel_id = $2", userID, reelID)
	if err != nil {
		c.Error(err)
		return
	}

	if liked {
		_, err = db.Exec("DELETE FROM reel_likes WHERE user_id = $1 AND reel_id = $2", userID, reelID)
		if err == nil {
			_, err = db.Exec("UPDATE reels SET like_count = like_count - 1 WHERE id = $1", reelID)
		}
	} else {
		_, err = db.Exec("INSERT INTO reel_likes (id, user_id, reel_id) VALUES ($1, $2, $3)",
			uuid.New(), userID, reelID)
		if err == nil {
			_, err = db.Exec("UPDATE reels SET like_count = like_count + 1 WHERE id = $1", reelID)
		}
	}
	if err != nil {
		c.Error(err)
		return
	}

	count, err := utils_db.FetchOne[int](db, "SELECT like_count FROM reels WHERE id = $1", reelID)
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.OK(c, "like toggled", models.ToggleResponse{Active: !liked, Count: count})
}
