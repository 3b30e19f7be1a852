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
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const reelCommentViewQuery = `
	SELECT
		rc.id, rc.reel_id, rc.user_id, u.username, u.avatar,
		rc.content, rc.images, rc.like_count, rc.creation_date, rc.updated_date
	FROM reel_comments rc
	JOIN users u ON u.id = rc.user_id`

func imagesOrEmpty(images []string) pq.StringArray {
	if images == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(images)
}

func fetchPreviewComments(db *sqlx.DB, reelID uuid.UUID) ([]models.ReelCommentView, error) {
	return utils_db.FetchAll[models.ReelCommentView](db,
		reelCommentViewQuery+" WHERE rc.reel_id = $1 ORDER BY rc.creation_date ASC LIMIT $2",
		reelID, models.FEED_COMMENT_NO)
}

func NewComment(c *gin.Context) {
	db, userID := utils_handler.GetReqCx(c)

	reelID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	req, err := utils_handler.GetObj[models.CommentRequest](c)
	if err != nil {
		c.Error(api_error.NewFromErr(err, http.StatusBadRequest))
		return
	}
	if req.IsEmpty() {
		c.Error(api_error.Validation("comment requires content or at least one image"))
		return
	}

	reelExists, err := utils_db.Exists(db, "SELECT COUNT(*) FROM reels WHERE id = $1", reelID)
	if err != nil {
		c.Error(err)
		return
	}
	if !reelExists {
		c.Error(api_error.NotFound("reel not found"))
		return
	}

	commentID := uuid.New()
	_, err = db.Exec(
		`INSERT INTO reel_comments (id, reel_id, user_id, content, images, creation_date)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		commentID, reelID, userID, req.Content, imagesOrEmpty(req.Images), time.Now().UTC())
	if err != nil {
		c.Error(err)
		return
	}

	view, err := utils_db.FetchOne[models.ReelCommentView](db,
		reelCommentViewQuery+" WHERE rc.id = $1", commentID)
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.Created(c, "comment created", view)
}

func ListComments(c *gin.Context) {
	db := utils_handler.GetDB(c)

	reelID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	page, limit, err := utils_handler.GetPageReq(c)
	if err != nil {
		c.Error(err)
		return
	}

	comments, err := utils_db.FetchAll[models.ReelCommentView](db,
		reelCommentViewQuery+" WHERE rc.reel_id = $1 ORDER BY rc.creation_date ASC LIMIT $2 OFFSET $3",
		reelID, limit, (page-1)*limit)
	if err != nil {
		c.Error(err)
		return
	}

	total, err := utils_db.Count(db, "SELECT COUNT(*) FROM reel_comments WHERE reel_id = $1", reelID)
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.Paginated(c, "comments fetched", comments, models.NewPagination(page, limit, total))
}

func fetchOwnedReelComment(db *sqlx.DB, commentID, userID uuid.UUID) (models.ReelComment, error) {
	comment, err := utils_db.FetchOne[models.ReelComment](db,
		"SELECT * FROM reel_comments WHERE id = $1", commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return comment, api_error.NotFound("comment not found")
		}
		return comment, err
	}
	if comment.UserID != userID {
		return comment, api_error.Forbidden("you cannot modify this comment")
	}
	return comment, nil
}

func UpdateComment(c *gin.Context) {
	db, userID := utils_handler.GetReqCx(c)

	commentID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	req, err := utils_handler.GetObj[models.CommentRequest](c)
	if err != nil {
		c.Error(api_error.NewFromErr(err, http.StatusBadRequest))
		return
	}
	if req.IsEmpty() {
		c.Error(api_error.Validation("comment requires content or at least one image"))
		return
	}

	if _, err := fetchOwnedReelComment(db, commentID, userID); err != nil {
		c.Error(err)
		return
	}

	_, err = db.Exec(
		"UPDATE reel_comments SET content = $1, images = $2, updated_date = $3 WHERE id = $4",
		req.Content, imagesOrEmpty(req.Images), time.Now().UTC(), commentID)
	if err != nil {
		c.Error(err)
		return
	}

	view, err := utils_db.FetchOne[models.ReelCommentView](db,
		reelCommentViewQuery+" WHERE rc.id = $1", commentID)
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.OK(c, "comment updated", view)
}

func DeleteComment(c *gin.Context) {
	db, userID := utils_handler.GetReqCx(c)

	commentID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if _, err := fetchOwnedReelComment(db, commentID, userID); err != nil {
		c.Error(err)
		return
	}

	_, err = db.Exec("DELETE FROM reel_comments WHERE id = $1", commentID)
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.OK(c, "comment deleted", nil)
}

func ToggleCommentLike(c *gin.Context) {
	db, userID := utils_handler.GetReqCx(c)

	commentID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if _, err := utils_db.FetchOne[int](db,
		"SELECT like_count FROM reel_comments WHERE id = $1", commentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.Error(api_error.NotFound("comment not found"))
			return
		}
		c.Error(err)
		return
	}

	liked, err := utils_db.Exists(db,
		"SELECT COUNT(*) FROM reel_likes WHERE user_id = $1 AND reel_comment_id = $2", userID, commentID)
	if err != nil {
		c.Error(err)
		return
	}

	if liked {
		_, err = db.Exec("DELETE FROM reel_likes WHERE user_id = $1 AND reel_comment_id = $2",
			userID, commentID)
		if err == nil {
			_, err = db.Exec("UPDATE reel_comments SET like_count = like_count - 1 WHERE id = $1", commentID)
		}
	} else {
		_, err = db.Exec("INSERT INTO reel_likes (id, user_id, reel_comment_id) VALUES ($1, $2, $3)",
			uuid.New(), userID, commentID)
		if err == nil {
			_, err = db.Exec("UPDATE reel_comments SET like_count = like_count + 1 WHERE id = $1", commentID)
		}
	}
	if err != nil {
		c.Error(err)
		return
	}

	count, err := utils_db.FetchOne[int](db,
		"SELECT like_count FROM reel_comments WHERE id = $1", commentID)
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.OK(c, "like toggled", models.ToggleResponse{Active: !liked, Count: count})
}
