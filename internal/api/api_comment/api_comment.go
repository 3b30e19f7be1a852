package api_comment

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

const commentViewQuery = `
	SELECT
		c.id, c.post_id, c.user_id, u.username, u.avatar,
		c.content, c.images, c.like_count, c.creation_date, c.updated_date
	FROM comments c
	JOIN users u ON u.id = c.user_id`

func imagesOrEmpty(images []string) pq.StringArray {
	if images == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(images)
}

func New(c *gin.Context) {
	db, userID := utils_handler.GetReqCx(c)

	postID, err := utils_handler.GetIDParam(c, "id")
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

	postExists, err := utils_db.Exists(db, "SELECT COUNT(*) FROM posts WHERE id = $1", postID)
	if err != nil {
		c.Error(err)
		return
	}
	if !postExists {
		c.Error(api_error.NotFound("post not found"))
		return
	}

	commentID := uuid.New()
	_, err = db.Exec(
		`INSERT INTO comments (id, post_id, user_id, content, images, creation_date)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		commentID, postID, userID, req.Content, imagesOrEmpty(req.Images), time.Now().UTC())
	if err != nil {
		c.Error(err)
		return
	}

	view, err := utils_db.FetchOne[models.CommentView](db,
		commentViewQuery+" WHERE c.id = $1", commentID)
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.Created(c, "comment created", view)
}

func List(c *gin.Context) {
	db := utils_handler.GetDB(c)

	postID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	page, limit, err := utils_handler.GetPageReq(c)
	if err != nil {
		c.Error(err)
		return
	}

	comments, err := utils_db.FetchAll[models.CommentView](db,
		commentViewQuery+" WHERE c.post_id = $1 ORDER BY c.creation_date ASC LIMIT $2 OFFSET $3",
		postID, limit, (page-1)*limit)
	if err != nil {
		c.Error(err)
		return
	}

	total, err := utils_db.Count(db, "SELECT COUNT(*) FROM comments WHERE post_id = $1", postID)
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.Paginated(c, "comments fetched", comments, models.NewPagination(page, limit, total))
}

func fetchOwnedComment(db *sqlx.DB, commentID, userID uuid.UUID) (models.Comment, error) {
	comment, err := utils_db.FetchOne[models.Comment](db,
		"SELECT * FROM comments WHERE id = $1", commentID)
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

func Update(c *gin.Context) {
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

	if _, err := fetchOwnedComment(db, commentID, userID); err != nil {
		c.Error(err)
		return
	}

	_, err = db.Exec(
		"UPDATE comments SET content = $1, images = $2, updated_date = $3 WHERE id = $4",
		req.Content, imagesOrEmpty(req.Images), time.Now().UTC(), commentID)
	if err != nil {
		c.Error(err)
		return
	}

	view, err := utils_db.FetchOne[models.CommentView](db,
		commentViewQuery+" WHERE c.id = $1", commentID)
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.OK(c, "comment updated", view)
}

func Delete(c *gin.Context) {
	db, userID := utils_handler.GetReqCx(c)

	commentID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if _, err := fetchOwnedComment(db, commentID, userID); err != nil {
		c.Error(err)
		return
	}

	_, err = db.Exec("DELETE FROM comments WHERE id = $1", commentID)
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.OK(c, "comment deleted", nil)
}

func ToggleLike(c *gin.Context) {
	db, userID := utils_handler.GetReqCx(c)

	commentID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if _, err := utils_db.FetchOne[int](db,
		"SELECT like_count FROM comments WHERE id = $1", commentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.Error(api_error.NotFound("comment not found"))
			return
		}
		c.Error(err)
		return
	}

	liked, err := utils_db.Exists(db,
		"SELECT COUNT(*) FROM likes WHERE user_id = $1 AND comment_id = $2", userID, commentID)
	if err != nil {
		c.Error(err)
		return
	}

	if liked {
		_, err = db.Exec("DELETE FROM likes WHERE user_id = $1 AND comment_id = $2", userID, commentID)
		if err == nil {
			_, err = db.Exec("UPDATE comments SET like_count = like_count - 1 WHERE id = $1", commentID)
		}
	} else {
		_, err = db.Exec("INSERT INTO likes (id, user_id, comment_id) VALUES ($1, $2, $3)",
			uuid.New(), userID, commentID)
		if err == nil {
			_, err = db.Exec("UPDATE comments SET like_count = like_count + 1 WHERE id = $1", commentID)
		}
	}
	if err != nil {
		c.Error(err)
		return
	}

	count, err := utils_db.FetchOne[int](db, "SELECT like_count FROM comments WHERE id = $1", commentID)
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.OK(c, "like toggled", models.ToggleResponse{Active: !liked, Count: count})
}
