package api_post

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
	"github.com/lib/pq"
)

func getS3(c *gin.Context) *utils_s3.Client {
	if v, ok := c.Get("s3"); ok {
		if client, ok := v.(*utils_s3.Client); ok {
			return client
		}
	}
	return nil
}

func insertPost(db *sqlx.DB, post *models.Post) error {
	_, err := db.Exec(
		`INSERT INTO posts (id, user_id, content, images, is_retweet, original_post_id, creation_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		post.ID, post.UserID, post.Content, post.Images,
		post.IsRetweet, post.OriginalPostID, post.CreationDate)
	return err
}

func imagesOrEmpty(images []string) pq.StringArray {
	if images == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(images)
}

func New(c *gin.Context) {
	db, userID := utils_handler.GetReqCx(c)

	req, err := utils_handler.GetObj[models.PostRequest](c)
	if err != nil {
		c.Error(api_error.NewFromErr(err, http.StatusBadRequest))
		return
	}
	if req.IsEmpty() {
		c.Error(api_error.Validation("post requires content or at least one image"))
		return
	}

	newPost := models.Post{
		ID:           uuid.New(),
		UserID:       userID,
		Content:      req.Content,
		Images:       imagesOrEmpty(req.Images),
		CreationDate: time.Now().UTC(),
	}

	if err := insertPost(db, &newPost); err != nil {
		c.Error(err)
		return
	}

	view, err := FetchPostView(db, newPost.ID)
	if err != nil {
		c.Error(err)
		return
	}
	if err := AssemblePost(db, &view, &userID); err != nil {
		c.Error(err)
		return
	}

	utils_handler.Created(c, "post created", view)
}

func Retweet(c *gin.Context) {
	db, userID := utils_handler.GetReqCx(c)

	req, err := utils_handler.GetObj[models.RetweetRequest](c)
	if err != nil {
		c.Error(api_error.NewFromErr(err, http.StatusBadRequest))
		return
	}

	original, err := utils_db.FetchOne[models.Post](db,
		"SELECT * FROM posts WHERE id = $1", req.OriginalPostID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.Error(api_error.NotFound("original post not found"))
			return
		}
		c.Error(err)
		return
	}

	if original.IsRetweet {
		c.Error(api_error.Validation("cannot retweet a retweet"))
		return
	}

	alreadyRetweeted, err := utils_db.Exists(db,
		"SELECT COUNT(*) FROM posts WHERE user_id = $1 AND original_post_id = $2 AND is_retweet",
		userID, original.ID)
	if err != nil {
		c.Error(err)
		return
	}
	if alreadyRetweeted {
		c.Error(api_error.Conflict("post already retweeted"))
		return
	}

	retweet := models.Post{
		ID:             uuid.New(),
		UserID:         userID,
		Content:        req.Content,
		Images:         imagesOrEmpty(req.Images),
		IsRetweet:      true,
		OriginalPostID: &original.ID,
		CreationDate:   time.Now().UTC(),
	}

	if err := insertPost(db, &retweet); err != nil {
		if utils_db.IsUniqueViolation(err) {
			c.Error(api_error.Conflict("post already retweeted"))
			return
		}
		c.Error(err)
		return
	}

	// Known gap: not transactional with the insert above. A crash here
	// leaves the share counter one short.
	_, err = db.Exec("UPDATE posts SET share_count = share_count + 1 WHERE id = $1", original.ID)
	if err != nil {
		c.Error(err)
		return
	}

	view, err := FetchPostView(db, retweet.ID)
	if err != nil {
		c.Error(err)
		return
	}
	if err := AssemblePost(db, &view, &userID); err != nil {
		c.Error(err)
		return
	}

	utils_handler.Created(c, "retweet created", view)
}

func List(c *gin.Context) {
	db := utils_handler.GetDB(c)
	viewerID := utils_handler.GetViewer(c)

	page, limit, err := utils_handler.GetPageReq(c)
	if err != nil {
		c.Error(err)
		return
	}

	views, err := utils_db.FetchAll[models.PostView](db,
		postViewQuery+" ORDER BY p.creation_date DESC LIMIT $1 OFFSET $2",
		limit, (page-1)*limit)
	if err != nil {
		c.Error(err)
		return
	}

	for i := range views {
		if err := AssemblePost(db, &views[i], viewerID); err != nil {
			c.Error(err)
			return
		}
	}

	total, err := utils_db.Count(db, "SELECT COUNT(*) FROM posts")
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.Paginated(c, "posts fetched", views, models.NewPagination(page, limit, total))
}

func GetByID(c *gin.Context) {
	db := utils_handler.GetDB(c)

	postID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	view, err := FetchPostView(db, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.Error(api_error.NotFound("post not found"))
			return
		}
		c.Error(err)
		return
	}

	// No viewer flags on this path; clients reuse the state they got
	// from the feed.
	if err := AssemblePost(db, &view, nil); err != nil {
		c.Error(err)
		return
	}

	utils_handler.OK(c, "post fetched", view)
}

func fetchOwnedPost(db *sqlx.DB, postID, userID uuid.UUID) (models.Post, error) {
	post, err := utils_db.FetchOne[models.Post](db, "SELECT * FROM posts WHERE id = $1", postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return post, api_error.NotFound("post not found")
		}
		return post, err
	}
	if post.UserID != userID {
		return post, api_error.Forbidden("you cannot modify this post")
	}
	return post, nil
}

func Update(c *gin.Context) {
	db, userID := utils_handler.GetReqCx(c)

	postID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	req, err := utils_handler.GetObj[models.PostRequest](c)
	if err != nil {
		c.Error(api_error.NewFromErr(err, http.StatusBadRequest))
		return
	}

	post, err := fetchOwnedPost(db, postID, userID)
	if err != nil {
		c.Error(err)
		return
	}

	if req.IsEmpty() && !post.IsRetweet {
		c.Error(api_error.Validation("post requires content or at least one image"))
		return
	}

	_, err = db.Exec(
		"UPDATE posts SET content = $1, images = $2, updated_date = $3 WHERE id = $4",
		req.Content, imagesOrEmpty(req.Images), time.Now().UTC(), postID)
	if err != nil {
		c.Error(err)
		return
	}

	view, err := FetchPostView(db, postID)
	if err != nil {
		c.Error(err)
		return
	}
	if err := AssemblePost(db, &view, &userID); err != nil {
		c.Error(err)
		return
	}

	utils_handler.OK(c, "post updated", view)
}

func Delete(c *gin.Context) {
	db, userID := utils_handler.GetReqCx(c)

	postID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	post, err := fetchOwnedPost(db, postID, userID)
	if err != nil {
		c.Error(err)
		return
	}

	// Media cleanup is best-effort; the row goes away regardless.
	if s3Client := getS3(c); s3Client != nil {
		for _, img := range post.Images {
			s3Client.DeleteByURL(c.Request.Context(), img)
		}
	}

	// Comments, likes and bookmarks go with the row via cascade.
	_, err = db.Exec("DELETE FROM posts WHERE id = $1", postID)
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.OK(c, "post deleted", nil)
}

func ToggleLike(c *gin.Context) {
	db, userID := utils_handler.GetReqCx(c)

	postID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if _, err := utils_db.FetchOne[int](db,
		"SELECT like_count FROM posts WHERE id = $1", postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.Error(api_error.NotFound("post not found"))
			return
		}
		c.Error(err)
		return
	}

	liked, err := utils_db.Exists(db,
		"SELECT COUNT(*) FROM likes WHERE user_id = $1 AND post_id = $2", userID, postID)
	if err != nil {
		c.Error(err)
		return
	}

	if liked {
		_, err = db.Exec("DELETE FROM likes WHERE user_id = $1 AND post_id = $2", userID, postID)
		if err == nil {
			_, err = db.Exec("UPDATE posts SET like_count = like_count - 1 WHERE id = $1", postID)
		}
	} else {
		_, err = db.Exec("INSERT INTO likes (id, user_id, post_id) VALUES ($1, $2, $3)",
			uuid.New(), userID, postID)
		if err == nil {
			_, err = db.Exec("UPDATE posts SET like_count = like_count + 1 WHERE id = $1", postID)
		}
	}
	if err != nil {
		c.Error(err)
		return
	}

	count, err := utils_db.FetchOne[int](db, "SELECT like_count FROM posts WHERE id = $1", postID)
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.OK(c, "like toggled", models.ToggleResponse{Active: !liked, Count: count})
}

func ToggleBookmark(c *gin.Context) {
	db, userID := utils_handler.GetReqCx(c)

	postID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if _, err := utils_db.FetchOne[int](db,
		"SELECT bookmark_count FROM posts WHERE id = $1", postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.Error(api_error.NotFound("post not found"))
			return
		}
		c.Error(err)
		return
	}

	bookmarked, err := utils_db.Exists(db,
		"SELECT COUNT(*) FROM bookmarks WHERE user_id = $1 AND post_id = $2", userID, postID)
	if err != nil {
		c.Error(err)
		return
	}

	if bookmarked {
		_, err = db.Exec("DELETE FROM bookmarks WHERE user_id = $1 AND post_id = $2", userID, postID)
		if err == nil {
			_, err = db.Exec("UPDATE posts SET bookmark_count = bookmark_count - 1 WHERE id = $1", postID)
		}
	} else {
		_, err = db.Exec("INSERT INTO bookmarks (id, user_id, post_id) VALUES ($1, $2, $3)",
			uuid.New(), userID, postID)
		if err == nil {
			_, err = db.Exec("UPDATE posts SET bookmark_count = bookmark_count + 1 WHERE id = $1", postID)
		}
	}
	if err != nil {
		c.Error(err)
		return
	}

	count, err := utils_db.FetchOne[int](db, "SELECT bookmark_count FROM posts WHERE id = $1", postID)
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.OK(c, "bookmark toggled", models.ToggleResponse{Active: !bookmarked, Count: count})
}
