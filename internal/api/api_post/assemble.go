package api_post

import (
	"database/sql"
	"errors"

	"github.com/fortaxe/finlook-backend/internal/models"
	"github.com/fortaxe/finlook-backend/internal/utils/utils_db"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const postViewQuery = `
	SELECT
		p.id, p.user_id, u.username, u.name, u.avatar, u.is_influencer,
		p.content, p.images, p.like_count, p.share_count, p.bookmark_count,
		p.is_retweet, p.original_post_id, p.creation_date, p.updated_date
	FROM posts p
	JOIN users u ON u.id = p.user_id`

const commentViewQuery = `
	SELECT
		c.id, c.post_id, c.user_id, u.username, u.avatar,
		c.content, c.images, c.like_count, c.creation_date, c.updated_date
	FROM comments c
	JOIN users u ON u.id = c.user_id`

// FetchPostView returns a single post joined with its author, without
// any assembly.
func FetchPostView(db *sqlx.DB, postID uuid.UUID) (models.PostView, error) {
	return utils_db.FetchOne[models.PostView](db, postViewQuery+" WHERE p.id = $1", postID)
}

func fetchPreviewComments(db *sqlx.DB, postID uuid.UUID) ([]models.CommentView, error) {
	return utils_db.FetchAll[models.CommentView](db,
		commentViewQuery+" WHERE c.post_id = $1 ORDER BY c.creation_date ASC LIMIT $2",
		postID, models.FEED_COMMENT_NO)
}

func fetchViewerState(db *sqlx.DB, postID, viewerID uuid.UUID) (*models.ViewerState, error) {
	liked, err := utils_db.Exists(db,
		"SELECT COUNT(*) FROM likes WHERE user_id = $1 AND post_id = $2", viewerID, postID)
	if err != nil {
		return nil, err
	}

	bookmarked, err := utils_db.Exists(db,
		"SELECT COUNT(*) FROM bookmarks WHERE user_id = $1 AND post_id = $2", viewerID, postID)
	if err != nil {
		return nil, err
	}

	retweeted, err := utils_db.Exists(db,
		"SELECT COUNT(*) FROM posts WHERE user_id = $1 AND original_post_id = $2 AND is_retweet",
		viewerID, postID)
	if err != nil {
		return nil, err
	}

	return &models.ViewerState{
		IsLiked:      liked,
		IsBookmarked: bookmarked,
		IsRetweeted:  retweeted,
	}, nil
}

// AssembleBarePost attaches preview comments only. The original-post
// field is never populated here, which is what bounds retweet nesting
// to depth 1.
func AssembleBarePost(db *sqlx.DB, view *models.PostView) error {
	comments, err := fetchPreviewComments(db, view.ID)
	if err != nil {
		return err
	}
	view.Comments = comments
	return nil
}

// AssemblePost attaches preview comments, the viewer's state when a
// viewer is known, and for retweets the bare view of the original.
func AssemblePost(db *sqlx.DB, view *models.PostView, viewerID *uuid.UUID) error {
	if err := AssembleBarePost(db, view); err != nil {
		return err
	}

	if viewerID != nil {
		viewer, err := fetchViewerState(db, view.ID, *viewerID)
		if err != nil {
			return err
		}
		view.Viewer = viewer
	}

	if view.IsRetweet && view.OriginalPostID != nil {
		original, err := FetchPostView(db, *view.OriginalPostID)
		if err != nil {
			// The original may have been deleted between the row fetch
			// and here; the retweet is still served without it.
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return err
		}
		if err := AssembleBarePost(db, &original); err != nil {
			return err
		}
		view.OriginalPost = &original
	}

	return nil
}
