package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"time"
)

type Post struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	UserID         uuid.UUID      `db:"user_id" json:"user_id"`
	Content        *string        `db:"content" json:"content"`
	Images         pq.StringArray `db:"images" json:"images"`
	LikeCount      int            `db:"like_count" json:"like_count"`
	ShareCount     int            `db:"share_count" json:"share_count"`
	BookmarkCount  int            `db:"bookmark_count" json:"bookmark_count"`
	IsRetweet      bool           `db:"is_retweet" json:"is_retweet"`
	OriginalPostID *uuid.UUID     `db:"original_post_id" json:"original_post_id,omitempty"`
	CreationDate   time.Time      `db:"creation_date" json:"creation_date"`
	UpdatedDate    *time.Time     `db:"updated_date" json:"updated_date"`
}

// PostView is a Post joined with its author, plus the assembled
// pieces (preview comments, viewer state, bounded original post)
// filled in after the row fetch.
type PostView struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	UserID         uuid.UUID      `db:"user_id" json:"user_id"`
	Username       string         `db:"username" json:"username"`
	Name           string         `db:"name" json:"name"`
	Avatar         *string        `db:"avatar" json:"avatar"`
	IsInfluencer   bool           `db:"is_influencer" json:"is_influencer"`
	Content        *string        `db:"content" json:"content"`
	Images         pq.StringArray `db:"images" json:"images"`
	LikeCount      int            `db:"like_count" json:"like_count"`
	ShareCount     int            `db:"share_count" json:"share_count"`
	BookmarkCount  int            `db:"bookmark_count" json:"bookmark_count"`
	IsRetweet      bool           `db:"is_retweet" json:"is_retweet"`
	OriginalPostID *uuid.UUID     `db:"original_post_id" json:"original_post_id,omitempty"`
	CreationDate   time.Time      `db:"creation_date" json:"creation_date"`
	UpdatedDate    *time.Time     `db:"updated_date" json:"updated_date"`

	Comments     []CommentView `json:"comments"`
	OriginalPost *PostView     `json:"original_post,omitempty"`
	Viewer       *ViewerState  `json:"viewer,omitempty"`
}

// ViewerState is the requesting user's relation to a post. Present
// only on the feed path, where a viewer is known.
type ViewerState struct {
	IsLiked      bool `json:"is_liked"`
	IsBookmarked bool `json:"is_bookmarked"`
	IsRetweeted  bool `json:"is_retweeted"`
}

type PostRequest struct {
	Content *string  `json:"content"`
	Images  []string `json:"images" binding:"omitempty,max=4"`
}

func (r *PostRequest) IsEmpty() bool {
	return (r.Content == nil || *r.Content == "") && len(r.Images) == 0
}

type RetweetRequest struct {
	OriginalPostID uuid.UUID `json:"original_post_id" binding:"required"`
	Content        *string   `json:"content"`
	Images         []string  `json:"images" binding:"omitempty,max=4"`
}

type ToggleResponse struct {
	Active bool `json:"active"`
	Count  int  `json:"count"`
}
