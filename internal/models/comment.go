package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"time"
)

type Comment struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	PostID       uuid.UUID      `db:"post_id" json:"post_id"`
	UserID       uuid.UUID      `db:"user_id" json:"user_id"`
	Content      *string        `db:"content" json:"content"`
	Images       pq.StringArray `db:"images" json:"images"`
	LikeCount    int            `db:"like_count" json:"like_count"`
	CreationDate time.Time      `db:"creation_date" json:"creation_date"`
	UpdatedDate  *time.Time     `db:"updated_date" json:"updated_date"`
}

type CommentView struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	PostID       uuid.UUID      `db:"post_id" json:"post_id"`
	UserID       uuid.UUID      `db:"user_id" json:"user_id"`
	Username     string         `db:"username" json:"username"`
	Avatar       *string        `db:"avatar" json:"avatar"`
	Content      *string        `db:"content" json:"content"`
	Images       pq.StringArray `db:"images" json:"images"`
	LikeCount    int            `db:"like_count" json:"like_count"`
	CreationDate time.Time      `db:"creation_date" json:"creation_date"`
	UpdatedDate  *time.Time     `db:"updated_date" json:"updated_date"`
}

type CommentRequest struct {
	Content *string  `json:"content"`
	Images  []string `json:"images" binding:"omitempty,max=4"`
}

func (r *CommentRequest) IsEmpty() bool {
	return (r.Content == nil || *r.Content == "") && len(r.Images) == 0
}
