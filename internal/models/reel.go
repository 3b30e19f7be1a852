package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"time"
)

type Reel struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	UserID       uuid.UUID  `db:"user_id" json:"user_id"`
	VideoURL     string     `db:"video_url" json:"video_url"`
	Content      *string    `db:"content" json:"content"`
	Duration     int        `db:"duration" json:"duration"`
	LikeCount    int        `db:"like_count" json:"like_count"`
	ShareCount   int        `db:"share_count" json:"share_count"`
	CreationDate time.Time  `db:"creation_date" json:"creation_date"`
	UpdatedDate  *time.Time `db:"updated_date" json:"updated_date"`
}

type ReelView struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	UserID       uuid.UUID  `db:"user_id" json:"user_id"`
	Username     string     `db:"username" json:"username"`
	Name         string     `db:"name" json:"name"`
	Avatar       *string    `db:"avatar" json:"avatar"`
	IsInfluencer bool       `db:"is_influencer" json:"is_influencer"`
	VideoURL     string     `db:"video_url" json:"video_url"`
	Content      *string    `db:"content" json:"content"`
	Duration     int        `db:"duration" json:"duration"`
	LikeCount    int        `db:"like_count" json:"like_count"`
	ShareCount   int        `db:"share_count" json:"share_count"`
	CreationDate time.Time  `db:"creation_date" json:"creation_date"`
	UpdatedDate  *time.Time `db:"updated_date" json:"updated_date"`

	Comments []ReelCommentView `json:"comments"`
	Viewer   *ReelViewerState  `json:"viewer,omitempty"`
}

type ReelViewerState struct {
	IsLiked bool `json:"is_liked"`
}

type ReelComment struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	ReelID       uuid.UUID      `db:"reel_id" json:"reel_id"`
	UserID       uuid.UUID      `db:"user_id" json:"user_id"`
	Content      *string        `db:"content" json:"content"`
	Images       pq.StringArray `db:"images" json:"images"`
	LikeCount    int            `db:"like_count" json:"like_count"`
	CreationDate time.Time      `db:"creation_date" json:"creation_date"`
	UpdatedDate  *time.Time     `db:"updated_date" json:"updated_date"`
}

type ReelCommentView struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	ReelID       uuid.UUID      `db:"reel_id" json:"reel_id"`
	UserID       uuid.UUID      `db:"user_id" json:"user_id"`
	Username     string         `db:"username" json:"username"`
	Avatar       *string        `db:"avatar" json:"avatar"`
	Content      *string        `db:"content" json:"content"`
	Images       pq.StringArray `db:"images" json:"images"`
	LikeCount    int            `db:"like_count" json:"like_count"`
	CreationDate time.Time      `db:"creation_date" json:"creation_date"`
	UpdatedDate  *time.Time     `db:"updated_date" json:"updated_date"`
}

type ReelRequest struct {
	VideoURL string  `json:"video_url" binding:"required,url"`
	Content  *string `json:"content"`
	Duration int     `json:"duration" binding:"required,min=1,max=300"`
}
