package models

import (
	"github.com/google/uuid"
	"time"
)

// Prices are stored in minor currency units (paise).
type Course struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	Title         string     `db:"title" json:"title"`
	Description   string     `db:"description" json:"description"`
	Price         int        `db:"price" json:"price"`
	OriginalPrice *int       `db:"original_price" json:"original_price"`
	Level         string     `db:"level" json:"level"`
	Category      string     `db:"category" json:"category"`
	Thumbnail     *string    `db:"thumbnail" json:"thumbnail"`
	IsActive      bool       `db:"is_active" json:"is_active"`
	CreationDate  time.Time  `db:"creation_date" json:"creation_date"`
	UpdatedDate   *time.Time `db:"updated_date" json:"updated_date"`
}

type CourseVideo struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	CourseID     uuid.UUID  `db:"course_id" json:"course_id"`
	Title        string     `db:"title" json:"title"`
	VideoURL     string     `db:"video_url" json:"video_url"`
	Duration     int        `db:"duration" json:"duration"`
	OrderIndex   int        `db:"order_index" json:"order_index"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	CreationDate time.Time  `db:"creation_date" json:"creation_date"`
	UpdatedDate  *time.Time `db:"updated_date" json:"updated_date"`
}

type CoursePurchase struct {
	ID            uuid.UUID `db:"id" json:"id"`
	UserID        uuid.UUID `db:"user_id" json:"user_id"`
	CourseID      uuid.UUID `db:"course_id" json:"course_id"`
	PurchasePrice int       `db:"purchase_price" json:"purchase_price"`
	CreationDate  time.Time `db:"creation_date" json:"creation_date"`
}

type CourseVideoRequest struct {
	Title      string `json:"title" binding:"required"`
	VideoURL   string `json:"video_url" binding:"required,url"`
	Duration   int    `json:"duration" binding:"required,min=1"`
	OrderIndex *int   `json:"order_index"`
}

type CourseRequest struct {
	Title         string               `json:"title" binding:"required"`
	Description   string               `json:"description" binding:"required"`
	Price         int                  `json:"price" binding:"required,min=0"`
	OriginalPrice *int                 `json:"original_price" binding:"omitempty,min=0"`
	Level         string               `json:"level" binding:"required,oneof=beginner intermediate advanced"`
	Category      string               `json:"category" binding:"required"`
	Thumbnail     *string              `json:"thumbnail"`
	Videos        []CourseVideoRequest `json:"videos" binding:"omitempty,dive"`
}

type CourseUpdateRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Price         *int    `json:"price" binding:"omitempty,min=0"`
	OriginalPrice *int    `json:"original_price" binding:"omitempty,min=0"`
	Level         *string `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Category      *string `json:"category"`
	Thumbnail     *string `json:"thumbnail"`
}

type CourseVideoUpdateRequest struct {
	Title      *string `json:"title"`
	VideoURL   *string `json:"video_url" binding:"omitempty,url"`
	Duration   *int    `json:"duration" binding:"omitempty,min=1"`
	OrderIndex *int    `json:"order_index"`
}

type CourseStats struct {
	CourseCount   int `db:"course_count" json:"course_count"`
	VideoCount    int `db:"video_count" json:"video_count"`
	PurchaseCount int `db:"purchase_count" json:"purchase_count"`
	Revenue       int `db:"revenue" json:"revenue"`
}
