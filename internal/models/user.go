package models

import (
	"github.com/google/uuid"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	Username      string     `db:"username" json:"username"`
	Email         string     `db:"email" json:"email"`
	Mobile        string     `db:"mobile" json:"mobile"`
	PasswordHash  *string    `db:"password_hash" json:"-"`
	Role          Role       `db:"role" json:"role"`
	IsVerified    bool       `db:"is_verified" json:"is_verified"`
	Avatar        *string    `db:"avatar" json:"avatar"`
	IsInfluencer  bool       `db:"is_influencer" json:"is_influencer"`
	InfluencerURL *string    `db:"influencer_url" json:"influencer_url"`
	CreationDate  time.Time  `db:"creation_date" json:"creation_date"`
	UpdatedDate   *time.Time `db:"updated_date" json:"updated_date"`
}

type SignUpRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Mobile   string `json:"mobile" binding:"required,len=10,numeric"`
}

type SendOTPRequest struct {
	Mobile string `json:"mobile" binding:"required,len=10,numeric"`
}

type VerifyOTPRequest struct {
	Mobile string `json:"mobile" binding:"required,len=10,numeric"`
	Code   string `json:"code" binding:"required,len=6,numeric"`
}

type AdminSignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AdminCreateRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Mobile   string `json:"mobile" binding:"required,len=10,numeric"`
	Password string `json:"password" binding:"required,min=8"`
}

type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
