package models

import (
	"github.com/google/uuid"
	"time"
)

type WaitlistUser struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Mobile       *string   `db:"mobile" json:"mobile"`
	CreationDate time.Time `db:"creation_date" json:"creation_date"`
}

type WaitlistJoinRequest struct {
	Name   string  `json:"name" binding:"required"`
	Email  string  `json:"email" binding:"required,email"`
	Mobile *string `json:"mobile" binding:"omitempty,len=10,numeric"`
}
