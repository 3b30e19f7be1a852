package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"time"
)

type BlogPost struct {
	ID               uuid.UUID      `db:"id" json:"id"`
	Title            string         `db:"title" json:"title"`
	Summary          string         `db:"summary" json:"summary"`
	Content          string         `db:"content" json:"content"`
	PublishedAt      time.Time      `db:"published_at" json:"published_at"`
	SourceName       *string        `db:"source_name" json:"source_name"`
	SourceURL        *string        `db:"source_url" json:"source_url"`
	Tags             pq.StringArray `db:"tags" json:"tags"`
	Regions          pq.StringArray `db:"regions" json:"regions"`
	Companies        pq.StringArray `db:"companies" json:"companies"`
	Sector           *string        `db:"sector" json:"sector"`
	FinancialFigures pq.StringArray `db:"financial_figures" json:"financial_figures"`
	ImageURL         *string        `db:"image_url" json:"image_url"`
	ImagePrompt      *string        `db:"image_prompt" json:"image_prompt"`
	ViewCount        int            `db:"view_count" json:"view_count"`
	CreationDate     time.Time      `db:"creation_date" json:"creation_date"`
}
