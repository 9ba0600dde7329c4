package models

import (
	"time"

	"gorm.io/datatypes"
)

// Post statuses.
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

type Post struct {
	BaseModel

	Title       string         `gorm:"not null" json:"title"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Body        string         `json:"body"`
	Author      string         `gorm:"index" json:"author"`
	Status      string         `gorm:"not null;default:draft;index" json:"status"`
	Featured    bool           `gorm:"default:false" json:"featured"`
	Views       int64          `gorm:"default:0" json:"views"`
	Rating      float64        `gorm:"default:0" json:"rating"`
	Tags        datatypes.JSON `json:"tags"`
	PublishedAt *time.Time     `gorm:"index" json:"published_at"`

	CategoryID *string   `gorm:"size:36;index" json:"category_id"`
	Category   *Category `json:"category,omitempty"`
}
