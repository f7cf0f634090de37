package models

import (
	"time"

	"gorm.io/gorm"
)

// Discussion is a top-level forum thread. Slugs are unique across all rows,
// including soft-deleted ones.
type Discussion struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"index;not null" json:"user_id"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Slug         string         `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Content      string         `gorm:"type:text;not null" json:"content"`
	CategorySlug *string        `gorm:"size:64;index" json:"category_slug"`
	Color        string         `gorm:"size:32" json:"color,omitempty"`
	LastReplyAt  *time.Time     `json:"last_reply_at"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	User         User           `gorm:"foreignKey:UserID" json:"author"`
	Posts        []Post         `json:"-"`
	Replies      int64          `gorm:"-" json:"replies"`
}
