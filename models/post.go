package models

import "time"

// Post is a reply within a discussion.
type Post struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	DiscussionID uint      `gorm:"index;not null" json:"discussion_id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	User         User      `gorm:"foreignKey:UserID" json:"author"`
}

// TableName keeps the host framework's table name.
func (Post) TableName() string {
	return "discussion_posts"
}
