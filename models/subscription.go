package models

import "time"

// Subscription links a user to a discussion they want notifications for.
type Subscription struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	DiscussionID uint      `gorm:"not null;uniqueIndex:idx_discussion_user" json:"discussion_id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_discussion_user;index" json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Subscription) TableName() string {
	return "discussions_users"
}
