package models

// User is the host application's account row. This module only reads it to
// render authors and participants; the host owns the table and its schema.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Username  string `gorm:"size:64;not null" json:"username"`
	AvatarURL string `gorm:"size:512" json:"avatar_url"`
}
