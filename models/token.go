package models

import "time"

// AuthToken is an opaque bearer token bound to a single user
type AuthToken struct {
	Key       string    `gorm:"primaryKey;size:40" json:"key"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the AuthToken model
func (AuthToken) TableName() string {
	return "auth_tokens"
}
