package models

import "time"

type RefreshToken struct {
	ID        string    `gorm:"size:36;primaryKey" json:"id"`
	UserID    string    `gorm:"size:36;not null;index" json:"user_id"`
	TokenHash string    `gorm:"uniqueIndex;not null;size:64" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}
