package models

import (
	"time"

	"gorm.io/datatypes"
)

// User is the account record. Invitations holds the ids of boards the user
// has been invited to but not yet joined, in invitation order.
type User struct {
	ID              string                      `gorm:"size:36;primaryKey" json:"id"`
	Name            string                      `gorm:"size:100" json:"name"`
	Email           string                      `gorm:"size:255;uniqueIndex" json:"email"`
	InvitationCode  string                      `gorm:"size:8;index" json:"invitation_code"`
	Invitations     datatypes.JSONSlice[string] `json:"invitations"`
	FCMToken        string                      `gorm:"size:512" json:"fcm_token,omitempty"`
	PasswordHash    string                      `json:"-"`
	AuthProvider    string                      `gorm:"size:20;default:'email'" json:"-"`
	ProviderSubject *string                     `gorm:"size:255;index" json:"-"`
	CreatedAt       time.Time                   `json:"created_at"`
}
