package models

import (
	"time"

	"gorm.io/datatypes"
)

// SystemLog stores WARN and ERROR records written by logging.DBHandler.
type SystemLog struct {
	ID        string         `gorm:"size:36;primaryKey" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	Level     string         `gorm:"size:10;not null;index" json:"level"`
	Message   string         `gorm:"type:text" json:"message"`
	BoardID   string         `gorm:"size:36;index" json:"board_id"`
	RequestID string         `gorm:"size:36;index" json:"request_id"`
	UserID    *string        `gorm:"size:36" json:"user_id"`
	Action    string         `gorm:"size:100" json:"action"`
	Error     string         `gorm:"type:text" json:"error"`
	Extra     datatypes.JSON `json:"extra"`
	CreatedAt time.Time      `json:"created_at"`
}
