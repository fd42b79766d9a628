package models

import (
	"time"

	"gorm.io/datatypes"
)

type Board struct {
	ID          string                      `gorm:"size:36;primaryKey" json:"id"`
	Name        string                      `gorm:"size:100;not null" json:"name"`
	Description string                      `gorm:"type:text" json:"description"`
	CreatedBy   string                      `gorm:"size:36;index" json:"created_by"`
	Members     datatypes.JSONSlice[string] `json:"members"`
	CreatedAt   time.Time                   `json:"created_at"`
}

// HasMember reports whether userID is in the board's member list.
func (b *Board) HasMember(userID string) bool {
	for _, m := range b.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// Status is a board column. Order ranks columns left to right.
type Status struct {
	ID      string `gorm:"size:36;primaryKey" json:"id"`
	BoardID string `gorm:"size:36;not null;index" json:"board_id"`
	Name    string `gorm:"size:50;not null" json:"name"`
	Order   int    `gorm:"column:sort_order;not null;default:0" json:"order"`
}
