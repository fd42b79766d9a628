package models

import "time"

// Ticket is a unit of work on a board. A ticket with a Parent is a
// sub-ticket of that parent.
type Ticket struct {
	ID          string    `gorm:"size:36;primaryKey" json:"id"`
	BoardID     string    `gorm:"size:36;not null;index" json:"board_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Urgency     string    `gorm:"size:50" json:"urgency"`
	Status      string    `gorm:"size:50" json:"status"`
	CreatedBy   string    `gorm:"size:36" json:"created_by"`
	AssignedTo  string    `gorm:"size:36;index" json:"assigned_to"`
	Edited      bool      `gorm:"default:false" json:"edited"`
	Parent      *string   `gorm:"size:36;index" json:"parent,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Comment struct {
	ID        string    `gorm:"size:36;primaryKey" json:"id"`
	BoardID   string    `gorm:"size:36;not null;index" json:"board_id"`
	TicketID  string    `gorm:"size:36;not null;index" json:"ticket_id"`
	CreatedBy string    `gorm:"size:36" json:"created_by"`
	Content   string    `gorm:"type:text" json:"content"`
	ImageURL  *string   `gorm:"type:text" json:"image_url,omitempty"`
	Edited    bool      `gorm:"default:false" json:"edited"`
	CreatedAt time.Time `json:"created_at"`
}
