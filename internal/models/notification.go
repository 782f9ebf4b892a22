package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an admin-to-user message. Broadcasts are stored as
// one row per recipient.
type Notification struct {
	BaseModel
	UserID   uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	SenderID *uuid.UUID `gorm:"type:uuid" json:"sender_id"`
	Title    string     `json:"title"`
	Body     string     `json:"body"`
	ReadAt   *time.Time `json:"read_at"`
}
