package models

import "time"

// Notification persists a realtime event so admins who were not connected
// to the websocket feed can still see it.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Event     string    `gorm:"type:varchar(50);not null" json:"event"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
