package models

import "time"

// Feedback is a free-form message a customer leaves about the restaurant.
type Feedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
	Subject   string    `gorm:"type:varchar(255)" json:"subject,omitempty"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
