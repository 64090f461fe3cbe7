package models

import "time"

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

const (
	UserActive  = "active"
	UserBlocked = "blocked"
)

type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Email      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password   string    `gorm:"type:varchar(255);not null" json:"-"`
	Role       string    `gorm:"type:varchar(20);not null;default:'customer'" json:"role"`
	Status     string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	ProfilePic string    `gorm:"type:varchar(255)" json:"profile_pic,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
