package models

import "time"

type TableStatus string

const (
	TableAvailable   TableStatus = "Available"
	TableUnavailable TableStatus = "Unavailable"
)

func (s TableStatus) Valid() bool {
	return s == TableAvailable || s == TableUnavailable
}

// Table is a physical table in the dining room. Status is a manual admin
// flag and is independent of any bookings on the table.
type Table struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	TableNumber string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"table_number"`
	Capacity    int         `gorm:"not null" json:"capacity"`
	Status      TableStatus `gorm:"type:varchar(20);not null;default:'Available'" json:"status"`
	CreatedAt   time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null" json:"updated_at"`
}
