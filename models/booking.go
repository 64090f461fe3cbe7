package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingApproved  BookingStatus = "Approved"
	BookingCancelled BookingStatus = "Cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingApproved, BookingCancelled:
		return true
	}
	return false
}

// CanTransition reports whether the status may move to next.
// Cancelled is terminal.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	switch s {
	case BookingPending:
		return next == BookingApproved || next == BookingCancelled
	case BookingApproved:
		return next == BookingCancelled
	}
	return false
}

// Booking reserves one table for a fixed-length slot. ReservationEnd is
// always ReservationStart plus the configured slot duration.
type Booking struct {
	ID               uint          `gorm:"primaryKey" json:"id"`
	Name             string        `gorm:"type:varchar(255);not null" json:"name"`
	Email            string        `gorm:"type:varchar(255);not null" json:"email"`
	Phone            string        `gorm:"type:varchar(50);not null" json:"phone"`
	Guests           int           `gorm:"not null" json:"guests"`
	SpecialRequest   string        `gorm:"type:text" json:"special_request,omitempty"`
	Status           BookingStatus `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	UserID           uint          `gorm:"not null;index" json:"user_id"`
	User             User          `gorm:"foreignKey:UserID" json:"-"`
	TableID          uint          `gorm:"not null;index" json:"table_id"`
	Table            Table         `gorm:"foreignKey:TableID" json:"table"`
	ReservationStart time.Time     `gorm:"not null;index" json:"reservation_start"`
	ReservationEnd   time.Time     `gorm:"not null;index" json:"reservation_end"`
	CreatedAt        time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"not null" json:"updated_at"`
}
