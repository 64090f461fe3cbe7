package models

import "time"

type RequestType string

const (
	RequestWater  RequestType = "Water"
	RequestNapkin RequestType = "Napkin"
	RequestBill   RequestType = "Bill"
	RequestOther  RequestType = "Other"
)

func (t RequestType) Valid() bool {
	switch t {
	case RequestWater, RequestNapkin, RequestBill, RequestOther:
		return true
	}
	return false
}

type RequestStatus string

const (
	RequestPending   RequestStatus = "Pending"
	RequestCompleted RequestStatus = "Completed"
)

// ServiceRequest is a table-side ask (water, napkins, the bill) tied to the
// booking that was active when it was made.
type ServiceRequest struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	UserID      uint          `gorm:"not null;index" json:"user_id"`
	User        User          `gorm:"foreignKey:UserID" json:"-"`
	BookingID   uint          `gorm:"not null;index" json:"booking_id"`
	Booking     Booking       `gorm:"foreignKey:BookingID" json:"booking"`
	Type        RequestType   `gorm:"type:varchar(20);not null" json:"type"`
	Note        string        `gorm:"type:text" json:"note,omitempty"`
	Status      RequestStatus `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	CreatedAt   time.Time     `gorm:"not null" json:"created_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}
