package models

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderPreparing OrderStatus = "Preparing"
	OrderDelivered OrderStatus = "Delivered"
	OrderCancelled OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPreparing, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

func (s OrderStatus) CanTransition(next OrderStatus) bool {
	switch s {
	case OrderPending:
		return next == OrderPreparing || next == OrderCancelled
	case OrderPreparing:
		return next == OrderDelivered || next == OrderCancelled
	}
	return false
}

const (
	PaymentCash = "cash"
	PaymentCard = "card"
)

type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	CustomerName    string      `gorm:"type:varchar(255);not null" json:"customer_name"`
	Phone           string      `gorm:"type:varchar(50);not null" json:"phone"`
	Email           string      `gorm:"type:varchar(255);not null" json:"email"`
	Address         string      `gorm:"type:varchar(255);not null" json:"address"`
	PaymentMethod   string      `gorm:"type:varchar(10);not null" json:"payment_method"`
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	TotalPrice      float64     `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Tax             float64     `gorm:"type:decimal(10,2);not null;default:0" json:"tax"`
	PerPersonAmount float64     `gorm:"type:decimal(10,2)" json:"per_person_amount"`
	SplitBetween    int         `gorm:"not null;default:1" json:"split_between"`
	Status          OrderStatus `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	UserID          uint        `gorm:"not null;index" json:"user_id"`
	User            User        `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt       time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"not null" json:"updated_at"`
}
