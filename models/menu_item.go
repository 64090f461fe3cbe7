package models

import "time"

type MenuCategory string

const (
	CategoryBreakfast MenuCategory = "Breakfast"
	CategoryLunch     MenuCategory = "Lunch"
	CategoryDinner    MenuCategory = "Dinner"
	CategoryDessert   MenuCategory = "Dessert"
	CategoryDrink     MenuCategory = "Drink"
	CategoryTea       MenuCategory = "Tea"
)

func (c MenuCategory) Valid() bool {
	switch c {
	case CategoryBreakfast, CategoryLunch, CategoryDinner,
		CategoryDessert, CategoryDrink, CategoryTea:
		return true
	}
	return false
}

type MenuItem struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description string       `gorm:"type:text" json:"description,omitempty"`
	Price       float64      `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    MenuCategory `gorm:"type:varchar(20);not null;index" json:"category"`
	Image       string       `gorm:"type:varchar(255);not null" json:"image"`
	Stock       int          `gorm:"not null;default:0" json:"stock"`
	Available   bool         `gorm:"not null;default:true" json:"available"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
