package models

import "time"

// Rating is one user's 1-5 star score for a menu item. A user rates each
// item at most once; re-rating overwrites.
type Rating struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_user_menu_item" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"-"`
	MenuItemID uint      `gorm:"not null;uniqueIndex:idx_user_menu_item" json:"menu_item_id"`
	MenuItem   MenuItem  `gorm:"foreignKey:MenuItemID" json:"-"`
	Rating     int       `gorm:"not null" json:"rating"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
