package models

type OrderItem struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	OrderID    uint     `gorm:"not null;index" json:"order_id"`
	MenuItemID uint     `gorm:"not null" json:"menu_item_id"`
	MenuItem   MenuItem `gorm:"foreignKey:MenuItemID" json:"menu_item"`
	Quantity   int      `gorm:"not null" json:"quantity"`
	// Price is the unit price at order time so later menu edits do not
	// change past invoices.
	Price float64 `gorm:"type:decimal(10,2);not null" json:"price"`
}
