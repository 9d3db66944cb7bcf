package models

import "time"

// InventoryItem is one product row held at a location. Product names are not unique.
type InventoryItem struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement"`
	ProductName  string    `gorm:"column:product_name;not null"`
	Quantity     int       `gorm:"column:quantity;not null;default:0"`
	SentQuantity int       `gorm:"column:sent_quantity;not null;default:0"`
	Location     string    `gorm:"column:location;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
