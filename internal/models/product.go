package models

import (
	"time"
)

// Product is one inventory-tracked SKU.
// Stock is signed: a negative value means the shop oversold and owes
// that quantity against future restocking.
type Product struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UPC       string    `gorm:"index" json:"upc"`
	Name      string    `gorm:"not null;index" json:"name"`
	Price     float64   `json:"price"` // VAT-inclusive unit price
	Stock     int       `json:"stock"`
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Product) TableName() string { return "products" }
