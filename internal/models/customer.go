package models

import (
	"time"
)

// Customer types
const (
	CustomerRetail    = "retail"
	CustomerCorporate = "corporate"
)

// Customer is a denormalized directory entry, upserted opportunistically
// whenever a sale or an invoice edit supplies a customer name. Matching
// is by mobile number first, then case-insensitive name.
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;index" json:"name"`
	Mobile    string    `gorm:"index" json:"mobile,omitempty"`
	Address   string    `json:"address,omitempty"`
	TRN       string    `json:"trn,omitempty"`
	Type      string    `gorm:"default:'retail'" json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }
