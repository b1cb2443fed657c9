package models

import (
	"time"
)

// Payment methods accepted at checkout
const (
	PaymentCash         = "cash"
	PaymentCard         = "card"
	PaymentBankTransfer = "bank_transfer"
)

// Invoice types
const (
	InvoiceRetail    = "retail"
	InvoiceWholesale = "wholesale"
	InvoiceCorporate = "corporate"
)

// Sale line statuses. A reversal deletes its lines outright, so the
// application never writes "undone" itself; the value exists for rows
// flagged by hand during data repair (and legacy imports), which the
// undo eligibility check must treat as already reversed.
const (
	SaleStatusActive = "active"
	SaleStatusUndone = "undone"
)

// SaleItem is one product line within a checkout transaction.
// Every line of the same transaction carries the same transaction id,
// invoice number and customer/payment fields (denormalized per row;
// the logical transaction is reconstructed by the grouper).
// ProductName and Price are snapshots so the row survives product
// deletion or a later price change.
type SaleItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	UPC         string  `gorm:"index" json:"upc"`
	ProductName string  `gorm:"not null" json:"product_name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	SellerName  string  `gorm:"index" json:"seller_name"`

	TransactionID string `gorm:"index" json:"transaction_id"` // empty on legacy rows
	InvoiceNumber string `gorm:"index" json:"invoice_number"`

	PaymentMethod    string `json:"payment_method"`
	PaymentReference string `json:"payment_reference,omitempty"`

	CustomerName    string `json:"customer_name,omitempty"`
	CustomerMobile  string `json:"customer_mobile,omitempty"`
	CustomerAddress string `json:"customer_address,omitempty"`
	CustomerTRN     string `json:"customer_trn,omitempty"`

	InvoiceType  string `gorm:"default:'retail'" json:"invoice_type"`
	OrderComment string `json:"order_comment,omitempty"`
	Status       string `gorm:"default:'active';index" json:"status"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (SaleItem) TableName() string { return "sales" }

// Total is the line total (unit price * quantity).
func (s SaleItem) Total() float64 { return s.Price * float64(s.Quantity) }
