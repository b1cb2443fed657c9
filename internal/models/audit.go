package models

import (
	"time"

	"gorm.io/datatypes"
)

// Stock movement types (stock increases only; sale decrements are not
// recorded here, they live in the sales table itself)
const (
	MovementCSVImport = "csv_import"
	MovementManualAdd = "manual_add"
	MovementEdit      = "edit"
)

// SalesUndoLog is an append-only audit record written once per reversed
// sale line. It snapshots the line as it was before deletion so the
// reversal stays auditable even though the row itself is gone.
type SalesUndoLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TransactionID string    `gorm:"index" json:"transaction_id"`
	InvoiceNumber string    `json:"invoice_number"`
	UPC           string    `json:"upc"`
	ProductName   string    `json:"product_name"`
	Price         float64   `json:"price"`
	Quantity      int       `json:"quantity"`
	SellerName    string    `json:"seller_name"`
	SoldAt        time.Time `json:"sold_at"`

	UndoneBy          string    `json:"undone_by"`
	Reason            string    `json:"reason"`
	InventoryRestored bool      `json:"inventory_restored"`
	CreatedAt         time.Time `json:"created_at"`
}

func (SalesUndoLog) TableName() string { return "sales_undo_log" }

// InvoiceEditLog is an append-only audit record written once per invoice
// edit. PreviousState and NewState hold the full line-item snapshots as
// JSON; ChangesSummary is the human-readable diff shown in the audit UI.
type InvoiceEditLog struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	InvoiceNumber  string         `gorm:"index" json:"invoice_number"`
	TransactionID  string         `gorm:"index" json:"transaction_id"`
	EditedBy       string         `json:"edited_by"`
	ChangesSummary datatypes.JSON `gorm:"type:jsonb" json:"changes_summary"`
	PreviousState  datatypes.JSON `gorm:"type:jsonb" json:"previous_state"`
	NewState       datatypes.JSON `gorm:"type:jsonb" json:"new_state"`
	Reason         string         `json:"reason,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

func (InvoiceEditLog) TableName() string { return "invoice_edit_logs" }

// StockMovement records any stock increase (restock, CSV import, edit
// form). Decreases from ordinary sales are never recorded here.
type StockMovement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ProductID     uint      `gorm:"index" json:"product_id"`
	ProductName   string    `json:"product_name"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
	QuantityAdded int       `json:"quantity_added"`
	MovementType  string    `json:"movement_type"`
	CreatedBy     string    `json:"created_by"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (StockMovement) TableName() string { return "stock_movements" }

// InvoiceCounter is a single-row table backing the sequential
// human-readable invoice numbers.
type InvoiceCounter struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	LastNumber int64 `json:"last_number"`
}

func (InvoiceCounter) TableName() string { return "invoice_counters" }
