package store

import (
	"context"
	"errors"
	"time"

	"github.com/gulfretail/gulfposgo/internal/models"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("record not found")

// SaleQuery filters the sale line-item listing. Zero times mean
// unbounded; results are always ordered created_at descending so the
// grouper's "first non-null wins" reads as "most recent non-null".
type SaleQuery struct {
	From   time.Time
	To     time.Time
	Seller string
	Status string
	Limit  int
}

// Store is the persistence boundary. The production implementation is
// GORM over PostgreSQL; an in-memory implementation backs unit tests
// and the zero-dependency demo mode.
type Store interface {
	// Products
	ListProducts(ctx context.Context, includeInactive bool) ([]models.Product, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	GetProductByUPC(ctx context.Context, upc string) (*models.Product, error)
	GetProductByName(ctx context.Context, name string) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	SetProductStock(ctx context.Context, id uint, stock int) error
	DeactivateProduct(ctx context.Context, id uint) error
	DeleteProduct(ctx context.Context, id uint) error
	ProductHasSales(ctx context.Context, upc string) (bool, error)

	// Sale line-items
	InsertSaleItems(ctx context.Context, items []models.SaleItem) error
	ListSaleItems(ctx context.Context, q SaleQuery) ([]models.SaleItem, error)
	SaleItemsByTransactionID(ctx context.Context, transactionID string) ([]models.SaleItem, error)
	SaleItemsBySellerWindow(ctx context.Context, seller string, from, to time.Time) ([]models.SaleItem, error)
	UpdateSaleItem(ctx context.Context, item *models.SaleItem) error
	DeleteSaleItem(ctx context.Context, id uint) error
	NextInvoiceNumber(ctx context.Context) (string, error)

	// Customers
	UpsertCustomer(ctx context.Context, c models.Customer) (*models.Customer, error)
	SearchCustomers(ctx context.Context, q string) ([]models.Customer, error)

	// Audit trails (append-only)
	AppendUndoLog(ctx context.Context, entry *models.SalesUndoLog) error
	AppendEditLog(ctx context.Context, entry *models.InvoiceEditLog) error
	AppendStockMovement(ctx context.Context, m *models.StockMovement) error
	ListUndoLogs(ctx context.Context, limit int) ([]models.SalesUndoLog, error)
	ListEditLogs(ctx context.Context, limit int) ([]models.InvoiceEditLog, error)
	ListStockMovements(ctx context.Context, limit int) ([]models.StockMovement, error)

	// Users
	GetUserByEmail(ctx context.Context, email string) (*models.UserAuth, error)
	CreateUser(ctx context.Context, u *models.UserAuth) error
	SaveUser(ctx context.Context, u *models.UserAuth) error
}
