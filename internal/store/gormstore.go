package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gulfretail/gulfposgo/internal/models"
)

// GormStore is the PostgreSQL-backed Store implementation.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a connected GORM handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// --- Products ---

func (s *GormStore) ListProducts(ctx context.Context, includeInactive bool) ([]models.Product, error) {
	var products []models.Product
	q := s.db.WithContext(ctx).Order("name asc")
	if !includeInactive {
		q = q.Where("active = ?", true)
	}
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *GormStore) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *GormStore) GetProductByUPC(ctx context.Context, upc string) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).Where("upc = ?", upc).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *GormStore) GetProductByName(ctx context.Context, name string) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).Where("lower(name) = lower(?)", name).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *GormStore) CreateProduct(ctx context.Context, p *models.Product) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *GormStore) UpdateProduct(ctx context.Context, p *models.Product) error {
	return s.db.WithContext(ctx).Save(p).Error
}

func (s *GormStore) SetProductStock(ctx context.Context, id uint, stock int) error {
	res := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("stock", stock)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeactivateProduct(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteProduct(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) ProductHasSales(ctx context.Context, upc string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.SaleItem{}).Where("upc = ?", upc).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// --- Sale line-items ---

func (s *GormStore) InsertSaleItems(ctx context.Context, items []models.SaleItem) error {
	if len(items) == 0 {
		return nil
	}
	// Single batch insert: either all lines land or none do.
	return s.db.WithContext(ctx).Create(&items).Error
}

func (s *GormStore) ListSaleItems(ctx context.Context, q SaleQuery) ([]models.SaleItem, error) {
	dbq := s.db.WithContext(ctx).Order("created_at desc, id desc")
	if !q.From.IsZero() {
		dbq = dbq.Where("created_at >= ?", q.From)
	}
	if !q.To.IsZero() {
		dbq = dbq.Where("created_at < ?", q.To)
	}
	if q.Seller != "" {
		dbq = dbq.Where("seller_name = ?", q.Seller)
	}
	if q.Status != "" {
		dbq = dbq.Where("status = ?", q.Status)
	}
	if q.Limit > 0 {
		dbq = dbq.Limit(q.Limit)
	}
	var items []models.SaleItem
	if err := dbq.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GormStore) SaleItemsByTransactionID(ctx context.Context, transactionID string) ([]models.SaleItem, error) {
	var items []models.SaleItem
	err := s.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("created_at desc, id desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GormStore) SaleItemsBySellerWindow(ctx context.Context, seller string, from, to time.Time) ([]models.SaleItem, error) {
	var items []models.SaleItem
	err := s.db.WithContext(ctx).
		Where("seller_name = ? AND created_at >= ? AND created_at < ? AND (transaction_id IS NULL OR transaction_id = '')", seller, from, to).
		Order("created_at desc, id desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GormStore) UpdateSaleItem(ctx context.Context, item *models.SaleItem) error {
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *GormStore) DeleteSaleItem(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.SaleItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// NextInvoiceNumber increments the single-row counter inside a DB
// transaction with a row lock, so two tills never share a number.
func (s *GormStore) NextInvoiceNumber(ctx context.Context) (string, error) {
	var next int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var counter models.InvoiceCounter
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&counter, 1).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			counter = models.InvoiceCounter{ID: 1, LastNumber: 0}
			if err := tx.Create(&counter).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		counter.LastNumber++
		next = counter.LastNumber
		return tx.Save(&counter).Error
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%06d", next), nil
}

// --- Customers ---

func (s *GormStore) UpsertCustomer(ctx context.Context, c models.Customer) (*models.Customer, error) {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return nil, nil
	}
	var existing models.Customer
	var err error
	if c.Mobile != "" {
		err = s.db.WithContext(ctx).Where("mobile = ?", c.Mobile).First(&existing).Error
	} else {
		err = gorm.ErrRecordNotFound
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = s.db.WithContext(ctx).Where("lower(name) = lower(?)", name).First(&existing).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.Name = name
		if c.Type == "" {
			c.Type = models.CustomerRetail
		}
		if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
			return nil, err
		}
		return &c, nil
	}
	if err != nil {
		return nil, err
	}
	// Refresh whatever the sale supplied; never blank out known fields.
	existing.Name = name
	if c.Mobile != "" {
		existing.Mobile = c.Mobile
	}
	if c.Address != "" {
		existing.Address = c.Address
	}
	if c.TRN != "" {
		existing.TRN = c.TRN
	}
	if c.Type != "" {
		existing.Type = c.Type
	}
	if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (s *GormStore) SearchCustomers(ctx context.Context, q string) ([]models.Customer, error) {
	dbq := s.db.WithContext(ctx).Order("name asc").Limit(100)
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		dbq = dbq.Where("lower(name) LIKE ? OR mobile LIKE ?", like, "%"+q+"%")
	}
	var customers []models.Customer
	if err := dbq.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// --- Audit trails ---

func (s *GormStore) AppendUndoLog(ctx context.Context, entry *models.SalesUndoLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *GormStore) AppendEditLog(ctx context.Context, entry *models.InvoiceEditLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *GormStore) AppendStockMovement(ctx context.Context, m *models.StockMovement) error {
	return s.db.WithContext(ctx).Create(m).Error
}

func (s *GormStore) ListUndoLogs(ctx context.Context, limit int) ([]models.SalesUndoLog, error) {
	var entries []models.SalesUndoLog
	if err := s.auditQuery(ctx, limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *GormStore) ListEditLogs(ctx context.Context, limit int) ([]models.InvoiceEditLog, error) {
	var entries []models.InvoiceEditLog
	if err := s.auditQuery(ctx, limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *GormStore) ListStockMovements(ctx context.Context, limit int) ([]models.StockMovement, error) {
	var entries []models.StockMovement
	if err := s.auditQuery(ctx, limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *GormStore) auditQuery(ctx context.Context, limit int) *gorm.DB {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.db.WithContext(ctx).Order("created_at desc").Limit(limit)
}

// --- Users ---

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.UserAuth, error) {
	var u models.UserAuth
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *GormStore) CreateUser(ctx context.Context, u *models.UserAuth) error {
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *GormStore) SaveUser(ctx context.Context, u *models.UserAuth) error {
	return s.db.WithContext(ctx).Save(u).Error
}
