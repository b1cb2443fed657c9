package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gulfretail/gulfposgo/internal/models"
)

// MemoryStore is a mutex-guarded in-memory Store. It backs the unit
// tests and the POS_STORE=memory demo mode, where the till runs with no
// database at all and loses its data on restart.
type MemoryStore struct {
	mu sync.RWMutex

	products       map[uint]models.Product
	saleItems      map[uint]models.SaleItem
	customers      map[uint]models.Customer
	undoLogs       []models.SalesUndoLog
	editLogs       []models.InvoiceEditLog
	stockMovements []models.StockMovement
	users          map[string]models.UserAuth // keyed by email

	nextProductID  uint
	nextSaleItemID uint
	nextCustomerID uint
	nextAuditID    uint
	invoiceCounter int64
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:  make(map[uint]models.Product),
		saleItems: make(map[uint]models.SaleItem),
		customers: make(map[uint]models.Customer),
		users:     make(map[string]models.UserAuth),
	}
}

// --- Products ---

func (s *MemoryStore) ListProducts(_ context.Context, includeInactive bool) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if !includeInactive && !p.Active {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id uint) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (s *MemoryStore) GetProductByUPC(_ context.Context, upc string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.UPC == upc {
			cp := p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetProductByName(_ context.Context, name string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if strings.EqualFold(p.Name, name) {
			cp := p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateProduct(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextProductID++
	p.ID = s.nextProductID
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.products[p.ID] = *p
	return nil
}

func (s *MemoryStore) UpdateProduct(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		return ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	s.products[p.ID] = *p
	return nil
}

func (s *MemoryStore) SetProductStock(_ context.Context, id uint, stock int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return ErrNotFound
	}
	p.Stock = stock
	p.UpdatedAt = time.Now().UTC()
	s.products[id] = p
	return nil
}

func (s *MemoryStore) DeactivateProduct(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return ErrNotFound
	}
	p.Active = false
	s.products[id] = p
	return nil
}

func (s *MemoryStore) DeleteProduct(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *MemoryStore) ProductHasSales(_ context.Context, upc string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.saleItems {
		if it.UPC == upc {
			return true, nil
		}
	}
	return false, nil
}

// --- Sale line-items ---

func (s *MemoryStore) InsertSaleItems(_ context.Context, items []models.SaleItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range items {
		s.nextSaleItemID++
		items[i].ID = s.nextSaleItemID
		if items[i].CreatedAt.IsZero() {
			items[i].CreatedAt = time.Now().UTC()
		}
		s.saleItems[items[i].ID] = items[i]
	}
	return nil
}

func sortByCreatedDesc(items []models.SaleItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func (s *MemoryStore) ListSaleItems(_ context.Context, q SaleQuery) ([]models.SaleItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.SaleItem
	for _, it := range s.saleItems {
		if !q.From.IsZero() && it.CreatedAt.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && !it.CreatedAt.Before(q.To) {
			continue
		}
		if q.Seller != "" && it.SellerName != q.Seller {
			continue
		}
		if q.Status != "" && it.Status != q.Status {
			continue
		}
		out = append(out, it)
	}
	sortByCreatedDesc(out)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *MemoryStore) SaleItemsByTransactionID(_ context.Context, transactionID string) ([]models.SaleItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.SaleItem
	for _, it := range s.saleItems {
		if it.TransactionID == transactionID {
			out = append(out, it)
		}
	}
	sortByCreatedDesc(out)
	return out, nil
}

func (s *MemoryStore) SaleItemsBySellerWindow(_ context.Context, seller string, from, to time.Time) ([]models.SaleItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.SaleItem
	for _, it := range s.saleItems {
		if it.TransactionID != "" || it.SellerName != seller {
			continue
		}
		if it.CreatedAt.Before(from) || !it.CreatedAt.Before(to) {
			continue
		}
		out = append(out, it)
	}
	sortByCreatedDesc(out)
	return out, nil
}

func (s *MemoryStore) UpdateSaleItem(_ context.Context, item *models.SaleItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.saleItems[item.ID]; !ok {
		return ErrNotFound
	}
	s.saleItems[item.ID] = *item
	return nil
}

func (s *MemoryStore) DeleteSaleItem(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.saleItems[id]; !ok {
		return ErrNotFound
	}
	delete(s.saleItems, id)
	return nil
}

func (s *MemoryStore) NextInvoiceNumber(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoiceCounter++
	return fmt.Sprintf("INV-%06d", s.invoiceCounter), nil
}

// --- Customers ---

func (s *MemoryStore) UpsertCustomer(_ context.Context, c models.Customer) (*models.Customer, error) {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var match *models.Customer
	if c.Mobile != "" {
		for id, existing := range s.customers {
			if existing.Mobile == c.Mobile {
				cp := s.customers[id]
				match = &cp
				break
			}
		}
	}
	if match == nil {
		for id, existing := range s.customers {
			if strings.EqualFold(existing.Name, name) {
				cp := s.customers[id]
				match = &cp
				break
			}
		}
	}
	now := time.Now().UTC()
	if match == nil {
		s.nextCustomerID++
		c.ID = s.nextCustomerID
		c.Name = name
		if c.Type == "" {
			c.Type = models.CustomerRetail
		}
		c.CreatedAt = now
		c.UpdatedAt = now
		s.customers[c.ID] = c
		cp := c
		return &cp, nil
	}
	match.Name = name
	if c.Mobile != "" {
		match.Mobile = c.Mobile
	}
	if c.Address != "" {
		match.Address = c.Address
	}
	if c.TRN != "" {
		match.TRN = c.TRN
	}
	if c.Type != "" {
		match.Type = c.Type
	}
	match.UpdatedAt = now
	s.customers[match.ID] = *match
	cp := *match
	return &cp, nil
}

func (s *MemoryStore) SearchCustomers(_ context.Context, q string) ([]models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Customer
	for _, c := range s.customers {
		if q == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(q)) || strings.Contains(c.Mobile, q) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// --- Audit trails ---

func (s *MemoryStore) AppendUndoLog(_ context.Context, entry *models.SalesUndoLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAuditID++
	entry.ID = s.nextAuditID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.undoLogs = append(s.undoLogs, *entry)
	return nil
}

func (s *MemoryStore) AppendEditLog(_ context.Context, entry *models.InvoiceEditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAuditID++
	entry.ID = s.nextAuditID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.editLogs = append(s.editLogs, *entry)
	return nil
}

func (s *MemoryStore) AppendStockMovement(_ context.Context, m *models.StockMovement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAuditID++
	m.ID = s.nextAuditID
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	s.stockMovements = append(s.stockMovements, *m)
	return nil
}

func (s *MemoryStore) ListUndoLogs(_ context.Context, limit int) ([]models.SalesUndoLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SalesUndoLog, len(s.undoLogs))
	copy(out, s.undoLogs)
	reverseSlice(out)
	return capSlice(out, limit), nil
}

func (s *MemoryStore) ListEditLogs(_ context.Context, limit int) ([]models.InvoiceEditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.InvoiceEditLog, len(s.editLogs))
	copy(out, s.editLogs)
	reverseSlice(out)
	return capSlice(out, limit), nil
}

func (s *MemoryStore) ListStockMovements(_ context.Context, limit int) ([]models.StockMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.StockMovement, len(s.stockMovements))
	copy(out, s.stockMovements)
	reverseSlice(out)
	return capSlice(out, limit), nil
}

func reverseSlice[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func capSlice[T any](s []T, limit int) []T {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if len(s) > limit {
		return s[:limit]
	}
	return s
}

// --- Users ---

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.UserAuth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := u
	return &cp, nil
}

func (s *MemoryStore) CreateUser(_ context.Context, u *models.UserAuth) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, exists := s.users[key]; exists {
		return fmt.Errorf("user already exists: %s", u.Email)
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[key] = *u
	return nil
}

func (s *MemoryStore) SaveUser(_ context.Context, u *models.UserAuth) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, ok := s.users[key]; !ok {
		return ErrNotFound
	}
	u.UpdatedAt = time.Now().UTC()
	s.users[key] = *u
	return nil
}
