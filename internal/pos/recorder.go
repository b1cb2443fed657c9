package pos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gulfretail/gulfposgo/internal/models"
)

// CartLine is one entry of a checkout cart. Manual lines are
// off-inventory items typed in at the till; they never touch stock.
type CartLine struct {
	ProductID uint    `json:"product_id,omitempty"`
	UPC       string  `json:"upc"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Manual    bool    `json:"manual,omitempty"`
}

// SaleInput is everything the till sends for one checkout.
type SaleInput struct {
	Cart             []CartLine       `json:"cart"`
	SellerName       string           `json:"seller_name"`
	PaymentMethod    string           `json:"payment_method"`
	PaymentReference string           `json:"payment_reference,omitempty"`
	Customer         *models.Customer `json:"customer,omitempty"`
	InvoiceType      string           `json:"invoice_type,omitempty"`
	OrderComment     string           `json:"order_comment,omitempty"`
}

// SaleResult is the created transaction's aggregate view.
type SaleResult struct {
	TransactionID string   `json:"transaction_id"`
	InvoiceNumber string   `json:"invoice_number"`
	TotalAmount   float64  `json:"total_amount"`
	ItemCount     int      `json:"item_count"`
	WentNegative  []string `json:"went_negative,omitempty"` // product names oversold by this sale
	Warnings      []string `json:"warnings,omitempty"`      // non-fatal sub-step failures
}

// StockWarning is one item of the read-only pre-commit stock check.
type StockWarning struct {
	UPC       string `json:"upc"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Requested int    `json:"requested"`
}

func validateSale(in SaleInput) error {
	if len(in.Cart) == 0 {
		return validationf("cart", "cart is empty")
	}
	for i, line := range in.Cart {
		if line.Quantity <= 0 {
			return validationf("cart", "line %d: quantity must be positive", i+1)
		}
	}
	if strings.TrimSpace(in.SellerName) == "" {
		return validationf("seller_name", "seller is required")
	}
	switch in.PaymentMethod {
	case models.PaymentCash:
	case models.PaymentCard, models.PaymentBankTransfer:
		if strings.TrimSpace(in.PaymentReference) == "" {
			return validationf("payment_reference", "reference is required for %s payments", in.PaymentMethod)
		}
	default:
		return validationf("payment_method", "unknown payment method %q", in.PaymentMethod)
	}
	return nil
}

// CheckStock reports which cart lines would drive stock negative. It is
// a separate read: stock can still change before RecordSale commits,
// and the sale is never rejected for oversell; the till just warns.
func (s *Service) CheckStock(ctx context.Context, cart []CartLine) ([]StockWarning, error) {
	var warnings []StockWarning
	for _, line := range cart {
		if line.Manual || line.ProductID == 0 {
			continue
		}
		product, err := s.store.GetProduct(ctx, line.ProductID)
		if err != nil {
			continue // unknown product lines fall through to RecordSale validation by the till
		}
		if product.Stock-line.Quantity < 0 {
			warnings = append(warnings, StockWarning{
				UPC:       product.UPC,
				Name:      product.Name,
				Stock:     product.Stock,
				Requested: line.Quantity,
			})
		}
	}
	return warnings, nil
}

// RecordSale writes one checkout: a single batch of sale lines sharing
// a fresh transaction id and the next invoice number, then one stock
// decrement per real product. A failed batch insert commits nothing; a
// failed stock decrement is skipped with a warning and the sale stands.
func (s *Service) RecordSale(ctx context.Context, in SaleInput) (*SaleResult, error) {
	if err := validateSale(in); err != nil {
		return nil, err
	}

	invoiceNumber, err := s.store.NextInvoiceNumber(ctx)
	if err != nil {
		return nil, persistErr("invoice number", err)
	}
	transactionID := uuid.NewString()
	now := time.Now().UTC()

	var customer models.Customer
	if in.Customer != nil {
		customer = *in.Customer
	}

	items := make([]models.SaleItem, 0, len(in.Cart))
	total := 0.0
	count := 0
	for _, line := range in.Cart {
		items = append(items, models.SaleItem{
			UPC:              line.UPC,
			ProductName:      line.Name,
			Price:            line.Price,
			Quantity:         line.Quantity,
			SellerName:       in.SellerName,
			TransactionID:    transactionID,
			InvoiceNumber:    invoiceNumber,
			PaymentMethod:    in.PaymentMethod,
			PaymentReference: in.PaymentReference,
			CustomerName:     customer.Name,
			CustomerMobile:   customer.Mobile,
			CustomerAddress:  customer.Address,
			CustomerTRN:      customer.TRN,
			InvoiceType:      normalizeInvoiceType(in.InvoiceType),
			OrderComment:     in.OrderComment,
			Status:           models.SaleStatusActive,
			CreatedAt:        now,
		})
		total += line.Price * float64(line.Quantity)
		count += line.Quantity
	}

	if err := s.store.InsertSaleItems(ctx, items); err != nil {
		return nil, persistErr("sale insert", err)
	}

	result := &SaleResult{
		TransactionID: transactionID,
		InvoiceNumber: invoiceNumber,
		TotalAmount:   Round2(total),
		ItemCount:     count,
	}

	for _, line := range in.Cart {
		if line.Manual || line.ProductID == 0 {
			continue
		}
		product, err := s.store.GetProduct(ctx, line.ProductID)
		if err != nil {
			s.logf("⚠️ Checkout %s: product %d lookup failed, stock not decremented: %v", invoiceNumber, line.ProductID, err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("stock not updated for %s", line.Name))
			continue
		}
		newStock := product.Stock - line.Quantity
		if err := s.store.SetProductStock(ctx, product.ID, newStock); err != nil {
			s.logf("⚠️ Checkout %s: stock update failed for %s: %v", invoiceNumber, product.Name, err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("stock not updated for %s", product.Name))
			continue
		}
		if newStock < 0 {
			result.WentNegative = append(result.WentNegative, product.Name)
		}
	}

	if in.Customer != nil && strings.TrimSpace(in.Customer.Name) != "" {
		if _, err := s.store.UpsertCustomer(ctx, *in.Customer); err != nil {
			s.logf("⚠️ Checkout %s: customer upsert failed: %v", invoiceNumber, err)
			result.Warnings = append(result.Warnings, "customer record not saved")
		}
	}

	s.notify("sale_recorded", result)
	return result, nil
}
