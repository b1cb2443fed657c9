package pos

import (
	"sort"
	"strings"
	"time"

	"github.com/gulfretail/gulfposgo/internal/models"
)

// LegacyBucket is the time window used to approximate transaction
// boundaries for legacy rows that carry no transaction id. Two distinct
// sales by the same seller inside one bucket will merge; that is the
// documented behavior of the heuristic, not something to patch over.
const LegacyBucket = 5 * time.Minute

// GroupKey identifies a logical transaction: either an explicit
// transaction id, or the legacy seller + 5-minute-bucket fallback.
type GroupKey struct {
	TransactionID string
	Seller        string
	Bucket        int64 // floor(unix seconds / bucket size), legacy rows only
}

// Legacy reports whether the key is a derived fallback key.
func (k GroupKey) Legacy() bool { return k.TransactionID == "" }

// KeyFor computes the grouping key for a sale line.
func KeyFor(item models.SaleItem) GroupKey {
	if item.TransactionID != "" {
		return GroupKey{TransactionID: item.TransactionID}
	}
	bucket := item.CreatedAt.Unix() / int64(LegacyBucket/time.Second)
	return GroupKey{Seller: item.SellerName, Bucket: bucket}
}

// BucketWindow returns the [from, to) time range covered by a legacy key.
func (k GroupKey) BucketWindow() (time.Time, time.Time) {
	from := time.Unix(k.Bucket*int64(LegacyBucket/time.Second), 0).UTC()
	return from, from.Add(LegacyBucket)
}

// Transaction is the derived grouping of sale lines sharing a checkout
// event. It is never persisted; it must be recomputed whenever the
// underlying line-item set changes.
type Transaction struct {
	Key           GroupKey  `json:"key"`
	TransactionID string    `json:"transaction_id,omitempty"`
	InvoiceNumber string    `json:"invoice_number,omitempty"`
	SellerName    string    `json:"seller_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"` // earliest member row
	TotalAmount   float64   `json:"total_amount"`
	ItemCount     int       `json:"item_count"`
	Subtotal      float64   `json:"subtotal"`
	VAT           float64   `json:"vat"`

	PaymentMethod    string `json:"payment_method,omitempty"`
	PaymentReference string `json:"payment_reference,omitempty"`
	CustomerName     string `json:"customer_name,omitempty"`
	CustomerMobile   string `json:"customer_mobile,omitempty"`
	CustomerAddress  string `json:"customer_address,omitempty"`
	CustomerTRN      string `json:"customer_trn,omitempty"`
	InvoiceType      string `json:"invoice_type"`
	OrderComment     string `json:"order_comment,omitempty"`

	Items []models.SaleItem `json:"items"`
}

func normalizeInvoiceType(t string) string {
	switch strings.ToLower(t) {
	case models.InvoiceWholesale:
		return models.InvoiceWholesale
	case models.InvoiceCorporate:
		return models.InvoiceCorporate
	default:
		return models.InvoiceRetail
	}
}

// GroupTransactions reconstructs logical transactions from a flat list
// of sale lines. Pure function, no I/O, deterministic for a given input
// order. Callers supply rows sorted created_at descending, so "first
// non-null wins" on shared fields means "most recent non-null"; keep
// that tie-break intact.
func GroupTransactions(items []models.SaleItem) []Transaction {
	byKey := make(map[GroupKey]*Transaction)
	order := make([]GroupKey, 0)

	for _, item := range items {
		key := KeyFor(item)
		tx, ok := byKey[key]
		if !ok {
			tx = &Transaction{
				Key:           key,
				TransactionID: item.TransactionID,
				CreatedAt:     item.CreatedAt,
			}
			byKey[key] = tx
			order = append(order, key)
		}

		tx.TotalAmount += item.Total()
		tx.ItemCount += item.Quantity
		if item.CreatedAt.Before(tx.CreatedAt) {
			tx.CreatedAt = item.CreatedAt
		}

		// Shared fields: first non-empty value in input order wins.
		setIfEmpty(&tx.InvoiceNumber, item.InvoiceNumber)
		setIfEmpty(&tx.SellerName, item.SellerName)
		setIfEmpty(&tx.PaymentMethod, item.PaymentMethod)
		setIfEmpty(&tx.PaymentReference, item.PaymentReference)
		setIfEmpty(&tx.CustomerName, item.CustomerName)
		setIfEmpty(&tx.CustomerMobile, item.CustomerMobile)
		setIfEmpty(&tx.CustomerAddress, item.CustomerAddress)
		setIfEmpty(&tx.CustomerTRN, item.CustomerTRN)
		setIfEmpty(&tx.InvoiceType, item.InvoiceType)
		setIfEmpty(&tx.OrderComment, item.OrderComment)

		tx.Items = append(tx.Items, item)
	}

	out := make([]Transaction, 0, len(order))
	for _, key := range order {
		tx := byKey[key]
		tx.InvoiceType = normalizeInvoiceType(tx.InvoiceType)
		tx.TotalAmount = Round2(tx.TotalAmount)
		tx.Subtotal, tx.VAT = VATBreakdown(tx.TotalAmount)
		out = append(out, *tx)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func setIfEmpty(dst *string, val string) {
	if *dst == "" && val != "" {
		*dst = val
	}
}
