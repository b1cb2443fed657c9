package pos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gulfretail/gulfposgo/internal/models"
	"github.com/gulfretail/gulfposgo/internal/store"
)

// UndoWindow is how far back a transaction stays eligible for reversal.
const UndoWindow = 30 * 24 * time.Hour

// UndoResult summarizes a reversal.
type UndoResult struct {
	ItemsRestored  int      `json:"items_restored"`
	RevenueRemoved float64  `json:"revenue_removed"`
	Warnings       []string `json:"warnings,omitempty"`
}

// ResolveMembers loads the sale lines belonging to a grouping key,
// using the same key logic as the grouper. Undo and edit must resolve
// membership this way or they would silently miss or include rows.
func ResolveMembers(ctx context.Context, st store.Store, key GroupKey) ([]models.SaleItem, error) {
	if !key.Legacy() {
		return st.SaleItemsByTransactionID(ctx, key.TransactionID)
	}
	from, to := key.BucketWindow()
	return st.SaleItemsBySellerWindow(ctx, key.Seller, from, to)
}

// UndoEligible is the advisory boundary check: every member still
// active and the earliest line within the undo window. The core
// UndoTransaction does not re-verify this; callers enforce it.
func UndoEligible(items []models.SaleItem, now time.Time) bool {
	if len(items) == 0 {
		return false
	}
	earliest := items[0].CreatedAt
	for _, it := range items {
		if it.Status != models.SaleStatusActive {
			return false
		}
		if it.CreatedAt.Before(earliest) {
			earliest = it.CreatedAt
		}
	}
	return now.Sub(earliest) <= UndoWindow
}

// UndoTransaction reverses a transaction: deletes each member line,
// puts the quantity back onto the product's current stock, and writes
// one undo-log entry per line.
//
// A failed line delete aborts the remaining deletes; rows already
// deleted stay deleted (no rollback) and the error is returned alongside
// the partial result. A failed stock restore only marks that entry
// inventory_restored=false. A failed undo-log insert falls back to the
// local journal so the reversal is never silently unaudited.
func (s *Service) UndoTransaction(ctx context.Context, key GroupKey, reason, actor string) (*UndoResult, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, validationf("reason", "a reason is required to undo a sale")
	}

	members, err := ResolveMembers(ctx, s.store, key)
	if err != nil {
		return nil, persistErr("transaction lookup", err)
	}
	if len(members) == 0 {
		return nil, &NotFoundError{Resource: "transaction", Key: keyLabel(key)}
	}

	result := &UndoResult{}
	for _, item := range members {
		if err := s.store.DeleteSaleItem(ctx, item.ID); err != nil {
			// Abort here: earlier deletions stand, later rows are untouched.
			return result, persistErr(fmt.Sprintf("sale line %d delete", item.ID), err)
		}

		restored := false
		if product, perr := s.store.GetProductByUPC(ctx, item.UPC); perr == nil {
			// Current stock, not a cached value: other tills may have
			// sold this product since the original sale.
			if serr := s.store.SetProductStock(ctx, product.ID, product.Stock+item.Quantity); serr != nil {
				s.logf("⚠️ Undo %s: stock restore failed for %s: %v", keyLabel(key), item.ProductName, serr)
				result.Warnings = append(result.Warnings, fmt.Sprintf("stock not restored for %s", item.ProductName))
			} else {
				restored = true
			}
		} else if !errors.Is(perr, store.ErrNotFound) {
			s.logf("⚠️ Undo %s: product lookup failed for %s: %v", keyLabel(key), item.UPC, perr)
			result.Warnings = append(result.Warnings, fmt.Sprintf("stock not restored for %s", item.ProductName))
		}

		entry := &models.SalesUndoLog{
			TransactionID:     item.TransactionID,
			InvoiceNumber:     item.InvoiceNumber,
			UPC:               item.UPC,
			ProductName:       item.ProductName,
			Price:             item.Price,
			Quantity:          item.Quantity,
			SellerName:        item.SellerName,
			SoldAt:            item.CreatedAt,
			UndoneBy:          actor,
			Reason:            reason,
			InventoryRestored: restored,
		}
		if err := s.store.AppendUndoLog(ctx, entry); err != nil {
			s.logf("❌ Undo %s: audit insert failed, falling back to local journal: %v", keyLabel(key), err)
			if s.journal != nil {
				if jerr := s.journal.Append(*entry); jerr != nil {
					s.logf("❌ Undo %s: local journal write ALSO failed: %v", keyLabel(key), jerr)
				}
			}
			result.Warnings = append(result.Warnings, "audit entry written to local journal only")
		}

		result.ItemsRestored++
		result.RevenueRemoved += item.Total()
	}
	result.RevenueRemoved = Round2(result.RevenueRemoved)

	s.notify("transaction_undone", map[string]interface{}{
		"transaction_id":  key.TransactionID,
		"items_restored":  result.ItemsRestored,
		"revenue_removed": result.RevenueRemoved,
	})
	return result, nil
}

func keyLabel(key GroupKey) string {
	if !key.Legacy() {
		return key.TransactionID
	}
	return fmt.Sprintf("%s@bucket%d", key.Seller, key.Bucket)
}
