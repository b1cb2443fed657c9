package pos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gulfretail/gulfposgo/internal/models"
	"github.com/gulfretail/gulfposgo/internal/store"
)

// StockIncrease is the outcome of applying a restock delta.
// Settled is purely a label for the caller: how much of the increase
// covered a prior oversell deficit. The arithmetic is plain addition.
type StockIncrease struct {
	NewStock int `json:"new_stock"`
	Settled  int `json:"settled"`
}

// ApplyStockIncrease computes the new stock level and the settled
// portion for a delta against the current stock.
func ApplyStockIncrease(stock, delta int) StockIncrease {
	settled := 0
	if stock < 0 {
		settled = delta
		if -stock < delta {
			settled = -stock
		}
	}
	return StockIncrease{NewStock: stock + delta, Settled: settled}
}

// RestockProduct increases a product's stock by delta, settling any
// negative balance, and appends a stock movement record. movementType
// must be one of the models.Movement* constants; sales decrements never
// go through here.
func (s *Service) RestockProduct(ctx context.Context, productID uint, delta int, movementType, actor, notes string) (*StockIncrease, error) {
	if delta <= 0 {
		return nil, validationf("quantity", "restock quantity must be positive")
	}
	switch movementType {
	case models.MovementCSVImport, models.MovementManualAdd, models.MovementEdit:
	default:
		return nil, validationf("movement_type", "unknown movement type %q", movementType)
	}
	if strings.TrimSpace(actor) == "" {
		return nil, validationf("actor", "actor is required")
	}

	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "product", Key: fmt.Sprint(productID)}
		}
		return nil, persistErr("product lookup", err)
	}

	inc := ApplyStockIncrease(product.Stock, delta)
	if err := s.store.SetProductStock(ctx, product.ID, inc.NewStock); err != nil {
		return nil, persistErr("stock update", err)
	}

	movement := &models.StockMovement{
		ProductID:     product.ID,
		ProductName:   product.Name,
		PreviousStock: product.Stock,
		NewStock:      inc.NewStock,
		QuantityAdded: delta,
		MovementType:  movementType,
		CreatedBy:     actor,
		Notes:         notes,
	}
	if err := s.store.AppendStockMovement(ctx, movement); err != nil {
		// The stock is already written; a lost movement record is an
		// audit gap, not a reason to fail the restock.
		s.logf("⚠️ Stock movement log failed for product %d: %v", product.ID, err)
	}

	return &inc, nil
}
