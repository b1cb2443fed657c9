package pos

import (
	"context"
	"testing"

	"github.com/gulfretail/gulfposgo/internal/models"
	"github.com/gulfretail/gulfposgo/internal/store"
)

func TestApplyStockIncrease(t *testing.T) {
	cases := []struct {
		name        string
		stock       int
		delta       int
		wantStock   int
		wantSettled int
	}{
		{"full settlement with surplus", -5, 8, 3, 5},
		{"partial settlement", -5, 3, -2, 3},
		{"no deficit", 10, 4, 14, 0},
		{"zero stock", 0, 7, 7, 0},
		{"exact settlement", -4, 4, 0, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inc := ApplyStockIncrease(tc.stock, tc.delta)
			if inc.NewStock != tc.wantStock {
				t.Errorf("NewStock = %d, want %d", inc.NewStock, tc.wantStock)
			}
			if inc.Settled != tc.wantSettled {
				t.Errorf("Settled = %d, want %d", inc.Settled, tc.wantSettled)
			}
		})
	}
}

func TestRestockProduct(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := NewService(st)

	p := &models.Product{UPC: "123", Name: "Basmati Rice 5kg", Price: 32.50, Stock: -5, Active: true}
	if err := st.CreateProduct(ctx, p); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}

	inc, err := svc.RestockProduct(ctx, p.ID, 8, models.MovementManualAdd, "admin", "supplier delivery")
	if err != nil {
		t.Fatalf("Restock failed: %v", err)
	}
	if inc.NewStock != 3 || inc.Settled != 5 {
		t.Errorf("Got newStock=%d settled=%d, want 3/5", inc.NewStock, inc.Settled)
	}

	got, err := st.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatalf("Product lookup failed: %v", err)
	}
	if got.Stock != 3 {
		t.Errorf("Persisted stock = %d, want 3", got.Stock)
	}

	movements, err := st.ListStockMovements(ctx, 10)
	if err != nil {
		t.Fatalf("Movement listing failed: %v", err)
	}
	if len(movements) != 1 {
		t.Fatalf("Expected 1 stock movement, got %d", len(movements))
	}
	m := movements[0]
	if m.PreviousStock != -5 || m.NewStock != 3 || m.QuantityAdded != 8 {
		t.Errorf("Movement recorded %d -> %d (+%d), want -5 -> 3 (+8)", m.PreviousStock, m.NewStock, m.QuantityAdded)
	}
	if m.MovementType != models.MovementManualAdd {
		t.Errorf("Movement type = %q, want %q", m.MovementType, models.MovementManualAdd)
	}
}

func TestRestockProduct_Validation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemoryStore())

	if _, err := svc.RestockProduct(ctx, 1, 0, models.MovementManualAdd, "admin", ""); !IsValidation(err) {
		t.Errorf("Zero delta should be a validation error, got %v", err)
	}
	if _, err := svc.RestockProduct(ctx, 1, 5, "sale", "admin", ""); !IsValidation(err) {
		t.Errorf("Unknown movement type should be a validation error, got %v", err)
	}
	if _, err := svc.RestockProduct(ctx, 99, 5, models.MovementManualAdd, "admin", ""); !IsNotFound(err) {
		t.Errorf("Missing product should be NotFound, got %v", err)
	}
}
