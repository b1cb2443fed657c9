package pos

import (
	"context"
	"strings"
	"testing"

	"github.com/gulfretail/gulfposgo/internal/models"
	"github.com/gulfretail/gulfposgo/internal/store"
)

func setupSaleFixture(t *testing.T) (context.Context, *store.MemoryStore, *Service, *models.Product) {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := NewService(st)
	p := &models.Product{UPC: "123", Name: "Karak Tea", Price: 10.0, Stock: 20, Active: true}
	if err := st.CreateProduct(ctx, p); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}
	return ctx, st, svc, p
}

func TestRecordSale_SimpleSale(t *testing.T) {
	ctx, st, svc, p := setupSaleFixture(t)

	result, err := svc.RecordSale(ctx, SaleInput{
		Cart:          []CartLine{{ProductID: p.ID, UPC: "123", Name: p.Name, Price: 10.0, Quantity: 2}},
		SellerName:    "alice",
		PaymentMethod: models.PaymentCash,
	})
	if err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}

	if result.TotalAmount != 20.0 {
		t.Errorf("Total = %v, want 20.0", result.TotalAmount)
	}
	if result.ItemCount != 2 {
		t.Errorf("Item count = %d, want 2", result.ItemCount)
	}
	if result.TransactionID == "" {
		t.Error("Expected a generated transaction id")
	}
	if !strings.HasPrefix(result.InvoiceNumber, "INV-") {
		t.Errorf("Unexpected invoice number format: %q", result.InvoiceNumber)
	}

	items, err := st.SaleItemsByTransactionID(ctx, result.TransactionID)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 sale line, got %d", len(items))
	}
	if items[0].Status != models.SaleStatusActive {
		t.Errorf("Line status = %q, want active", items[0].Status)
	}

	got, _ := st.GetProduct(ctx, p.ID)
	if got.Stock != 18 {
		t.Errorf("Stock = %d, want 18 (decremented by 2)", got.Stock)
	}
}

func TestRecordSale_SharedFieldsAcrossLines(t *testing.T) {
	ctx, st, svc, p := setupSaleFixture(t)

	result, err := svc.RecordSale(ctx, SaleInput{
		Cart: []CartLine{
			{ProductID: p.ID, UPC: "123", Name: p.Name, Price: 10.0, Quantity: 1},
			{UPC: "MANUAL", Name: "Gift Wrap", Price: 5.0, Quantity: 1, Manual: true},
		},
		SellerName:       "alice",
		PaymentMethod:    models.PaymentCard,
		PaymentReference: "AUTH-7781",
		Customer:         &models.Customer{Name: "Fatima", Mobile: "0501112222"},
	})
	if err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}

	items, _ := st.SaleItemsByTransactionID(ctx, result.TransactionID)
	if len(items) != 2 {
		t.Fatalf("Expected 2 sale lines, got %d", len(items))
	}
	for _, it := range items {
		if it.InvoiceNumber != result.InvoiceNumber {
			t.Errorf("Line invoice %q differs from %q", it.InvoiceNumber, result.InvoiceNumber)
		}
		if it.CustomerName != "Fatima" || it.PaymentReference != "AUTH-7781" {
			t.Errorf("Shared fields not denormalized onto line: %+v", it)
		}
	}

	// Customer directory upserted opportunistically.
	customers, _ := st.SearchCustomers(ctx, "Fatima")
	if len(customers) != 1 {
		t.Errorf("Expected customer upsert, found %d matches", len(customers))
	}
}

func TestRecordSale_ManualLineSkipsStock(t *testing.T) {
	ctx, st, svc, p := setupSaleFixture(t)

	_, err := svc.RecordSale(ctx, SaleInput{
		Cart:          []CartLine{{UPC: "999", Name: "Service Charge", Price: 15.0, Quantity: 1, Manual: true}},
		SellerName:    "alice",
		PaymentMethod: models.PaymentCash,
	})
	if err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}

	got, _ := st.GetProduct(ctx, p.ID)
	if got.Stock != 20 {
		t.Errorf("Manual line must not touch stock; got %d", got.Stock)
	}
}

func TestRecordSale_OversellGoesNegative(t *testing.T) {
	ctx, st, svc, p := setupSaleFixture(t)

	result, err := svc.RecordSale(ctx, SaleInput{
		Cart:          []CartLine{{ProductID: p.ID, UPC: "123", Name: p.Name, Price: 10.0, Quantity: 25}},
		SellerName:    "alice",
		PaymentMethod: models.PaymentCash,
	})
	if err != nil {
		t.Fatalf("Oversell must not be rejected: %v", err)
	}
	if len(result.WentNegative) != 1 || result.WentNegative[0] != p.Name {
		t.Errorf("Expected negative-stock flag for %q, got %v", p.Name, result.WentNegative)
	}
	got, _ := st.GetProduct(ctx, p.ID)
	if got.Stock != -5 {
		t.Errorf("Stock = %d, want -5", got.Stock)
	}
}

func TestRecordSale_Validation(t *testing.T) {
	ctx, _, svc, p := setupSaleFixture(t)

	cases := []struct {
		name string
		in   SaleInput
	}{
		{"empty cart", SaleInput{SellerName: "alice", PaymentMethod: models.PaymentCash}},
		{"zero quantity", SaleInput{
			Cart:          []CartLine{{ProductID: p.ID, UPC: "123", Name: p.Name, Price: 10, Quantity: 0}},
			SellerName:    "alice",
			PaymentMethod: models.PaymentCash,
		}},
		{"card without reference", SaleInput{
			Cart:          []CartLine{{ProductID: p.ID, UPC: "123", Name: p.Name, Price: 10, Quantity: 1}},
			SellerName:    "alice",
			PaymentMethod: models.PaymentCard,
		}},
		{"bank transfer without reference", SaleInput{
			Cart:          []CartLine{{ProductID: p.ID, UPC: "123", Name: p.Name, Price: 10, Quantity: 1}},
			SellerName:    "alice",
			PaymentMethod: models.PaymentBankTransfer,
		}},
		{"missing seller", SaleInput{
			Cart:          []CartLine{{ProductID: p.ID, UPC: "123", Name: p.Name, Price: 10, Quantity: 1}},
			PaymentMethod: models.PaymentCash,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.RecordSale(ctx, tc.in); !IsValidation(err) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

func TestCheckStock(t *testing.T) {
	ctx, _, svc, p := setupSaleFixture(t)

	warnings, err := svc.CheckStock(ctx, []CartLine{{ProductID: p.ID, Quantity: 25}})
	if err != nil {
		t.Fatalf("CheckStock failed: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %d", len(warnings))
	}
	if warnings[0].Stock != 20 || warnings[0].Requested != 25 {
		t.Errorf("Warning = %+v, want stock 20 requested 25", warnings[0])
	}

	warnings, _ = svc.CheckStock(ctx, []CartLine{{ProductID: p.ID, Quantity: 5}})
	if len(warnings) != 0 {
		t.Errorf("Sufficient stock should produce no warnings, got %v", warnings)
	}
}
