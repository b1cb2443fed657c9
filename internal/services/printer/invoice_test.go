package printer

import (
	"bytes"
	"testing"
	"time"

	"github.com/gulfretail/gulfposgo/internal/config"
	"github.com/gulfretail/gulfposgo/internal/models"
	"github.com/gulfretail/gulfposgo/internal/pos"
)

func TestInvoicePDF(t *testing.T) {
	gen := NewGenerator(config.CompanyConfig{
		Name:    "Gulf Retail Trading LLC",
		TRN:     "100123456700003",
		Address: "Shop 4, Al Wasl Road, Dubai",
		Phone:   "+971 4 000 0000",
	})

	items := []models.SaleItem{
		{ID: 1, ProductName: "Karak Tea", UPC: "123", Price: 10.0, Quantity: 2, CreatedAt: time.Now()},
		{ID: 2, ProductName: "Date Syrup", UPC: "456", Price: 18.0, Quantity: 1, CreatedAt: time.Now()},
	}
	txs := pos.GroupTransactions(items)
	if len(txs) == 0 {
		t.Fatal("No transaction grouped from fixture")
	}
	tx := txs[0]
	tx.InvoiceNumber = "INV-000042"
	tx.SellerName = "alice"
	tx.CustomerName = "Fatima"
	tx.CustomerTRN = "100765432100003"

	pdf, err := gen.InvoicePDF(&tx)
	if err != nil {
		t.Fatalf("InvoicePDF failed: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatal("PDF output is empty")
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("Output does not look like a PDF: %q", pdf[:8])
	}
}

func TestInvoicePDF_WalkInCustomer(t *testing.T) {
	gen := NewGenerator(config.CompanyConfig{Name: "Corner Grocery"})
	txs := pos.GroupTransactions([]models.SaleItem{
		{ID: 1, ProductName: "Water 500ml", Price: 1.5, Quantity: 6, CreatedAt: time.Now()},
	})
	pdf, err := gen.InvoicePDF(&txs[0])
	if err != nil {
		t.Fatalf("InvoicePDF failed: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatal("PDF output is empty")
	}
}
