package importer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/gulfretail/gulfposgo/internal/models"
	"github.com/gulfretail/gulfposgo/internal/pos"
	"github.com/gulfretail/gulfposgo/internal/store"
)

func newImporterFixture(t *testing.T) (context.Context, *store.MemoryStore, *Importer) {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemoryStore()
	return ctx, st, NewImporter(st, pos.NewService(st))
}

func TestParseCSV(t *testing.T) {
	input := "name,upc,price,stock\nKarak Tea,123,10.00,20\nDate Syrup,456,18.50,5\n"
	rows, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].Name != "Karak Tea" || rows[0].Price != 10.0 || rows[0].Stock != 20 {
		t.Errorf("Row 0 parsed wrong: %+v", rows[0])
	}
	if rows[1].Price != 18.50 {
		t.Errorf("Row 1 price = %v, want 18.50", rows[1].Price)
	}
}

func TestParseCSV_ReorderedColumns(t *testing.T) {
	input := "stock,price,name,upc\n7,3.25,Laban,789\n"
	rows, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if rows[0].Name != "Laban" || rows[0].Stock != 7 || rows[0].UPC != "789" {
		t.Errorf("Reordered columns parsed wrong: %+v", rows[0])
	}
}

func TestParseCSV_Errors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"missing column", "name,price,stock\nA,1.0,1\n"},
		{"empty name", "name,upc,price,stock\n,1,1.0,1\n"},
		{"bad price", "name,upc,price,stock\nA,1,free,1\n"},
		{"zero price", "name,upc,price,stock\nA,1,0,1\n"},
		{"bad stock", "name,upc,price,stock\nA,1,1.0,many\n"},
		{"no rows", "name,upc,price,stock\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseCSV(strings.NewReader(tc.input)); err == nil {
				t.Error("Expected parse error")
			}
		})
	}
}

func TestImportCSV_InsertMode(t *testing.T) {
	ctx, st, im := newImporterFixture(t)

	input := "name,upc,price,stock\nKarak Tea,123,10.00,20\nDate Syrup,456,18.50,5\n"
	result, err := im.ImportCSV(ctx, strings.NewReader(input), "admin")
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if result.Mode != "insert" {
		t.Errorf("Mode = %q, want insert", result.Mode)
	}
	if result.Inserted != 2 || result.Updated != 0 {
		t.Errorf("Inserted/Updated = %d/%d, want 2/0", result.Inserted, result.Updated)
	}

	products, _ := st.ListProducts(ctx, false)
	if len(products) != 2 {
		t.Fatalf("Expected 2 products, got %d", len(products))
	}
}

func TestImportCSV_UpdateModeSettlesNegativeStock(t *testing.T) {
	ctx, st, im := newImporterFixture(t)

	// Oversold product sitting at -5
	if err := st.CreateProduct(ctx, &models.Product{Name: "Karak Tea", UPC: "123", Price: 10.0, Stock: -5, Active: true}); err != nil {
		t.Fatalf("Fixture product: %v", err)
	}

	// File says stock 3, an increase of 8 over the current -5
	input := "name,upc,price,stock\nKarak Tea,123,12.00,3\n"
	result, err := im.ImportCSV(ctx, strings.NewReader(input), "admin")
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if result.Mode != "update" {
		t.Errorf("Mode = %q, want update", result.Mode)
	}
	if result.Updated != 1 {
		t.Errorf("Updated = %d, want 1", result.Updated)
	}

	p, _ := st.GetProductByName(ctx, "Karak Tea")
	if p.Stock != 3 {
		t.Errorf("Stock = %d, want 3", p.Stock)
	}
	if p.Price != 12.00 {
		t.Errorf("Price = %v, want 12.00", p.Price)
	}

	movements, _ := st.ListStockMovements(ctx, 10)
	if len(movements) != 1 {
		t.Fatalf("Expected 1 stock movement, got %d", len(movements))
	}
	if movements[0].MovementType != models.MovementCSVImport {
		t.Errorf("MovementType = %q, want %q", movements[0].MovementType, models.MovementCSVImport)
	}
	if movements[0].QuantityAdded != 8 {
		t.Errorf("QuantityAdded = %d, want 8", movements[0].QuantityAdded)
	}
}

func TestImportCSV_MixedModeRejected(t *testing.T) {
	ctx, st, im := newImporterFixture(t)
	if err := st.CreateProduct(ctx, &models.Product{Name: "Karak Tea", UPC: "123", Price: 10.0, Stock: 5, Active: true}); err != nil {
		t.Fatalf("Fixture product: %v", err)
	}

	input := "name,upc,price,stock\nKarak Tea,123,10.00,5\nNew Thing,999,2.00,1\n"
	if _, err := im.ImportCSV(ctx, strings.NewReader(input), "admin"); err == nil {
		t.Error("Mixed insert/update file should be rejected")
	}
}

func TestExportCSV_RoundTrip(t *testing.T) {
	ctx, st, im := newImporterFixture(t)
	if err := st.CreateProduct(ctx, &models.Product{Name: "Karak Tea", UPC: "123", Price: 10.0, Stock: 20, Active: true}); err != nil {
		t.Fatalf("Fixture product: %v", err)
	}

	var buf bytes.Buffer
	if err := im.ExportCSV(ctx, &buf); err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	rows, err := ParseCSV(&buf)
	if err != nil {
		t.Fatalf("Exported CSV does not re-parse: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Karak Tea" || rows[0].Stock != 20 {
		t.Errorf("Round trip lost data: %+v", rows)
	}
}

func TestExportXLSX(t *testing.T) {
	ctx, st, im := newImporterFixture(t)
	if err := st.CreateProduct(ctx, &models.Product{Name: "Karak Tea", UPC: "123", Price: 10.0, Stock: 20, Active: true}); err != nil {
		t.Fatalf("Fixture product: %v", err)
	}

	var buf bytes.Buffer
	if err := im.ExportXLSX(ctx, &buf); err != nil {
		t.Fatalf("ExportXLSX failed: %v", err)
	}
	// XLSX is a zip container
	if buf.Len() < 4 || buf.Bytes()[0] != 'P' || buf.Bytes()[1] != 'K' {
		t.Error("Output does not look like an XLSX file")
	}
}
