package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gulfretail/gulfposgo/internal/models"
	"github.com/gulfretail/gulfposgo/internal/pos"
	"github.com/gulfretail/gulfposgo/internal/store"
)

// Row is one parsed line of the inventory table
type Row struct {
	Name  string
	UPC   string
	Price float64
	Stock int
}

// Result summarizes an import run
type Result struct {
	Mode     string   `json:"mode"` // insert or update
	Inserted int      `json:"inserted"`
	Updated  int      `json:"updated"`
	Warnings []string `json:"warnings,omitempty"`
}

// Importer loads inventory tables into the product catalog
type Importer struct {
	store store.Store
	svc   *pos.Service
}

// NewImporter wires the importer over the store and POS service
func NewImporter(st store.Store, svc *pos.Service) *Importer {
	return &Importer{store: st, svc: svc}
}

// ParseCSV parses a `name,upc,price,stock` table. The header row is
// required; column order is taken from the header, so exports from
// other tools survive reordering.
func ParseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "upc", "price", "stock"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q in header", required)
		}
	}

	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		row := Row{
			Name: strings.TrimSpace(record[cols["name"]]),
			UPC:  strings.TrimSpace(record[cols["upc"]]),
		}
		if row.Name == "" {
			return nil, fmt.Errorf("line %d: name is empty", line)
		}
		row.Price, err = strconv.ParseFloat(strings.TrimSpace(record[cols["price"]]), 64)
		if err != nil || row.Price <= 0 {
			return nil, fmt.Errorf("line %d: bad price %q", line, record[cols["price"]])
		}
		row.Stock, err = strconv.Atoi(strings.TrimSpace(record[cols["stock"]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad stock %q", line, record[cols["stock"]])
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data rows")
	}
	return rows, nil
}

// DetectMode decides between INSERT and UPDATE for a parsed table.
// UPDATE requires every row name to match an existing product; if none
// match it is an INSERT; a mix is rejected so half-applied files cannot
// silently create duplicates.
func (im *Importer) DetectMode(ctx context.Context, rows []Row) (string, error) {
	products, err := im.store.ListProducts(ctx, true)
	if err != nil {
		return "", err
	}
	existing := make(map[string]bool, len(products))
	for _, p := range products {
		existing[strings.ToLower(p.Name)] = true
	}

	matches := 0
	for _, row := range rows {
		if existing[strings.ToLower(row.Name)] {
			matches++
		}
	}
	switch {
	case matches == 0:
		return "insert", nil
	case matches == len(rows):
		return "update", nil
	default:
		return "", fmt.Errorf("%d of %d rows match existing products; file must be all-new or all-existing", matches, len(rows))
	}
}

// ImportCSV parses and applies an inventory file. In UPDATE mode stock
// increases go through the restock path so they settle negative
// balances and leave stock movement records.
func (im *Importer) ImportCSV(ctx context.Context, r io.Reader, actor string) (*Result, error) {
	rows, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}
	mode, err := im.DetectMode(ctx, rows)
	if err != nil {
		return nil, err
	}

	result := &Result{Mode: mode}
	for _, row := range rows {
		if mode == "insert" {
			p := &models.Product{
				Name:   row.Name,
				UPC:    row.UPC,
				Price:  row.Price,
				Stock:  row.Stock,
				Active: true,
			}
			if err := im.store.CreateProduct(ctx, p); err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: insert failed: %v", row.Name, err))
				continue
			}
			result.Inserted++
			continue
		}

		product, err := im.store.GetProductByName(ctx, row.Name)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: lookup failed: %v", row.Name, err))
			continue
		}

		// UPC and price follow the file; name stays the matching key.
		product.UPC = row.UPC
		product.Price = row.Price
		if err := im.store.UpdateProduct(ctx, product); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: update failed: %v", row.Name, err))
			continue
		}

		if delta := row.Stock - product.Stock; delta > 0 {
			if _, err := im.svc.RestockProduct(ctx, product.ID, delta, models.MovementCSVImport, actor, "bulk import"); err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: restock failed: %v", row.Name, err))
				continue
			}
		} else if delta < 0 {
			// Stock decreases in an import file are applied directly,
			// they are corrections, not sales.
			if err := im.store.SetProductStock(ctx, product.ID, row.Stock); err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: stock write failed: %v", row.Name, err))
				continue
			}
		}
		result.Updated++
	}
	return result, nil
}
