package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// ExportCSV writes the current catalog as a `name,upc,price,stock`
// table, the same shape ImportCSV accepts.
func (im *Importer) ExportCSV(ctx context.Context, w io.Writer) error {
	products, err := im.store.ListProducts(ctx, false)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"name", "upc", "price", "stock"}); err != nil {
		return err
	}
	for _, p := range products {
		record := []string{
			p.Name,
			p.UPC,
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			strconv.Itoa(p.Stock),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportXLSX writes the catalog as a spreadsheet for shops that manage
// inventory in Excel.
func (im *Importer) ExportXLSX(ctx context.Context, w io.Writer) error {
	products, err := im.store.ListProducts(ctx, false)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	// Add headers
	f.SetCellValue(sheet, "A1", "name")
	f.SetCellValue(sheet, "B1", "upc")
	f.SetCellValue(sheet, "C1", "price")
	f.SetCellValue(sheet, "D1", "stock")

	// Add data
	for i, p := range products {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(sheet, "A"+row, p.Name)
		f.SetCellValue(sheet, "B"+row, p.UPC)
		f.SetCellValue(sheet, "C"+row, p.Price)
		f.SetCellValue(sheet, "D"+row, p.Stock)
	}

	return f.Write(w)
}
