package printer

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/gulfretail/gulfposgo/internal/config"
	"github.com/gulfretail/gulfposgo/internal/pos"
)

// Generator renders printable A4 tax invoices
type Generator struct {
	company config.CompanyConfig
}

// NewGenerator creates a Generator with the seller identity for the header
func NewGenerator(company config.CompanyConfig) *Generator {
	return &Generator{company: company}
}

// InvoicePDF renders the transaction as a tax invoice and returns the PDF bytes.
// Layout: company header with TRN, customer block, item table with per-line
// taxable value and VAT, totals, amount in words, and a QR code carrying the
// invoice number for till lookups.
func (g *Generator) InvoicePDF(tx *pos.Transaction) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 30

	// Company header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(contentWidth, 8, g.company.Name, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	if g.company.Address != "" {
		pdf.CellFormat(contentWidth, 5, g.company.Address, "", 1, "C", false, 0, "")
	}
	if g.company.Phone != "" {
		pdf.CellFormat(contentWidth, 5, "Tel: "+g.company.Phone, "", 1, "C", false, 0, "")
	}
	if g.company.TRN != "" {
		pdf.CellFormat(contentWidth, 5, "TRN: "+g.company.TRN, "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)

	title := "TAX INVOICE"
	if tx.InvoiceType != "retail" {
		title = fmt.Sprintf("TAX INVOICE (%s)", tx.InvoiceType)
	}
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(contentWidth, 8, title, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// Invoice metadata, left column
	pdf.SetFont("Arial", "", 10)
	metaY := pdf.GetY()
	pdf.CellFormat(90, 6, "Invoice No: "+tx.InvoiceNumber, "", 1, "L", false, 0, "")
	pdf.CellFormat(90, 6, "Date: "+tx.CreatedAt.Format("02 Jan 2006 15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(90, 6, "Served by: "+tx.SellerName, "", 1, "L", false, 0, "")
	pdf.CellFormat(90, 6, "Payment: "+paymentLabel(tx), "", 1, "L", false, 0, "")

	// Customer block, right column
	pdf.SetXY(110, metaY)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(85, 6, "Bill To", "", 2, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	customer := tx.CustomerName
	if customer == "" {
		customer = "Walk-in Customer"
	}
	pdf.CellFormat(85, 5, customer, "", 2, "L", false, 0, "")
	if tx.CustomerMobile != "" {
		pdf.CellFormat(85, 5, tx.CustomerMobile, "", 2, "L", false, 0, "")
	}
	if tx.CustomerAddress != "" {
		pdf.CellFormat(85, 5, tx.CustomerAddress, "", 2, "L", false, 0, "")
	}
	if tx.CustomerTRN != "" {
		pdf.CellFormat(85, 5, "TRN: "+tx.CustomerTRN, "", 2, "L", false, 0, "")
	}
	pdf.SetY(pdf.GetY() + 4)

	// Item table
	colW := []float64{10, 70, 15, 25, 25, 15, 20}
	headers := []string{"#", "Description", "Qty", "Unit Price", "Taxable", "VAT", "Total"}
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range headers {
		pdf.CellFormat(colW[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for i, item := range tx.Items {
		lineTotal := item.Total()
		taxable, vat := pos.VATBreakdown(lineTotal)
		pdf.CellFormat(colW[0], 6, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[1], 6, item.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[2], 6, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[3], 6, fmt.Sprintf("%.2f", item.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[4], 6, fmt.Sprintf("%.2f", taxable), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[5], 6, fmt.Sprintf("%.2f", vat), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[6], 6, fmt.Sprintf("%.2f", lineTotal), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	// Totals
	labelW := colW[0] + colW[1] + colW[2] + colW[3] + colW[4]
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(labelW, 6, "Subtotal (excl. VAT)", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colW[5]+colW[6], 6, fmt.Sprintf("%.2f", tx.Subtotal), "1", 1, "R", false, 0, "")
	pdf.CellFormat(labelW, 6, fmt.Sprintf("VAT %.0f%%", pos.VATRate*100), "1", 0, "R", false, 0, "")
	pdf.CellFormat(colW[5]+colW[6], 6, fmt.Sprintf("%.2f", tx.VAT), "1", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(labelW, 7, "Total AED", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colW[5]+colW[6], 7, fmt.Sprintf("%.2f", tx.TotalAmount), "1", 1, "R", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "I", 9)
	pdf.MultiCell(contentWidth, 5, "Amount in words: "+AmountInWords(tx.TotalAmount), "", "L", false)

	if tx.OrderComment != "" {
		pdf.Ln(1)
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(contentWidth, 5, "Note: "+tx.OrderComment, "", "L", false)
	}

	// QR with the invoice number for quick lookup at the till
	if tx.InvoiceNumber != "" {
		qrPng, err := qrcode.Encode(tx.InvoiceNumber, qrcode.Low, 256)
		if err == nil {
			opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
			_ = pdf.RegisterImageOptionsReader("invoice_qr", opts, bytes.NewReader(qrPng))
			pdf.ImageOptions("invoice_qr", pageWidth-45, pdf.GetY()+4, 28, 28, false, opts, 0, "")
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(contentWidth, 5, "Thank you for your business.", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func paymentLabel(tx *pos.Transaction) string {
	switch tx.PaymentMethod {
	case "card":
		if tx.PaymentReference != "" {
			return "Card (" + tx.PaymentReference + ")"
		}
		return "Card"
	case "bank_transfer":
		if tx.PaymentReference != "" {
			return "Bank Transfer (" + tx.PaymentReference + ")"
		}
		return "Bank Transfer"
	default:
		return "Cash"
	}
}
