package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gulfretail/gulfposgo/internal/pos"
)

// invoicePDF renders a transaction as a printable tax invoice
func (r *Router) invoicePDF(w http.ResponseWriter, req *http.Request) {
	if r.printer == nil {
		respondError(w, http.StatusServiceUnavailable, "Printer not available")
		return
	}

	key, ok := groupKeyFrom(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Legacy lookup needs seller and bucket")
		return
	}
	items, err := pos.ResolveMembers(req.Context(), r.store, key)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if len(items) == 0 {
		respondError(w, http.StatusNotFound, "Transaction not found")
		return
	}

	tx := pos.GroupTransactions(items)[0]
	pdfBytes, err := r.printer.InvoicePDF(&tx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to generate PDF: %v", err))
		return
	}

	filename := tx.InvoiceNumber
	if filename == "" {
		filename = "invoice"
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%s.pdf", filename))
	w.Write(pdfBytes)
}

// dailyReport returns one day of trading; ?date=YYYY-MM-DD, default today
func (r *Router) dailyReport(w http.ResponseWriter, req *http.Request) {
	day := time.Now()
	if v := req.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	summary, err := r.svc.ReportDaily(req.Context(), day)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
