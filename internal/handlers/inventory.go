package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gulfretail/gulfposgo/internal/middleware"
	"github.com/gulfretail/gulfposgo/internal/models"
)

// RestockRequest is a manual stock increase
type RestockRequest struct {
	ProductID uint   `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes,omitempty"`
}

func (r *Router) restock(w http.ResponseWriter, req *http.Request) {
	var restockReq RestockRequest
	if err := json.NewDecoder(req.Body).Decode(&restockReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	inc, err := r.svc.RestockProduct(
		req.Context(),
		restockReq.ProductID,
		restockReq.Quantity,
		models.MovementManualAdd,
		middleware.ActorFrom(req.Context()),
		restockReq.Notes,
	)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, inc)
}

// importInventory accepts a CSV upload and applies it in auto-detected
// insert or update mode
func (r *Router) importInventory(w http.ResponseWriter, req *http.Request) {
	if r.importer == nil {
		respondError(w, http.StatusServiceUnavailable, "Importer not available")
		return
	}

	file, _, err := req.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Upload a CSV file under the 'file' field")
		return
	}
	defer file.Close()

	result, err := r.importer.ImportCSV(req.Context(), file, middleware.ActorFrom(req.Context()))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (r *Router) exportCSV(w http.ResponseWriter, req *http.Request) {
	if r.importer == nil {
		respondError(w, http.StatusServiceUnavailable, "Exporter not available")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=inventory.csv")
	if err := r.importer.ExportCSV(req.Context(), w); err != nil {
		respondServiceError(w, err)
	}
}

func (r *Router) exportXLSX(w http.ResponseWriter, req *http.Request) {
	if r.importer == nil {
		respondError(w, http.StatusServiceUnavailable, "Exporter not available")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=inventory.xlsx")
	if err := r.importer.ExportXLSX(req.Context(), w); err != nil {
		respondServiceError(w, err)
	}
}

func auditLimit(req *http.Request) int {
	if n, err := strconv.Atoi(req.URL.Query().Get("limit")); err == nil && n > 0 {
		return n
	}
	return 100
}

func (r *Router) listStockMovements(w http.ResponseWriter, req *http.Request) {
	movements, err := r.store.ListStockMovements(req.Context(), auditLimit(req))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, movements)
}

func (r *Router) listUndoLogs(w http.ResponseWriter, req *http.Request) {
	logs, err := r.store.ListUndoLogs(req.Context(), auditLimit(req))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, logs)
}

func (r *Router) listEditLogs(w http.ResponseWriter, req *http.Request) {
	logs, err := r.store.ListEditLogs(req.Context(), auditLimit(req))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, logs)
}
