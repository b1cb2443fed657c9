package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gulfretail/gulfposgo/internal/middleware"
	"github.com/gulfretail/gulfposgo/internal/pos"
)

// checkout records a sale from the till cart
func (r *Router) checkout(w http.ResponseWriter, req *http.Request) {
	var input pos.SaleInput
	if err := json.NewDecoder(req.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if input.SellerName == "" {
		input.SellerName = middleware.ActorFrom(req.Context())
	}

	result, err := r.svc.RecordSale(req.Context(), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

// precheckStock reports which cart lines would oversell. Advisory only,
// checkout never rejects a sale for stock.
func (r *Router) precheckStock(w http.ResponseWriter, req *http.Request) {
	var input struct {
		Cart []pos.CartLine `json:"cart"`
	}
	if err := json.NewDecoder(req.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	warnings, err := r.svc.CheckStock(req.Context(), input.Cart)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":       len(warnings) == 0,
		"warnings": warnings,
	})
}
