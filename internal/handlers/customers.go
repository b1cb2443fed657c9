package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gulfretail/gulfposgo/internal/models"
)

// listCustomers searches the customer book; ?q= matches name or mobile
func (r *Router) listCustomers(w http.ResponseWriter, req *http.Request) {
	customers, err := r.store.SearchCustomers(req.Context(), req.URL.Query().Get("q"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, customers)
}

// upsertCustomer creates or enriches a customer record, matching by
// mobile first and name second
func (r *Router) upsertCustomer(w http.ResponseWriter, req *http.Request) {
	var customer models.Customer
	if err := json.NewDecoder(req.Body).Decode(&customer); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if customer.Name == "" {
		respondError(w, http.StatusBadRequest, "Customer name is required")
		return
	}

	saved, err := r.store.UpsertCustomer(req.Context(), customer)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, saved)
}
