package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/gulfretail/gulfposgo/internal/middleware"
	"github.com/gulfretail/gulfposgo/internal/models"
)

func productID(req *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	return uint(id), err == nil
}

// listProducts returns the catalog; ?all=true includes deactivated rows
func (r *Router) listProducts(w http.ResponseWriter, req *http.Request) {
	includeInactive := req.URL.Query().Get("all") == "true"
	products, err := r.store.ListProducts(req.Context(), includeInactive)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (r *Router) getProduct(w http.ResponseWriter, req *http.Request) {
	id, ok := productID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	product, err := r.store.GetProduct(req.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// scanProduct resolves a barcode scan at the till. Deactivated
// products still resolve so old stock on the shelf can be sold out.
func (r *Router) scanProduct(w http.ResponseWriter, req *http.Request) {
	upc := mux.Vars(req)["upc"]
	product, err := r.store.GetProductByUPC(req.Context(), upc)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (r *Router) createProduct(w http.ResponseWriter, req *http.Request) {
	var product models.Product
	if err := json.NewDecoder(req.Body).Decode(&product); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if product.Name == "" || product.Price <= 0 {
		respondError(w, http.StatusBadRequest, "Name and a positive price are required")
		return
	}
	product.ID = 0
	product.Active = true
	if err := r.store.CreateProduct(req.Context(), &product); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

func (r *Router) updateProduct(w http.ResponseWriter, req *http.Request) {
	id, ok := productID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	existing, err := r.store.GetProduct(req.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	var update models.Product
	if err := json.NewDecoder(req.Body).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if update.Name == "" || update.Price <= 0 {
		respondError(w, http.StatusBadRequest, "Name and a positive price are required")
		return
	}

	existing.Name = update.Name
	existing.UPC = update.UPC
	existing.Price = update.Price
	// Downward corrections are applied directly; increases go through
	// the restock path below so they settle deficits and leave a
	// stock movement.
	delta := update.Stock - existing.Stock
	if delta < 0 {
		existing.Stock = update.Stock
	}
	if err := r.store.UpdateProduct(req.Context(), existing); err != nil {
		respondServiceError(w, err)
		return
	}

	if delta > 0 {
		inc, err := r.svc.RestockProduct(req.Context(), id, delta, models.MovementEdit, middleware.ActorFrom(req.Context()), "product edit")
		if err != nil {
			respondServiceError(w, err)
			return
		}
		existing.Stock = inc.NewStock
	}
	respondJSON(w, http.StatusOK, existing)
}

// deleteProduct hard-deletes products without sale history and
// deactivates those with history so old invoices keep resolving.
func (r *Router) deleteProduct(w http.ResponseWriter, req *http.Request) {
	id, ok := productID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	product, err := r.store.GetProduct(req.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	hasSales, err := r.store.ProductHasSales(req.Context(), product.UPC)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if hasSales {
		if err := r.store.DeactivateProduct(req.Context(), id); err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"result": "deactivated"})
		return
	}

	if err := r.store.DeleteProduct(req.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"result": "deleted"})
}
