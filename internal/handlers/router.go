package handlers

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gulfretail/gulfposgo/internal/ai"
	"github.com/gulfretail/gulfposgo/internal/buildinfo"
	"github.com/gulfretail/gulfposgo/internal/config"
	"github.com/gulfretail/gulfposgo/internal/middleware"
	"github.com/gulfretail/gulfposgo/internal/pos"
	"github.com/gulfretail/gulfposgo/internal/services/importer"
	"github.com/gulfretail/gulfposgo/internal/services/printer"
	"github.com/gulfretail/gulfposgo/internal/store"
	"github.com/gulfretail/gulfposgo/internal/websocket"
)

// Router wraps the mux router and the POS services
type Router struct {
	*mux.Router
	store     store.Store
	cfg       *config.Config
	svc       *pos.Service
	importer  *importer.Importer
	printer   *printer.Generator
	assistant *ai.Assistant
	hub       *websocket.Hub
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(st store.Store, cfg *config.Config, svc *pos.Service) *Router {
	r := &Router{
		Router: mux.NewRouter(),
		store:  st,
		cfg:    cfg,
		svc:    svc,
	}

	authed := middleware.Auth(cfg.JWTSecret)
	admin := middleware.RequireRole("admin")

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/register", r.register).Methods("POST")
	auth.HandleFunc("/logout", r.logout).Methods("POST")

	// API routes (protected)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authed)
	api.HandleFunc("/status", r.getStatus).Methods("GET")

	// Products
	api.HandleFunc("/products", r.listProducts).Methods("GET")
	api.HandleFunc("/products", r.createProduct).Methods("POST")
	api.HandleFunc("/products/{id:[0-9]+}", r.getProduct).Methods("GET")
	api.HandleFunc("/products/scan/{upc}", r.scanProduct).Methods("GET")
	api.HandleFunc("/products/{id:[0-9]+}", r.updateProduct).Methods("PUT")
	api.Handle("/products/{id:[0-9]+}", admin(http.HandlerFunc(r.deleteProduct))).Methods("DELETE")

	// Checkout
	api.HandleFunc("/checkout", r.checkout).Methods("POST")
	api.HandleFunc("/checkout/precheck", r.precheckStock).Methods("POST")

	// Transactions
	api.HandleFunc("/transactions", r.listTransactions).Methods("GET")
	api.HandleFunc("/transactions/{id}", r.getTransaction).Methods("GET")
	api.Handle("/transactions/{id}/undo", admin(http.HandlerFunc(r.undoTransaction))).Methods("POST")
	api.Handle("/transactions/{id}", admin(http.HandlerFunc(r.editTransaction))).Methods("PUT")

	// Customers
	api.HandleFunc("/customers", r.listCustomers).Methods("GET")
	api.HandleFunc("/customers", r.upsertCustomer).Methods("POST")

	// Inventory
	api.Handle("/inventory/restock", admin(http.HandlerFunc(r.restock))).Methods("POST")
	api.Handle("/inventory/import", admin(http.HandlerFunc(r.importInventory))).Methods("POST")
	api.HandleFunc("/inventory/export.csv", r.exportCSV).Methods("GET")
	api.HandleFunc("/inventory/export.xlsx", r.exportXLSX).Methods("GET")
	api.HandleFunc("/inventory/movements", r.listStockMovements).Methods("GET")

	// Audit trails
	api.HandleFunc("/audit/undos", r.listUndoLogs).Methods("GET")
	api.HandleFunc("/audit/edits", r.listEditLogs).Methods("GET")

	// Printing and reports
	api.HandleFunc("/invoices/{id}/pdf", r.invoicePDF).Methods("GET")
	api.HandleFunc("/reports/daily", r.dailyReport).Methods("GET")

	// Assistant
	api.Handle("/assistant", admin(http.HandlerFunc(r.askAssistant))).Methods("POST")

	// Live event feed for terminals
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		if r.hub == nil {
			respondError(w, http.StatusServiceUnavailable, "Event feed not available")
			return
		}
		websocket.ServeWs(r.hub, w, req)
	})

	return r
}

// SetImporter wires the bulk inventory importer
func (r *Router) SetImporter(im *importer.Importer) { r.importer = im }

// SetPrinter wires the invoice PDF generator
func (r *Router) SetPrinter(gen *printer.Generator) { r.printer = gen }

// SetAssistant wires the sales assistant; nil disables the endpoint
func (r *Router) SetAssistant(a *ai.Assistant) { r.assistant = a }

// SetHub wires the websocket hub for the terminal event feed
func (r *Router) SetHub(h *websocket.Hub) { r.hub = h }

// Handler returns the root handler including static file serving
func (r *Router) Handler(static fs.FS) http.Handler {
	if static != nil {
		r.PathPrefix("/").Handler(http.FileServer(http.FS(static)))
	}
	return middleware.CaseInsensitiveMiddleware(r)
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// getStatus returns build and runtime information
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	terminals := 0
	if r.hub != nil {
		terminals = r.hub.ClientCount()
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "running",
		"store":      r.cfg.StoreMode,
		"terminals":  terminals,
		"startTime":  buildinfo.StartTime,
		"buildTime":  buildinfo.BuildTime,
		"commitHash": buildinfo.CommitHash,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondServiceError maps domain errors onto HTTP statuses.
// Validation and not-found messages are safe to show; store failures
// are logged in full and answered with the operation name only, so raw
// database errors never reach end users.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case pos.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case pos.IsNotFound(err) || errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("❌ Request failed: %v", err)
		var pe *pos.PersistenceError
		if errors.As(err, &pe) {
			respondError(w, http.StatusInternalServerError, pe.Op+" failed")
			return
		}
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
