package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gulfretail/gulfposgo/internal/config"
	"github.com/gulfretail/gulfposgo/internal/models"
	"github.com/gulfretail/gulfposgo/internal/pos"
	"github.com/gulfretail/gulfposgo/internal/services/importer"
	"github.com/gulfretail/gulfposgo/internal/store"
	"github.com/gulfretail/gulfposgo/internal/utils"
)

func newTestRouter(t *testing.T) (*Router, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	cfg := &config.Config{JWTSecret: "test-secret", StoreMode: "memory"}
	svc := pos.NewService(st)
	r := NewRouter(st, cfg, svc)
	r.SetImporter(importer.NewImporter(st, svc))
	return r, st
}

func authToken(t *testing.T, r *Router, role string) string {
	t.Helper()
	hash, _ := utils.HashPassword("password123")
	user := &models.UserAuth{
		Username: role + "-user",
		Email:    role + "@shop.test",
		Password: hash,
		Role:     role,
		IsActive: true,
	}
	if err := r.store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	access, _, err := utils.GenerateTokens(user, r.cfg)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return access
}

func doJSON(t *testing.T, r *Router, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := doJSON(t, r, "GET", "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want 200", rec.Code)
	}
}

func TestAPIRequiresAuth(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := doJSON(t, r, "GET", "/api/products", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Status = %d, want 401", rec.Code)
	}
}

func TestLoginFlow(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, "POST", "/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@shop.test",
		"password": "password123",
		"role":     "admin",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Register status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, "POST", "/auth/login", "", map[string]string{
		"email":    "alice@shop.test",
		"password": "password123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Login status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Tokens struct {
			AccessToken string `json:"accessToken"`
		} `json:"tokens"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Bad login response: %v", err)
	}
	if resp.Tokens.AccessToken == "" {
		t.Fatal("No access token in login response")
	}

	rec = doJSON(t, r, "GET", "/api/products", resp.Tokens.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Authenticated products status = %d", rec.Code)
	}

	rec = doJSON(t, r, "POST", "/auth/login", "", map[string]string{
		"email":    "alice@shop.test",
		"password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Bad password status = %d, want 401", rec.Code)
	}
}

func TestCheckoutAndUndoEndpoints(t *testing.T) {
	r, st := newTestRouter(t)
	token := authToken(t, r, "admin")

	rec := doJSON(t, r, "POST", "/api/products", token, map[string]interface{}{
		"name": "Karak Tea", "upc": "123", "price": 10.0, "stock": 20,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Create product status = %d: %s", rec.Code, rec.Body.String())
	}
	var product models.Product
	json.Unmarshal(rec.Body.Bytes(), &product)

	rec = doJSON(t, r, "POST", "/api/checkout", token, map[string]interface{}{
		"cart": []map[string]interface{}{
			{"product_id": product.ID, "upc": "123", "name": "Karak Tea", "price": 10.0, "quantity": 2},
		},
		"seller_name":    "alice",
		"payment_method": "cash",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Checkout status = %d: %s", rec.Code, rec.Body.String())
	}
	var sale pos.SaleResult
	json.Unmarshal(rec.Body.Bytes(), &sale)
	if sale.TotalAmount != 20.0 {
		t.Errorf("TotalAmount = %v, want 20", sale.TotalAmount)
	}

	// Undo without a detail on category "other" is rejected
	rec = doJSON(t, r, "POST", "/api/transactions/"+sale.TransactionID+"/undo", token, map[string]string{
		"reason_category": "other",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Undo 'other' without detail status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, r, "POST", "/api/transactions/"+sale.TransactionID+"/undo", token, map[string]string{
		"reason_category": "customer_return",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Undo status = %d: %s", rec.Code, rec.Body.String())
	}

	p, _ := st.GetProduct(context.Background(), product.ID)
	if p.Stock != 20 {
		t.Errorf("Stock after undo = %d, want 20", p.Stock)
	}

	rec = doJSON(t, r, "POST", "/api/transactions/"+sale.TransactionID+"/undo", token, map[string]string{
		"reason_category": "customer_return",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("Second undo status = %d, want 404", rec.Code)
	}
}

func TestServiceErrorHidesStoreDetail(t *testing.T) {
	// Store failures answer with the operation name only; the wrapped
	// database error stays in the server log.
	rec := httptest.NewRecorder()
	respondServiceError(rec, &pos.PersistenceError{
		Op:  "sale insert",
		Err: errors.New(`pq: password authentication failed for user "postgres" at 10.0.0.5`),
	})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "password") || strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Errorf("Store detail leaked to client: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "sale insert failed") {
		t.Errorf("Expected the operation name in the response, got %s", rec.Body.String())
	}

	// Unknown errors get a generic message.
	rec = httptest.NewRecorder()
	respondServiceError(rec, errors.New("dial tcp 10.0.0.5:5432: connection refused"))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Errorf("Raw error leaked to client: %s", rec.Body.String())
	}

	// Validation and not-found messages remain visible to the till.
	rec = httptest.NewRecorder()
	respondServiceError(rec, &pos.ValidationError{Field: "cart", Message: "cart is empty"})
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "cart is empty") {
		t.Errorf("Validation response wrong: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRegisterCannotSelfElevate(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, "POST", "/auth/register", "", map[string]string{
		"username": "mallory",
		"email":    "mallory@shop.test",
		"password": "password123",
		"role":     "admin",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Register status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		User   models.UserAuth `json:"user"`
		Tokens struct {
			AccessToken string `json:"accessToken"`
		} `json:"tokens"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Bad register response: %v", err)
	}
	if resp.User.Role != "cashier" {
		t.Errorf("Self-service signup role = %q, want cashier", resp.User.Role)
	}

	// The token from that signup must not pass the admin gate.
	rec = doJSON(t, r, "POST", "/api/transactions/some-id/undo", resp.Tokens.AccessToken, map[string]string{
		"reason_category": "customer_return",
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("Self-registered user undo status = %d, want 403", rec.Code)
	}

	// An existing admin can still create another admin.
	admin := authToken(t, r, "admin")
	rec = doJSON(t, r, "POST", "/auth/register", admin, map[string]string{
		"username": "boss",
		"email":    "boss@shop.test",
		"password": "password123",
		"role":     "admin",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Admin-created register status = %d: %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Bad register response: %v", err)
	}
	if resp.User.Role != "admin" {
		t.Errorf("Admin-granted role = %q, want admin", resp.User.Role)
	}
}

func TestUndoRequiresAdmin(t *testing.T) {
	r, _ := newTestRouter(t)
	token := authToken(t, r, "cashier")

	rec := doJSON(t, r, "POST", "/api/transactions/some-id/undo", token, map[string]string{
		"reason_category": "customer_return",
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("Cashier undo status = %d, want 403", rec.Code)
	}
}

func TestExportCSVEndpoint(t *testing.T) {
	r, st := newTestRouter(t)
	token := authToken(t, r, "cashier")
	st.CreateProduct(context.Background(), &models.Product{Name: "Karak Tea", UPC: "123", Price: 10.0, Stock: 20, Active: true})

	rec := doJSON(t, r, "GET", "/api/inventory/export.csv", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Export status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv" {
		t.Errorf("Content-Type = %q", got)
	}
	want := fmt.Sprintf("name,upc,price,stock\n%s,123,10.00,20\n", "Karak Tea")
	if rec.Body.String() != want {
		t.Errorf("CSV body = %q, want %q", rec.Body.String(), want)
	}
}

func TestRegisterClosedWithoutAdminToken(t *testing.T) {
	r, _ := newTestRouter(t)
	r.cfg.DisableRegistration = true

	payload := map[string]string{
		"username": "bob",
		"email":    "bob@shop.test",
		"password": "password123",
	}

	rec := doJSON(t, r, "POST", "/auth/register", "", payload)
	if rec.Code != http.StatusForbidden {
		t.Errorf("Anonymous register status = %d, want 403", rec.Code)
	}

	cashier := authToken(t, r, "cashier")
	rec = doJSON(t, r, "POST", "/auth/register", cashier, payload)
	if rec.Code != http.StatusForbidden {
		t.Errorf("Cashier register status = %d, want 403", rec.Code)
	}

	admin := authToken(t, r, "admin")
	rec = doJSON(t, r, "POST", "/auth/register", admin, payload)
	if rec.Code != http.StatusCreated {
		t.Errorf("Admin register status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
}

func TestProductEditIncreaseSettlesStock(t *testing.T) {
	r, st := newTestRouter(t)
	token := authToken(t, r, "admin")

	p := &models.Product{Name: "Karak Tea", UPC: "123", Price: 10.0, Stock: -5, Active: true}
	if err := st.CreateProduct(context.Background(), p); err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}

	// Edit form raises stock from -5 to 3: an increase of 8, settled
	// through the restock path with an "edit" movement.
	rec := doJSON(t, r, "PUT", fmt.Sprintf("/api/products/%d", p.ID), token, map[string]interface{}{
		"name": "Karak Tea", "upc": "123", "price": 11.0, "stock": 3,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Update status = %d: %s", rec.Code, rec.Body.String())
	}

	got, _ := st.GetProduct(context.Background(), p.ID)
	if got.Stock != 3 {
		t.Errorf("Stock = %d, want 3", got.Stock)
	}
	if got.Price != 11.0 {
		t.Errorf("Price = %v, want 11.0", got.Price)
	}

	movements, _ := st.ListStockMovements(context.Background(), 10)
	if len(movements) != 1 {
		t.Fatalf("Expected 1 stock movement, got %d", len(movements))
	}
	if movements[0].MovementType != models.MovementEdit || movements[0].QuantityAdded != 8 {
		t.Errorf("Movement = %+v, want edit/+8", movements[0])
	}
}

func TestProductScanEndpoint(t *testing.T) {
	r, st := newTestRouter(t)
	token := authToken(t, r, "cashier")

	if err := st.CreateProduct(context.Background(), &models.Product{
		Name: "Karak Tea", UPC: "6291001000101", Price: 10.0, Stock: 20, Active: true,
	}); err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}

	rec := doJSON(t, r, "GET", "/api/products/scan/6291001000101", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Scan status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var got models.Product
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode product: %v", err)
	}
	if got.Name != "Karak Tea" {
		t.Errorf("Scanned product = %q, want %q", got.Name, "Karak Tea")
	}

	rec = doJSON(t, r, "GET", "/api/products/scan/0000000000000", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Unknown UPC status = %d, want 404", rec.Code)
	}
}
